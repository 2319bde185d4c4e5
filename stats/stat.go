// Package stats provides the pairwise error metrics used to score a
// forecast against held-out actuals.
package stats

import (
	"errors"
	"math"
)

var ErrLenMismatch = errors.New("actual and forecast have different lengths")

// MAE returns the mean absolute error between paired actual and forecast
// values. Pairs containing NaN are skipped.
func MAE(actual, forecast []float64) (float64, error) {
	if len(actual) != len(forecast) {
		return 0, ErrLenMismatch
	}

	var sum float64
	var cnt int
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(forecast[i]) {
			continue
		}
		sum += math.Abs(actual[i] - forecast[i])
		cnt++
	}
	if cnt == 0 {
		return 0, nil
	}
	return sum / float64(cnt), nil
}

// MAPE returns the mean absolute percentage error as a percentage. Pairs
// whose actual value is zero are excluded from both the numerator and the
// denominator to avoid division by zero; if no pair has a positive actual
// the result is 0.
func MAPE(actual, forecast []float64) (float64, error) {
	if len(actual) != len(forecast) {
		return 0, ErrLenMismatch
	}

	var sum float64
	var cnt int
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(forecast[i]) || actual[i] <= 0 {
			continue
		}
		sum += math.Abs((actual[i] - forecast[i]) / actual[i])
		cnt++
	}
	if cnt == 0 {
		return 0, nil
	}
	return sum / float64(cnt) * 100, nil
}

// RMSE returns the root mean squared error between paired actual and
// forecast values. Pairs containing NaN are skipped.
func RMSE(actual, forecast []float64) (float64, error) {
	if len(actual) != len(forecast) {
		return 0, ErrLenMismatch
	}

	var sum float64
	var cnt int
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(forecast[i]) {
			continue
		}
		diff := actual[i] - forecast[i]
		sum += diff * diff
		cnt++
	}
	if cnt == 0 {
		return 0, nil
	}
	return math.Sqrt(sum / float64(cnt)), nil
}
