// Package forecaster generates sales forecasts from historical data and
// evaluates forecast quality against held-out history. Forecasts blend a
// moving average, exponential smoothing, and a seasonal linear trend into
// a fixed-weight ensemble with volatility-derived confidence bounds.
//
// Every operation is a pure function of its input records; no model state
// is retained between calls.
package forecaster

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/salescast/sales-forecaster/forecast"
	"github.com/salescast/sales-forecaster/timedataset"
)

var (
	// Error messages surface verbatim through the API, hence the casing.
	ErrInsufficientData = errors.New("Insufficient data for forecasting (minimum 6 data points)")
	ErrInvalidHorizon   = errors.New("forecast horizon must be at least 1 period")
	ErrNumericFault     = errors.New("forecast produced a non-finite value")
)

const (
	// MinForecastPoints is the smallest series a forecast can be built from.
	MinForecastPoints = 6

	// ForecastStep spaces forecast dates a fixed 30 days apart, a known
	// approximation for monthly data regardless of observed cadence.
	ForecastStep = 30 * 24 * time.Hour

	// ModelType labels the fixed three-method ensemble in model metadata.
	ModelType = "Ensemble (MA + ES + Linear Trend)"
)

// MethodNames lists the ensemble members in weight order.
func MethodNames() []string {
	return []string{"Moving Average", "Exponential Smoothing", "Linear Trend with Seasonality"}
}

// MethodWeights lists the fixed ensemble weights in method order. They sum
// to exactly 1.0.
func MethodWeights() []float64 {
	return []float64{forecast.MovingAverageWeight, forecast.SmoothingWeight, forecast.LinearTrendWeight}
}

// Forecast normalizes the input records and generates an ensemble forecast
// periods steps past the last observed date. The series must contain at
// least MinForecastPoints observations after normalization.
func Forecast(records []timedataset.Record, periods int) (*Results, error) {
	td, err := timedataset.NewSalesDataset(records)
	if err != nil {
		return nil, fmt.Errorf("unable to normalize sales data, %w", err)
	}
	return forecastDataset(td, periods)
}

func forecastDataset(td *timedataset.TimeDataset, periods int) (*Results, error) {
	if td.Len() < MinForecastPoints {
		return nil, ErrInsufficientData
	}
	if periods < 1 {
		return nil, ErrInvalidHorizon
	}

	ma := forecast.MovingAverage(td.Y, periods)
	es := forecast.ExponentialSmoothing(td.Y, periods)
	lt := forecast.LinearTrend(td, periods)
	combined := forecast.Ensemble(ma, es, lt)

	interval := forecast.ConfidenceInterval(td.Y)
	lastDate := td.Last()

	r := &Results{
		T:        make([]time.Time, 0, periods),
		Forecast: combined,
		Upper:    make([]float64, periods),
		Lower:    make([]float64, periods),
		Model: ModelInfo{
			Type:             ModelType,
			Methods:          MethodNames(),
			Weights:          MethodWeights(),
			LastTrainingDate: lastDate,
		},
	}
	for i := 0; i < periods; i++ {
		r.T = append(r.T, lastDate.Add(time.Duration(i+1)*ForecastStep))
		r.Upper[i] = combined[i] + interval
		r.Lower[i] = math.Max(0, combined[i]-interval)

		if math.IsNaN(combined[i]) || math.IsInf(combined[i], 0) {
			return nil, fmt.Errorf("step %d, %w", i, ErrNumericFault)
		}
	}
	return r, nil
}
