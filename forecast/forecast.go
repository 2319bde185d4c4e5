// Package forecast implements the three point-forecast generators along
// with their fixed-weight ensemble and the historical-volatility
// confidence interval. All generators operate on a normalized sales
// series and produce one value per horizon step, clamped to be
// non-negative.
package forecast

import (
	"math"
	"time"

	"github.com/salescast/sales-forecaster/timedataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// MaxWindow caps the moving average window.
	MaxWindow = 6

	// SmoothingAlpha is the fixed exponential smoothing constant.
	SmoothingAlpha = 0.3

	// Ensemble weights. These sum to exactly 1.0 and are not configurable.
	MovingAverageWeight = 0.3
	SmoothingWeight     = 0.4
	LinearTrendWeight   = 0.3

	// IntervalZScore is the two-sided z-score for an approximate 95%
	// confidence interval.
	IntervalZScore = 1.96
)

// MovingAverage forecasts by projecting the trailing-window mean with the
// window's endpoint trend. The window is min(6, n/2) with a floor of 1; a
// single-point series repeats its value across the horizon.
func MovingAverage(y []float64, periods int) []float64 {
	n := len(y)
	window := MaxWindow
	if n/2 < window {
		window = n / 2
	}
	if window < 1 {
		window = 1
	}

	ma := stat.Mean(y[n-window:], nil)
	var trend float64
	if window > 1 {
		trend = (y[n-1] - y[n-window]) / float64(window)
	}

	out := make([]float64, periods)
	for i := range out {
		out[i] = math.Max(0, ma+trend*float64(i+1))
	}
	return out
}

// ExponentialSmoothing forecasts from a single exponentially smoothed
// level plus the average drift between the first and last smoothed values.
func ExponentialSmoothing(y []float64, periods int) []float64 {
	n := len(y)
	smoothed := y[0]
	for k := 1; k < n; k++ {
		smoothed = SmoothingAlpha*y[k] + (1-SmoothingAlpha)*smoothed
	}

	var trend float64
	if n > 1 {
		trend = (smoothed - y[0]) / float64(n)
	}

	out := make([]float64, periods)
	for i := range out {
		out[i] = math.Max(0, smoothed+trend*float64(i+1))
	}
	return out
}

// LinearTrend fits an ordinary least squares line of value against the
// observation index and extrapolates it across the horizon, scaling each
// step by a best-effort calendar-month seasonal factor.
func LinearTrend(td *timedataset.TimeDataset, periods int) []float64 {
	n := td.Len()

	var slope, intercept float64
	if n > 1 {
		xs := make([]float64, n)
		floats.Span(xs, 0, float64(n-1))
		intercept, slope = stat.LinearRegression(xs, td.Y, nil, false)
	} else {
		intercept = td.Y[0]
	}

	factors := seasonalFactors(td)
	lastMonth := int(td.Last().Month())

	out := make([]float64, periods)
	for i := range out {
		base := intercept + slope*float64(n+i)

		month := (lastMonth + i + 1) % 12
		if month == 0 {
			month = 12
		}
		factor := 1.0
		if f, seen := factors[time.Month(month)]; seen {
			factor = f
		}
		out[i] = math.Max(0, base*factor)
	}
	return out
}

// seasonalFactors computes each calendar month's mean divided by the mean
// of the per-month means. Assumes roughly monthly cadence; multi-year
// series pool repeated calendar months. Returns nil when the overall mean
// is zero, in which case no seasonal scaling applies.
func seasonalFactors(td *timedataset.TimeDataset) map[time.Month]float64 {
	sums := make(map[time.Month]float64)
	counts := make(map[time.Month]int)
	for i, t := range td.T {
		sums[t.Month()] += td.Y[i]
		counts[t.Month()]++
	}

	means := make(map[time.Month]float64, len(sums))
	var overall float64
	for m, sum := range sums {
		mean := sum / float64(counts[m])
		means[m] = mean
		overall += mean
	}
	overall /= float64(len(means))
	if overall == 0 {
		return nil
	}

	factors := make(map[time.Month]float64, len(means))
	for m, mean := range means {
		factors[m] = mean / overall
	}
	return factors
}

// Ensemble blends the three method forecasts with the fixed weights,
// clamping each step to be non-negative. All inputs must have the same
// length.
func Ensemble(ma, es, lt []float64) []float64 {
	out := make([]float64, len(ma))
	floats.AddScaled(out, MovingAverageWeight, ma)
	floats.AddScaled(out, SmoothingWeight, es)
	floats.AddScaled(out, LinearTrendWeight, lt)
	for i := range out {
		if out[i] < 0 {
			out[i] = 0
		}
	}
	return out
}

// ConfidenceInterval returns the symmetric band half-width derived from
// the sample standard deviation of the full history. The band is applied
// uniformly to every horizon step rather than widening with distance, a
// deliberate simplification.
func ConfidenceInterval(y []float64) float64 {
	if len(y) < 2 {
		return 0
	}
	return IntervalZScore * stat.StdDev(y, nil)
}
