package forecaster

import (
	"fmt"
	"testing"
	"time"

	"github.com/salescast/sales-forecaster/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-6

// monthlyRecords builds one record per calendar month starting January 2023.
func monthlyRecords(sku string, y ...float64) []timedataset.Record {
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	records := make([]timedataset.Record, 0, len(y))
	for i, v := range y {
		records = append(records, timedataset.Record{
			Date:  start.AddDate(0, i, 0).Format(timedataset.DateLayout),
			Sales: timedataset.Value(v),
			SKU:   sku,
		})
	}
	return records
}

func TestForecastInsufficientData(t *testing.T) {
	testData := map[string]struct {
		y []float64
	}{
		"one point":   {[]float64{10}},
		"five points": {[]float64{10, 20, 30, 40, 50}},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := Forecast(monthlyRecords("", td.y...), 3)
			require.ErrorIs(t, err, ErrInsufficientData)
			assert.Contains(t, err.Error(), "Insufficient data for forecasting")
		})
	}
}

func TestForecastInvalidHorizon(t *testing.T) {
	_, err := Forecast(monthlyRecords("", 10, 20, 30, 40, 50, 60), 0)
	require.ErrorIs(t, err, ErrInvalidHorizon)
}

func TestForecastEmptySeries(t *testing.T) {
	_, err := Forecast(nil, 3)
	require.ErrorIs(t, err, timedataset.ErrEmptySeries)
}

func TestForecastRisingSeries(t *testing.T) {
	// 10..60 over Jan-Jun 2023: MA forecasts 56.67/63.33/70.0, ES
	// 45.69/50.78/55.88, linear trend 70/80/90 with no seasonal scaling
	// since July-September are unseen months
	res, err := Forecast(monthlyRecords("", 10, 20, 30, 40, 50, 60), 3)
	require.Nil(t, err)
	require.Equal(t, 3, len(res.Forecast))

	expected := []float64{56.27454, 63.31376, 70.35298}
	assert.InDeltaSlice(t, expected, res.Forecast, tol)

	for i := 1; i < len(res.Forecast); i++ {
		assert.GreaterOrEqual(t, res.Forecast[i], res.Forecast[i-1])
	}
}

func TestForecastBounds(t *testing.T) {
	res, err := Forecast(monthlyRecords("", 10, 20, 30, 40, 50, 60), 4)
	require.Nil(t, err)

	// interval is 1.96 * sample stddev of the full history, uniform
	// across the horizon
	interval := 1.96 * 18.708286933869708
	for i := range res.Forecast {
		assert.InDelta(t, res.Forecast[i]+interval, res.Upper[i], tol)
		assert.InDelta(t, max(0, res.Forecast[i]-interval), res.Lower[i], tol)
		assert.GreaterOrEqual(t, res.Upper[i], res.Forecast[i])
		assert.GreaterOrEqual(t, res.Forecast[i], res.Lower[i])
		assert.GreaterOrEqual(t, res.Lower[i], 0.0)
	}
}

func TestForecastDates(t *testing.T) {
	res, err := Forecast(monthlyRecords("", 10, 20, 30, 40, 50, 60), 3)
	require.Nil(t, err)

	lastTraining := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, lastTraining, res.Model.LastTrainingDate)
	for i, ft := range res.T {
		assert.Equal(t, lastTraining.Add(time.Duration(i+1)*ForecastStep), ft)
	}
}

func TestForecastModelMeta(t *testing.T) {
	res, err := Forecast(monthlyRecords("", 10, 20, 30, 40, 50, 60), 1)
	require.Nil(t, err)

	assert.Equal(t, ModelType, res.Model.Type)
	assert.Equal(t, MethodNames(), res.Model.Methods)
	require.Equal(t, []float64{0.3, 0.4, 0.3}, res.Model.Weights)

	var sum float64
	for _, w := range res.Model.Weights {
		sum += w
	}
	assert.Equal(t, 1.0, sum)
}

func TestForecastNonNegative(t *testing.T) {
	testData := map[string]struct {
		y []float64
	}{
		"collapsing sales": {[]float64{100, 80, 60, 40, 20, 0, 0, 0}},
		"steep decline":    {[]float64{600, 500, 400, 300, 200, 100}},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := Forecast(monthlyRecords("", td.y...), 12)
			require.Nil(t, err)
			for i, v := range res.Forecast {
				assert.GreaterOrEqual(t, v, 0.0, "step %d", i)
				assert.GreaterOrEqual(t, res.Lower[i], 0.0, "step %d", i)
			}
		})
	}
}

func TestForecastDeterminism(t *testing.T) {
	records := monthlyRecords("", 13, 55, 21, 89, 34, 144, 8, 233)

	first, err := Forecast(records, 6)
	require.Nil(t, err)
	second, err := Forecast(records, 6)
	require.Nil(t, err)
	assert.Equal(t, first, second)
}

func TestForecastCoercedValues(t *testing.T) {
	// records arriving with string or missing sales coerce instead of
	// failing the whole series
	records := monthlyRecords("", 10, 20, 30, 40, 50)
	records = append(records, timedataset.Record{Date: "2023-06-01"})

	res, err := Forecast(records, 2)
	require.Nil(t, err)
	require.Equal(t, 2, len(res.Forecast))
	for _, v := range res.Forecast {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func ExampleForecast() {
	records := monthlyRecords("", 120, 130, 125, 140, 150, 145, 160, 170)
	res, err := Forecast(records, 2)
	if err != nil {
		panic(err)
	}
	for i, ft := range res.T {
		fmt.Printf("%s %.0f\n", ft.Format(timedataset.DateLayout), res.Forecast[i])
	}
	// Output:
	// 2023-08-31 163
	// 2023-09-30 168
}
