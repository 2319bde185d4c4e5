package forecaster

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/salescast/sales-forecaster/stats"
	"github.com/salescast/sales-forecaster/timedataset"
)

var (
	ErrInsufficientAccuracyData = errors.New("Insufficient data for accuracy assessment (minimum 8 data points)")
	ErrInsufficientValidation   = errors.New("Insufficient validation data")
)

const (
	// MinAccuracyPoints is the smallest series accuracy can be assessed on.
	MinAccuracyPoints = 8

	// MinValidationPoints is the smallest usable validation suffix.
	MinValidationPoints = 2

	// TrainFraction is the share of the series used for training; the
	// remainder is held out for validation.
	TrainFraction = 0.7
)

// Category buckets forecast accuracy by MAPE.
type Category string

const (
	CategoryGood   Category = "Good"
	CategoryMedium Category = "Medium"
	CategoryPoor   Category = "Poor"
)

// Categorize maps a MAPE percentage to its accuracy category.
func Categorize(mape float64) Category {
	switch {
	case mape <= 10:
		return CategoryGood
	case mape <= 25:
		return CategoryMedium
	default:
		return CategoryPoor
	}
}

// ComparisonRow pairs one held-out actual with its forecast value.
type ComparisonRow struct {
	Date     time.Time `json:"date"`
	Actual   float64   `json:"actual"`
	Forecast float64   `json:"forecast"`
}

// AccuracyReport scores a forecast against the held-out portion of its own
// history.
type AccuracyReport struct {
	MAE        float64  `json:"mae"`
	MAPE       float64  `json:"mape"`
	RMSE       float64  `json:"rmse"`
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`

	TrainCount      int `json:"trainCount"`
	ValidationCount int `json:"validationCount"`
	TotalCount      int `json:"totalCount"`

	Comparison []ComparisonRow `json:"comparison"`
}

// EvaluateAccuracy splits the normalized series 70/30 into train and
// validation, forecasts the validation window from the train prefix, and
// scores the forecast pairwise against the held-out actuals. A forecast
// failure on the train prefix propagates unchanged.
func EvaluateAccuracy(records []timedataset.Record) (*AccuracyReport, error) {
	td, err := timedataset.NewSalesDataset(records)
	if err != nil {
		return nil, fmt.Errorf("unable to normalize sales data, %w", err)
	}

	n := td.Len()
	if n < MinAccuracyPoints {
		return nil, ErrInsufficientAccuracyData
	}

	split := int(float64(n) * TrainFraction)
	train := td.Slice(0, split)
	validation := td.Slice(split, n)
	if validation.Len() < MinValidationPoints {
		return nil, ErrInsufficientValidation
	}

	res, err := forecastDataset(train, validation.Len())
	if err != nil {
		return nil, err
	}

	mae, err := stats.MAE(validation.Y, res.Forecast)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute error, %w", err)
	}
	mape, err := stats.MAPE(validation.Y, res.Forecast)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute percentage error, %w", err)
	}
	rmse, err := stats.RMSE(validation.Y, res.Forecast)
	if err != nil {
		return nil, fmt.Errorf("unable to compute root mean squared error, %w", err)
	}

	confidence := math.Min(1, float64(validation.Len())/6) * (1 - mape/100)
	confidence = math.Max(0, confidence)

	report := &AccuracyReport{
		MAE:             mae,
		MAPE:            mape,
		RMSE:            rmse,
		Category:        Categorize(mape),
		Confidence:      confidence,
		TrainCount:      train.Len(),
		ValidationCount: validation.Len(),
		TotalCount:      n,
		Comparison:      make([]ComparisonRow, 0, validation.Len()),
	}
	for i := 0; i < validation.Len(); i++ {
		report.Comparison = append(report.Comparison, ComparisonRow{
			Date:     validation.T[i],
			Actual:   validation.Y[i],
			Forecast: res.Forecast[i],
		})
	}
	return report, nil
}
