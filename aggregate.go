package forecaster

import (
	"errors"
	"sync"

	"github.com/salescast/sales-forecaster/timedataset"
)

var ErrNoSKU = errors.New("No SKU column found in data")

// GroupOutcome is one product's accuracy result. Err is set when the
// group's evaluation failed; the report is nil in that case.
type GroupOutcome struct {
	Report *AccuracyReport
	Err    error
}

// OverallAccuracy rolls category counts and MAPE up across all groups.
type OverallAccuracy struct {
	GoodPercentage   float64 `json:"goodPercentage"`
	MediumPercentage float64 `json:"mediumPercentage"`
	PoorPercentage   float64 `json:"poorPercentage"`
	AverageMAPE      float64 `json:"averageMape"`
	TotalGroups      int     `json:"totalGroups"`
}

// AggregateReport holds per-SKU accuracy outcomes with category counts and
// overall statistics across all groups.
type AggregateReport struct {
	PerGroup       map[string]GroupOutcome
	CategoryCounts map[Category]int
	Overall        OverallAccuracy
}

// EvaluateAll groups records by SKU and evaluates each product's forecast
// accuracy independently. Groups are evaluated concurrently since no
// group's computation touches another's data. A failing group is recorded
// as a failure outcome counted under the Poor category rather than
// aborting the aggregation. Errors if no record carries a SKU.
func EvaluateAll(records []timedataset.Record) (*AggregateReport, error) {
	groups := timedataset.GroupBySKU(records)
	if len(groups) == 0 {
		return nil, ErrNoSKU
	}

	perGroup := make(map[string]GroupOutcome, len(groups))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for sku, recs := range groups {
		wg.Add(1)
		go func(sku string, recs []timedataset.Record) {
			defer wg.Done()
			report, err := EvaluateAccuracy(recs)
			mu.Lock()
			perGroup[sku] = GroupOutcome{Report: report, Err: err}
			mu.Unlock()
		}(sku, recs)
	}
	wg.Wait()

	counts := map[Category]int{
		CategoryGood:   0,
		CategoryMedium: 0,
		CategoryPoor:   0,
	}
	var mapeSum float64
	var succeeded int
	for _, outcome := range perGroup {
		if outcome.Err != nil {
			counts[CategoryPoor]++
			continue
		}
		counts[outcome.Report.Category]++
		mapeSum += outcome.Report.MAPE
		succeeded++
	}

	total := len(perGroup)
	overall := OverallAccuracy{
		GoodPercentage:   float64(counts[CategoryGood]) / float64(total) * 100,
		MediumPercentage: float64(counts[CategoryMedium]) / float64(total) * 100,
		PoorPercentage:   float64(counts[CategoryPoor]) / float64(total) * 100,
		TotalGroups:      total,
	}
	if succeeded > 0 {
		overall.AverageMAPE = mapeSum / float64(succeeded)
	}

	return &AggregateReport{
		PerGroup:       perGroup,
		CategoryCounts: counts,
		Overall:        overall,
	}, nil
}
