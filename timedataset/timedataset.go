package timedataset

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptySeries     = errors.New("empty series")
	ErrUnparseableDate = errors.New("unparseable date")
)

// DateLayout is the wire format for all dates, both input and output.
const DateLayout = "2006-01-02"

// Value is a sales quantity decoded from loosely typed JSON. Numbers and
// numeric strings decode normally; missing, null, or non-numeric inputs
// decode to zero.
type Value float64

func (v *Value) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	if s[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			*v = 0
			return nil
		}
		s = strings.TrimSpace(unquoted)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*v = 0
		return nil
	}
	*v = Value(f)
	return nil
}

// Record is a single observed sales period as provided by callers. SKU is
// optional and only meaningful when evaluating multiple products at once.
type Record struct {
	Date  string `json:"date"`
	Sales Value  `json:"sales"`
	SKU   string `json:"sku,omitempty"`
}

// TimeDataset represents a sales time series storing a slice of time points
// and values. Both are always of the same length and ordered ascending by
// time.
type TimeDataset struct {
	T []time.Time
	Y []float64
}

// NewSalesDataset normalizes raw sales records into an ordered dataset.
// Dates are parsed from YYYY-MM-DD (RFC3339 accepted as a fallback) and the
// records are sorted ascending by date. The input slice is not mutated.
func NewSalesDataset(records []Record) (*TimeDataset, error) {
	if len(records) == 0 {
		return nil, ErrEmptySeries
	}

	type observation struct {
		t time.Time
		y float64
	}
	obs := make([]observation, 0, len(records))
	for i, r := range records {
		t, err := parseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("record %d, %w", i, err)
		}
		obs = append(obs, observation{t: t, y: float64(r.Sales)})
	}
	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].t.Before(obs[j].t)
	})

	td := &TimeDataset{
		T: make([]time.Time, 0, len(obs)),
		Y: make([]float64, 0, len(obs)),
	}
	for _, o := range obs {
		td.T = append(td.T, o.t)
		td.Y = append(td.Y, o.y)
	}
	return td, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q, %w", s, ErrUnparseableDate)
	}
	return t, nil
}

// Len returns the number of observations in the dataset.
func (td *TimeDataset) Len() int {
	return len(td.Y)
}

// Last returns the most recent time point.
func (td *TimeDataset) Last() time.Time {
	return td.T[len(td.T)-1]
}

// Slice returns a view over [start, end). The underlying arrays are shared
// with the parent dataset.
func (td *TimeDataset) Slice(start, end int) *TimeDataset {
	return &TimeDataset{
		T: td.T[start:end],
		Y: td.Y[start:end],
	}
}

func (td *TimeDataset) Copy() *TimeDataset {
	tSeries := make([]time.Time, len(td.T))
	ySeries := make([]float64, len(td.T))
	copy(tSeries, td.T)
	copy(ySeries, td.Y)
	return &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}
}

// GroupBySKU partitions records by SKU preserving each group's record
// order. Records without a SKU are skipped.
func GroupBySKU(records []Record) map[string][]Record {
	groups := make(map[string][]Record)
	for _, r := range records {
		if r.SKU == "" {
			continue
		}
		groups[r.SKU] = append(groups[r.SKU], r)
	}
	return groups
}
