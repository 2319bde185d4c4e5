package timedataset

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueUnmarshalJSON(t *testing.T) {
	testData := map[string]struct {
		input    string
		expected Value
	}{
		"number":           {`42.5`, 42.5},
		"integer":          {`7`, 7},
		"numeric string":   {`"19.25"`, 19.25},
		"padded string":    {`" 3 "`, 3},
		"null":             {`null`, 0},
		"non-numeric":      {`"n/a"`, 0},
		"empty string":     {`""`, 0},
		"object coerces 0": {`{"a":1}`, 0},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			var v Value
			require.Nil(t, json.Unmarshal([]byte(td.input), &v))
			assert.Equal(t, td.expected, v)
		})
	}
}

func TestNewSalesDataset(t *testing.T) {
	testData := map[string]struct {
		records []Record
		err     error
		t       []string
		y       []float64
	}{
		"empty": {
			records: nil,
			err:     ErrEmptySeries,
		},
		"unparseable date": {
			records: []Record{{Date: "not-a-date", Sales: 1}},
			err:     ErrUnparseableDate,
		},
		"sorted ascending": {
			records: []Record{
				{Date: "2023-03-01", Sales: 30},
				{Date: "2023-01-01", Sales: 10},
				{Date: "2023-02-01", Sales: 20},
			},
			t: []string{"2023-01-01", "2023-02-01", "2023-03-01"},
			y: []float64{10, 20, 30},
		},
		"rfc3339 fallback": {
			records: []Record{
				{Date: "2023-01-01T00:00:00Z", Sales: 5},
			},
			t: []string{"2023-01-01"},
			y: []float64{5},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ds, err := NewSalesDataset(td.records)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			require.Equal(t, len(td.t), ds.Len())
			for i, dateStr := range td.t {
				expected, err := time.Parse(DateLayout, dateStr)
				require.Nil(t, err)
				assert.Equal(t, expected, ds.T[i])
			}
			assert.Equal(t, td.y, ds.Y)
		})
	}
}

func TestNewSalesDatasetDoesNotMutateInput(t *testing.T) {
	records := []Record{
		{Date: "2023-02-01", Sales: 2},
		{Date: "2023-01-01", Sales: 1},
	}
	_, err := NewSalesDataset(records)
	require.Nil(t, err)
	assert.Equal(t, "2023-02-01", records[0].Date)
	assert.Equal(t, "2023-01-01", records[1].Date)
}

func TestSliceSharesBacking(t *testing.T) {
	ds, err := NewSalesDataset([]Record{
		{Date: "2023-01-01", Sales: 1},
		{Date: "2023-02-01", Sales: 2},
		{Date: "2023-03-01", Sales: 3},
	})
	require.Nil(t, err)

	head := ds.Slice(0, 2)
	assert.Equal(t, 2, head.Len())
	assert.Equal(t, []float64{1, 2}, head.Y)

	cp := ds.Copy()
	cp.Y[0] = 99
	assert.Equal(t, 1.0, ds.Y[0])
}

func TestGroupBySKU(t *testing.T) {
	testData := map[string]struct {
		records  []Record
		expected map[string][]float64
	}{
		"no skus": {
			records:  []Record{{Date: "2023-01-01", Sales: 1}},
			expected: map[string][]float64{},
		},
		"two groups skipping blanks": {
			records: []Record{
				{Date: "2023-01-01", Sales: 1, SKU: "a"},
				{Date: "2023-02-01", Sales: 2, SKU: "b"},
				{Date: "2023-03-01", Sales: 3, SKU: "a"},
				{Date: "2023-04-01", Sales: 4},
			},
			expected: map[string][]float64{
				"a": {1, 3},
				"b": {2},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			groups := GroupBySKU(td.records)
			require.Equal(t, len(td.expected), len(groups))
			for sku, sales := range td.expected {
				require.Contains(t, groups, sku)
				got := make([]float64, 0, len(groups[sku]))
				for _, r := range groups[sku] {
					got = append(got, float64(r.Sales))
				}
				assert.Equal(t, sales, got)
			}
		})
	}
}
