package forecaster

import (
	"io"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/salescast/sales-forecaster/timedataset"
)

// LineForecast generates an echart line chart plotting the historical
// sales followed by the forecast with its upper and lower bounds.
func LineForecast(history *timedataset.TimeDataset, res *Results) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Sales Forecast",
			},
		),
	)

	n := history.Len() + len(res.T)
	t := make([]time.Time, 0, n)
	t = append(t, history.T...)
	t = append(t, res.T...)

	lineDataActual := make([]opts.LineData, 0, n)
	lineDataForecast := make([]opts.LineData, 0, n)
	lineDataUpper := make([]opts.LineData, 0, n)
	lineDataLower := make([]opts.LineData, 0, n)

	// echarts treats "-" as an empty sample keeping the axes aligned
	for i := 0; i < n; i++ {
		if i < history.Len() {
			lineDataActual = append(lineDataActual, opts.LineData{Value: history.Y[i]})
			lineDataForecast = append(lineDataForecast, opts.LineData{Value: "-"})
			lineDataUpper = append(lineDataUpper, opts.LineData{Value: "-"})
			lineDataLower = append(lineDataLower, opts.LineData{Value: "-"})
			continue
		}
		j := i - history.Len()
		lineDataActual = append(lineDataActual, opts.LineData{Value: "-"})
		lineDataForecast = append(lineDataForecast, opts.LineData{Value: res.Forecast[j]})
		lineDataUpper = append(lineDataUpper, opts.LineData{Value: res.Upper[j]})
		lineDataLower = append(lineDataLower, opts.LineData{Value: res.Lower[j]})
	}

	line.SetXAxis(t).
		AddSeries("Actual", lineDataActual).
		AddSeries("Forecast", lineDataForecast).
		AddSeries("Upper", lineDataUpper).
		AddSeries("Lower", lineDataLower)
	return line
}

// PlotForecast renders the forecast chart to an html file at path.
func PlotForecast(history *timedataset.TimeDataset, res *Results, path string) error {
	page := components.NewPage()
	page.AddCharts(LineForecast(history, res))

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return page.Render(io.MultiWriter(file))
}
