package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/programme-lv/algobench/api"
)

// Bar builds a grouped bar chart: one group per parameter, one bar per
// algorithm.
func Bar(fam api.FamilyReport) *charts.Bar {
	bar := charts.NewBar()

	yAxis := opts.YAxis{Name: fam.YLabel}
	if fam.LogScale {
		yAxis.Type = "log"
	}
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: fam.Title, Width: "1100px", Height: "560px"}),
		charts.WithTitleOpts(opts.Title{Title: fam.Title, Subtitle: fmt.Sprintf("%d runs per case", fam.Trials)}),
		charts.WithXAxisOpts(opts.XAxis{Name: fam.XLabel}),
		charts.WithYAxisOpts(yAxis),
	)

	xs := make([]string, len(fam.Params))
	for i, n := range fam.Params {
		xs[i] = fmt.Sprint(n)
	}
	bar.SetXAxis(xs)

	for _, s := range fam.Series {
		items := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			items[i] = opts.BarData{Name: xs[i], Value: barValue(v, fam.LogScale)}
		}
		bar.AddSeries(s.Algorithm, items)
	}
	return bar
}

// barValue leaves zero sentinels out of logarithmic charts, which cannot
// place them.
func barValue(v float64, logScale bool) any {
	if logScale && v <= 0 {
		return "-"
	}
	return v
}

// HTML writes every family of the report as one chart on a single page.
func HTML(w io.Writer, rep *api.Report) error {
	page := components.NewPage()
	for _, fam := range rep.Families {
		page.AddCharts(Bar(fam))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	return nil
}
