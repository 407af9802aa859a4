package export

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"git.sr.ht/~pld/paceline/progress"
)

// resultAxis returns the X axis labels for the progress line: one entry
// per scored point, formatted as its calendar day.
func resultAxis(pts []ResultPoint, g progress.Geometry) []string {
	start := g.Mapper.Range.Start
	out := make([]string, 0, len(pts))
	for _, p := range pts {
		out = append(out, start.AddDate(0, 0, int(p.Days)).Format("Jan 2"))
	}
	return out
}

// resultLineData converts scored points into echarts line values in
// minutes, which read better on a generic axis than raw seconds.
func resultLineData(pts []ResultPoint) []opts.LineData {
	out := make([]opts.LineData, 0, len(pts))
	for _, p := range pts {
		out = append(out, opts.LineData{
			Value: p.Seconds / 60,
			Name:  p.Label,
		})
	}
	return out
}

// volumeAxis and volumeBarData describe the daily-volume bar chart.
func volumeAxis(bars []VolumeBar, g progress.Geometry) []string {
	start := g.Mapper.Range.Start
	out := make([]string, 0, len(bars))
	for _, b := range bars {
		out = append(out, start.AddDate(0, 0, int(b.Days)).Format("Jan 2"))
	}
	return out
}

func volumeBarData(bars []VolumeBar) []opts.BarData {
	out := make([]opts.BarData, 0, len(bars))
	for _, b := range bars {
		out = append(out, opts.BarData{Value: b.Seconds / 60})
	}
	return out
}

func progressLine(g progress.Geometry) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "macarons"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Race Time Progress",
			Subtitle: "Scored results from start to goal",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{
				Rotate: 45,
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         "Race time (minutes)",
			NameLocation: "middle",
			NameGap:      50,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
			AxisPointer: &opts.AxisPointer{
				Type: "cross",
			},
		}),
	)
	pts := ResultSeries(g)
	line.SetXAxis(resultAxis(pts, g))
	line.AddSeries("Race time", resultLineData(pts))
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}

func volumeBars(g progress.Geometry) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "macarons"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Daily Training Volume",
			Subtitle: "Minutes of training per day",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{
				Rotate: 45,
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         "Minutes",
			NameLocation: "middle",
			NameGap:      50,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Trigger: "axis",
			AxisPointer: &opts.AxisPointer{
				Type: "shadow",
			},
		}),
	)
	bars := VolumeSeries(g)
	bar.SetXAxis(volumeAxis(bars, g))
	bar.AddSeries("Training", volumeBarData(bars))
	return bar
}

// WriteHTML renders the shareable interactive report.
func WriteHTML(g progress.Geometry, plan progress.Plan, w io.Writer) error {
	page := components.NewPage()
	page.AddCharts(progressLine(g), volumeBars(g))
	return page.Render(w)
}
