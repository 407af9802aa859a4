// Package export renders the processed chart geometry to static
// artifacts: PNG/SVG via gonum/plot and shareable HTML via go-echarts.
package export

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"git.sr.ht/~pld/paceline/progress"
)

var (
	plotStartColor = color.RGBA{R: 0x2b, G: 0x7f, B: 0xa8, A: 0xff}
	plotGoalColor  = color.RGBA{R: 0x51, G: 0x85, B: 0x4d, A: 0xff}
	plotTrialColor = color.RGBA{R: 0xa4, G: 0x63, B: 0x3a, A: 0xff}
	plotBarColor   = color.RGBA{R: 0x72, G: 0x6c, B: 0xae, A: 0xb0}
)

// ResultPoint is a scored point in plot-domain units: days since the
// plan start against the result duration in seconds.
type ResultPoint struct {
	Days     float64
	Seconds  float64
	Category progress.Category
	Label    string
}

// VolumeBar is one day's training volume in plot-domain units.
type VolumeBar struct {
	Days    float64
	Seconds float64
}

// ResultSeries converts processed geometry back into domain units for
// plotting: pixel positions mean nothing to a standalone renderer.
func ResultSeries(g progress.Geometry) []ResultPoint {
	start := g.Mapper.Range.Start
	out := make([]ResultPoint, 0, len(g.Points))
	for _, p := range g.Points {
		out = append(out, ResultPoint{
			Days:     p.Date.Sub(start).Hours() / 24,
			Seconds:  float64(p.Seconds),
			Category: p.Category,
			Label:    p.Label,
		})
	}
	return out
}

// VolumeSeries converts the workout bars, merging same-day stacks into
// one total per day.
func VolumeSeries(g progress.Geometry) []VolumeBar {
	start := g.Mapper.Range.Start
	var out []VolumeBar
	for _, b := range g.Bars {
		days := b.Day.Sub(start).Hours() / 24
		if n := len(out); n > 0 && out[n-1].Days == days {
			out[n-1].Seconds += float64(b.Seconds)
			continue
		}
		out = append(out, VolumeBar{Days: days, Seconds: float64(b.Seconds)})
	}
	return out
}

// TimelinePlot draws the training chart as a gonum plotter: a volume
// band along the bottom, connecting lines, and per-category glyphs.
type TimelinePlot struct {
	Points []ResultPoint
	Bars   []VolumeBar

	// BandFrac is the share of the canvas height the volume band may
	// occupy.
	BandFrac  float64
	LineStyle draw.LineStyle
	DashStyle draw.LineStyle
	TextStyle draw.TextStyle

	weekIndex func(days float64) int
}

var _ plot.Plotter = (*TimelinePlot)(nil)

func NewTimelinePlot(g progress.Geometry, plan progress.Plan) *TimelinePlot {
	start := g.Mapper.Range.Start
	dash := plotter.DefaultLineStyle
	dash.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	return &TimelinePlot{
		Points:    ResultSeries(g),
		Bars:      VolumeSeries(g),
		BandFrac:  0.15,
		LineStyle: plotter.DefaultLineStyle,
		DashStyle: dash,
		TextStyle: text.Style{
			Font:    font.From(plotter.DefaultFont, plotter.DefaultFontSize),
			XAlign:  draw.XCenter,
			YAlign:  draw.YBottom,
			Handler: plot.DefaultTextHandler,
		},
		weekIndex: func(days float64) int {
			return plan.WeekIndex(start.AddDate(0, 0, int(days)))
		},
	}
}

func (t *TimelinePlot) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	var barMax float64
	for _, b := range t.Bars {
		barMax = max(barMax, b.Seconds)
	}
	if barMax > 0 {
		band := vg.Length(t.BandFrac) * (c.Max.Y - c.Min.Y)
		for _, b := range t.Bars {
			xL := trX(b.Days)
			xR := trX(b.Days + 1)
			h := vg.Length(b.Seconds/barMax) * band
			pts := []vg.Point{
				{X: xL, Y: c.Min.Y},
				{X: xR, Y: c.Min.Y},
				{X: xR, Y: c.Min.Y + h},
				{X: xL, Y: c.Min.Y + h},
			}
			c.FillPolygon(plotBarColor, c.ClipPolygonX(pts))
		}
	}

	for i := 1; i < len(t.Points); i++ {
		prev, cur := t.Points[i-1], t.Points[i]
		segment := []vg.Point{
			{X: trX(prev.Days), Y: trY(prev.Seconds)},
			{X: trX(cur.Days), Y: trY(cur.Seconds)},
		}
		if cur.Category == progress.CategoryGoal {
			if t.weekIndex(cur.Days)-t.weekIndex(prev.Days) > 1 {
				continue
			}
			c.StrokeLines(t.DashStyle, c.ClipLinesXY(segment)...)
			continue
		}
		c.StrokeLines(t.LineStyle, c.ClipLinesXY(segment)...)
	}

	for _, p := range t.Points {
		pt := vg.Point{X: trX(p.Days), Y: trY(p.Seconds)}
		if !c.Contains(pt) {
			continue
		}
		c.DrawGlyph(draw.GlyphStyle{
			Color:  categoryPlotColor(p.Category),
			Radius: vg.Points(4),
			Shape:  draw.CircleGlyph{},
		}, pt)
		if p.Category != progress.CategoryTrial {
			c.FillText(t.TextStyle, vg.Point{X: pt.X, Y: pt.Y + vg.Points(6)}, p.Label)
		}
	}
}

func categoryPlotColor(c progress.Category) color.Color {
	switch c {
	case progress.CategoryStart:
		return plotStartColor
	case progress.CategoryGoal:
		return plotGoalColor
	default:
		return plotTrialColor
	}
}

type xyconv TimelinePlot

func (t *xyconv) Len() int {
	return len(t.Points)
}

func (t *xyconv) XY(i int) (x, y float64) {
	return t.Points[i].Days, t.Points[i].Seconds
}

func (t *TimelinePlot) DataRange() (xmin, xmax, ymin, ymax float64) {
	return plotter.XYRange((*xyconv)(t))
}

// invertedScale flips the Y axis so that slower times sit lower, the
// same orientation as the interactive chart.
type invertedScale struct{}

var _ plot.Normalizer = invertedScale{}

func (invertedScale) Normalize(min, max, x float64) float64 {
	if max == min {
		return 0.5
	}
	return (max - x) / (max - min)
}

// clockTicks labels the duration axis as race times.
type clockTicks struct{}

var _ plot.Ticker = clockTicks{}

func (clockTicks) Ticks(min, max float64) []plot.Tick {
	const count = 5
	if max <= min {
		return nil
	}
	step := (max - min) / count
	ticks := make([]plot.Tick, 0, count+1)
	for i := 0; i <= count; i++ {
		v := min + float64(i)*step
		ticks = append(ticks, plot.Tick{
			Value: v,
			Label: progress.FormatClock(int(v)),
		})
	}
	return ticks
}

// BuildPlot assembles the complete static rendering of the processed
// geometry.
func BuildPlot(g progress.Geometry, plan progress.Plan) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Training Progress"
	p.X.Label.Text = "Days into plan"
	p.Y.Label.Text = "Race time"
	p.Y.Scale = invertedScale{}
	p.Y.Tick.Marker = clockTicks{}
	p.Y.Min = g.Scale.Min
	p.Y.Max = g.Scale.Max
	p.Add(NewTimelinePlot(g, plan))
	return p, nil
}
