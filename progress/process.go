// Package progress turns an athlete's activity log into the geometry of
// an interactive training chart: scored points sliding from a starting
// race time toward a goal, daily workout bars, and calendar gridlines.
package progress

import (
	"math"
	"slices"
	"time"

	log "github.com/sirupsen/logrus"
)

// Category labels what a scored point represents.
type Category uint8

const (
	CategoryStart Category = iota
	CategoryGoal
	CategoryTrial
)

func (c Category) String() string {
	switch c {
	case CategoryStart:
		return "Start"
	case CategoryGoal:
		return "Goal"
	case CategoryTrial:
		return "Trial"
	}
	return "Unknown"
}

// Point is a scored result pinned to the timeline: the starting race
// time, the goal race time, or a trial run's outcome.
type Point struct {
	Date     time.Time
	Seconds  int
	Label    string
	Category Category
	Activity Activity // zero unless Category is CategoryTrial
	X, Y     float64  // content-space position
}

// Bar is one activity's training volume, drawn against the bottom axis.
type Bar struct {
	Day      time.Time // local midnight
	Seconds  int
	X        float64 // left edge, content space
	Width    float64 // one calendar day
	Height   float64
	Lift     float64 // stacking offset above the baseline
	Activity Activity
}

// WeekMark is a weekly gridline anchored to the plan's week start.
type WeekMark struct {
	Date    time.Time
	X       float64
	Ordinal int
}

// DayMark is a daily gridline, generated only for the zoomed view.
type DayMark struct {
	Date time.Time
	X    float64
	Name string
}

// YScale maps race durations onto vertical pixels. Longer (slower)
// results map further down the plot, so improvement reads as an
// upward-rightward line.
type YScale struct {
	Min, Max float64 // seconds
	Top      float64 // upper edge of the point band, px
	Band     float64 // band height available to points, px
}

// Y returns the pixel row for a duration, clamping out-of-scale values
// to the band's edges.
func (s YScale) Y(seconds float64) float64 {
	if s.Max <= s.Min {
		return s.Top
	}
	v := min(max(seconds, s.Min), s.Max)
	return s.Top + (v-s.Min)/(s.Max-s.Min)*s.Band
}

const (
	// scaleBufferFrac pads the duration axis beyond the observed results.
	scaleBufferFrac = 0.1
	// scaleBufferMin is the smallest axis padding, in seconds.
	scaleBufferMin = 30.0
	// defaultCeiling bounds the axis when no result has a usable duration.
	defaultCeiling = 2 * 60 * 60.0
	// pointBandFrac is the share of the plot height points may occupy.
	pointBandFrac = 0.9
	// markerLead is how close to the start date the leading gridline may
	// sit before it is dropped to keep the Start point legible.
	markerLead = 3 * 24 * time.Hour
)

// Geometry is the full set of derived screen entities for one processing
// pass. It is rebuilt wholesale on data, size, or view changes and never
// mutated in place.
type Geometry struct {
	Points  []Point
	Bars    []Bar
	Weeks   []WeekMark
	Days    []DayMark
	Scale   YScale
	Bounds  ContentBounds
	Content float64
	Mapper  Mapper
	Surface Surface
	Mode    ViewMode
}

// Process converts raw activities into drawable geometry for the given
// view. The result is deterministic for identical inputs; callers run it
// again after any data load, resize, or view-mode change and then swap
// the old geometry out whole.
func Process(acts []Activity, plan Plan, mode ViewMode, sf Surface) Geometry {
	r := plan.Range()
	content := ContentWidth(mode, r, plan.window(), sf.Viewport())
	m := Mapper{Range: r, Content: content, LeftPad: sf.PadLeft}
	g := Geometry{
		Scale:   YScale{Top: sf.PadTop, Band: sf.PlotHeight() * pointBandFrac},
		Content: content,
		Mapper:  m,
		Surface: sf,
		Mode:    mode,
	}

	g.Points = append(g.Points,
		Point{Date: r.Start, Seconds: parseResult(plan.StartTime), Category: CategoryStart},
		Point{Date: r.Goal, Seconds: parseResult(plan.GoalTime), Category: CategoryGoal},
	)
	for _, act := range acts {
		day := act.Day()
		if day.Before(r.Start) || day.After(r.Goal) {
			continue
		}
		if act.MovingTime <= 0 {
			log.Debugf("skipping activity %d (%q): no usable duration", act.ID, act.Name)
			continue
		}
		if act.Trial() {
			g.Points = append(g.Points, Point{
				Date:     act.Date,
				Seconds:  act.MovingTime,
				Category: CategoryTrial,
				Activity: act,
			})
		}
		g.Bars = append(g.Bars, Bar{Day: day, Seconds: act.MovingTime, Activity: act})
	}

	slices.SortStableFunc(g.Points, func(a, b Point) int {
		return a.Date.Compare(b.Date)
	})
	slices.SortStableFunc(g.Bars, func(a, b Bar) int {
		return a.Day.Compare(b.Day)
	})

	g.Scale.Min, g.Scale.Max = scaleFor(g.Points)
	for i := range g.Points {
		p := &g.Points[i]
		p.Label = FormatClock(p.Seconds)
		p.X = m.DayX(Day(p.Date))
		p.Y = g.Scale.Y(float64(p.Seconds))
	}

	maxBar := 0
	for _, b := range g.Bars {
		maxBar = max(maxBar, b.Seconds)
	}
	band := sf.PadBottom / 2
	var (
		prevDay time.Time
		lift    float64
	)
	for i := range g.Bars {
		b := &g.Bars[i]
		if !b.Day.Equal(prevDay) {
			prevDay = b.Day
			lift = 0
		}
		b.X = m.X(b.Day)
		b.Width = m.DayWidth()
		b.Height = float64(b.Seconds) / float64(maxBar) * band
		b.Lift = lift
		lift += b.Height
	}

	for t := plan.WeekAnchor(); !t.After(r.Goal); t = t.AddDate(0, 0, 7) {
		if t.Before(r.Start) {
			continue
		}
		g.Weeks = append(g.Weeks, WeekMark{Date: t, X: m.X(t), Ordinal: plan.WeekIndex(t)})
	}
	if len(g.Weeks) > 0 && g.Weeks[0].Date.Sub(r.Start) < markerLead {
		g.Weeks = g.Weeks[1:]
	}
	if mode == RecentWindow {
		for t := r.Start; !t.After(r.Goal); t = t.AddDate(0, 0, 1) {
			g.Days = append(g.Days, DayMark{Date: t, X: m.X(t), Name: t.Format("Mon 2")})
		}
		if len(g.Days) > 0 && g.Days[0].Date.Sub(r.Start) < markerLead {
			g.Days = g.Days[1:]
		}
	}

	g.Bounds = ContentBounds{OK: len(g.Points) > 0}
	for i, p := range g.Points {
		if i == 0 {
			g.Bounds.MinX, g.Bounds.MaxX = p.X, p.X
			continue
		}
		g.Bounds.MinX = min(g.Bounds.MinX, p.X)
		g.Bounds.MaxX = max(g.Bounds.MaxX, p.X)
	}
	return g
}

func parseResult(clock string) int {
	secs, err := ParseClock(clock)
	if err != nil {
		log.Warnf("unparseable race time %q: %v", clock, err)
		return 0
	}
	return secs
}

// scaleFor derives the duration axis from every point with a usable
// duration, padded by a tenth of the observed spread on both ends.
func scaleFor(points []Point) (yMin, yMax float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		if p.Seconds <= 0 {
			continue
		}
		lo = min(lo, float64(p.Seconds))
		hi = max(hi, float64(p.Seconds))
	}
	if hi < lo {
		return 0, defaultCeiling
	}
	buffer := max((hi-lo)*scaleBufferFrac, scaleBufferMin)
	return max(0, lo-buffer), hi + buffer
}
