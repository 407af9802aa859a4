package progress

import "time"

// ViewMode selects how much of the plan's timeline the viewport spans.
type ViewMode uint8

const (
	// FullSpan fits the entire start-to-goal range into the viewport.
	FullSpan ViewMode = iota
	// RecentWindow stretches the timeline so that a fixed window of days
	// fills the viewport, making the content wider than the viewport and
	// pannable.
	RecentWindow
)

// DefaultWindow is the real-world span that fills the viewport under
// RecentWindow mode when the plan doesn't override it.
const DefaultWindow = 21 * 24 * time.Hour

// TimeRange is the calendar span of a training plan.
type TimeRange struct {
	Start time.Time
	Goal  time.Time
}

// Span returns the range's duration with a one-millisecond floor, so
// ratios over it never divide by zero.
func (r TimeRange) Span() time.Duration {
	if s := r.Goal.Sub(r.Start); s > time.Millisecond {
		return s
	}
	return time.Millisecond
}

// Ratio returns t's position within the range as a fraction of the span.
// Degenerate ranges report zero for every input.
func (r TimeRange) Ratio(t time.Time) float64 {
	if !r.Goal.After(r.Start) {
		return 0
	}
	return float64(t.Sub(r.Start)) / float64(r.Span())
}

// ContentWidth returns the horizontal pixel span needed to lay the whole
// range out at the mode's scale. Under FullSpan it is the viewport
// itself; under RecentWindow the range is stretched so that window's
// worth of time occupies the full viewport.
func ContentWidth(mode ViewMode, r TimeRange, window time.Duration, viewport float64) float64 {
	if mode != RecentWindow {
		return viewport
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return float64(r.Span()) / float64(window) * viewport
}

// ClampPan bounds a pan offset so the viewport never scrolls past either
// end of the content.
func ClampPan(pan, content, viewport float64) float64 {
	limit := max(content-viewport, 0)
	return min(max(pan, 0), limit)
}

// Mapper converts calendar instants into content-space X coordinates.
type Mapper struct {
	Range   TimeRange
	Content float64 // content width in px
	LeftPad float64
}

// X maps an instant onto the horizontal axis.
func (m Mapper) X(t time.Time) float64 {
	return m.LeftPad + m.Range.Ratio(t)*m.Content
}

// DayX maps an instant shifted forward by half a calendar day, centering
// point markers within their day's column.
func (m Mapper) DayX(t time.Time) float64 {
	return m.X(t.Add(12 * time.Hour))
}

// DayWidth returns the pixel width of one calendar day.
func (m Mapper) DayWidth() float64 {
	return float64(24*time.Hour) / float64(m.Range.Span()) * m.Content
}

// Surface describes the drawing area the chart occupies, in pixels, and
// the padding reserved around its plot region.
type Surface struct {
	Width, Height float64

	PadLeft, PadRight, PadTop, PadBottom float64
}

// DefaultSurface applies the standard padding to a canvas of the given
// size.
func DefaultSurface(width, height float64) Surface {
	return Surface{
		Width:     width,
		Height:    height,
		PadLeft:   40,
		PadRight:  40,
		PadTop:    30,
		PadBottom: 60,
	}
}

// Viewport returns the visible plot width between the horizontal pads.
func (s Surface) Viewport() float64 {
	return max(s.Width-s.PadLeft-s.PadRight, 1)
}

// PlotHeight returns the plot's height between the vertical pads.
func (s Surface) PlotHeight() float64 {
	return max(s.Height-s.PadTop-s.PadBottom, 1)
}

// Baseline returns the Y coordinate of the horizontal axis.
func (s Surface) Baseline() float64 {
	return s.Height - s.PadBottom
}

// ContentBounds is the horizontal extent actually occupied by plotted
// points, in content space.
type ContentBounds struct {
	MinX, MaxX float64
	OK         bool
}

// CenterBias returns the pan adjustment that centers content narrower
// than the viewport. It is zero whenever the content fills the viewport.
func CenterBias(b ContentBounds, s Surface) float64 {
	extent := b.MaxX - b.MinX
	if !b.OK || extent >= s.Viewport() {
		return 0
	}
	return (b.MinX - s.PadLeft) - (s.Viewport()-extent)/2
}
