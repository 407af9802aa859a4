package progress

import (
	"math"
	"testing"
	"time"
)

// date builds test dates in UTC so span arithmetic is immune to the
// host's daylight-saving transitions.
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testRange() TimeRange {
	return TimeRange{Start: date(2025, time.March, 30), Goal: date(2025, time.May, 17)}
}

func TestMapperEndpoints(t *testing.T) {
	r := testRange()
	sf := DefaultSurface(840, 390)
	for _, mode := range []ViewMode{FullSpan, RecentWindow} {
		content := ContentWidth(mode, r, DefaultWindow, sf.Viewport())
		m := Mapper{Range: r, Content: content, LeftPad: sf.PadLeft}
		if got := m.X(r.Start); got != sf.PadLeft {
			t.Errorf("mode %d: expected start to map to %f, got %f", mode, sf.PadLeft, got)
		}
		if got, want := m.X(r.Goal), sf.PadLeft+content; math.Abs(got-want) > 1e-9 {
			t.Errorf("mode %d: expected goal to map to %f, got %f", mode, want, got)
		}
	}
}

func TestDegenerateRange(t *testing.T) {
	day := date(2025, time.March, 30)
	r := TimeRange{Start: day, Goal: day}
	if got := r.Span(); got != time.Millisecond {
		t.Errorf("expected degenerate span to clamp to 1ms, got %v", got)
	}
	m := Mapper{Range: r, Content: 760, LeftPad: 40}
	for _, probe := range []time.Time{day, day.AddDate(0, 0, -7), day.AddDate(1, 0, 0)} {
		if got := m.X(probe); got != 40 {
			t.Errorf("expected degenerate range to map %v to the left edge, got %f", probe, got)
		}
	}
	r = TimeRange{Start: day, Goal: day.AddDate(0, 0, -1)}
	if got := r.Ratio(day); got != 0 {
		t.Errorf("expected inverted range ratio to be 0, got %f", got)
	}
}

func TestContentWidth(t *testing.T) {
	r := testRange()
	viewport := 760.0
	if got := ContentWidth(FullSpan, r, DefaultWindow, viewport); got != viewport {
		t.Errorf("expected full span content to equal the viewport, got %f", got)
	}
	got := ContentWidth(RecentWindow, r, DefaultWindow, viewport)
	want := 48.0 / 21.0 * viewport
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected recent window content %f, got %f", want, got)
	}
	if got := ContentWidth(RecentWindow, r, 0, viewport); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected a zero window to fall back to the default, got %f", got)
	}
	short := TimeRange{Start: r.Start, Goal: r.Start.AddDate(0, 0, 7)}
	if got := ContentWidth(RecentWindow, short, DefaultWindow, viewport); got >= viewport {
		t.Errorf("expected a short plan's content to be narrower than the viewport, got %f", got)
	}
}

func TestClampPan(t *testing.T) {
	type testcase struct {
		pan, content, viewport, want float64
	}
	for _, tc := range []testcase{
		{pan: 0, content: 1000, viewport: 760, want: 0},
		{pan: -50, content: 1000, viewport: 760, want: 0},
		{pan: 120, content: 1000, viewport: 760, want: 120},
		{pan: 500, content: 1000, viewport: 760, want: 240},
		{pan: 10, content: 500, viewport: 760, want: 0},
		{pan: -10, content: 500, viewport: 760, want: 0},
	} {
		if got := ClampPan(tc.pan, tc.content, tc.viewport); got != tc.want {
			t.Errorf("expected clamp(%f, %f, %f) = %f, got %f", tc.pan, tc.content, tc.viewport, tc.want, got)
		}
	}
}

func TestCenterBias(t *testing.T) {
	sf := DefaultSurface(840, 390)
	wide := ContentBounds{MinX: sf.PadLeft, MaxX: sf.PadLeft + sf.Viewport(), OK: true}
	if got := CenterBias(wide, sf); got != 0 {
		t.Errorf("expected no bias for full-width content, got %f", got)
	}
	narrow := ContentBounds{MinX: sf.PadLeft, MaxX: sf.PadLeft + 360, OK: true}
	bias := CenterBias(narrow, sf)
	if bias >= 0 {
		t.Fatalf("expected a negative centering bias, got %f", bias)
	}
	leftGap := (narrow.MinX - bias) - sf.PadLeft
	rightGap := (sf.PadLeft + sf.Viewport()) - (narrow.MaxX - bias)
	if math.Abs(leftGap-rightGap) > 1e-9 {
		t.Errorf("expected the bias to center content, got gaps %f and %f", leftGap, rightGap)
	}
	if got := CenterBias(ContentBounds{}, sf); got != 0 {
		t.Errorf("expected no bias without bounds, got %f", got)
	}
}

func TestDayWidth(t *testing.T) {
	r := testRange()
	m := Mapper{Range: r, Content: 760, LeftPad: 40}
	want := 760.0 / 48.0
	if got := m.DayWidth(); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected day width %f, got %f", want, got)
	}
	if got := m.DayX(r.Start); math.Abs(got-(40+want/2)) > 1e-9 {
		t.Errorf("expected the first day's centered X at %f, got %f", 40+want/2, got)
	}
}
