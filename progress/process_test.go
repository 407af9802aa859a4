package progress

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func testPlan() Plan {
	return Plan{
		StartTime: "01:25:00",
		GoalTime:  "01:10:00",
		StartDate: date(2025, time.March, 30),
		GoalDate:  date(2025, time.May, 17),
		WeekStart: time.Sunday,
	}
}

func testSurface() Surface {
	return DefaultSurface(840, 390)
}

func act(id int64, day time.Time, movingTime int, trial bool) Activity {
	a := Activity{
		ID:         id,
		Name:       "run",
		Date:       day.Add(7 * time.Hour),
		Distance:   10000,
		MovingTime: movingTime,
	}
	if trial {
		a.WorkoutType = WorkoutRace
	}
	return a
}

func TestProcessEmptyLog(t *testing.T) {
	g := Process(nil, testPlan(), FullSpan, testSurface())
	if len(g.Points) != 2 {
		t.Fatalf("expected exactly start and goal points, got %d", len(g.Points))
	}
	if g.Points[0].Category != CategoryStart || g.Points[1].Category != CategoryGoal {
		t.Errorf("expected points ordered start then goal, got %v then %v", g.Points[0].Category, g.Points[1].Category)
	}
	if len(g.Bars) != 0 {
		t.Errorf("expected no bars, got %d", len(g.Bars))
	}
	if math.Abs(g.Scale.Min-4110) > 1e-6 {
		t.Errorf("expected scale min 4110, got %f", g.Scale.Min)
	}
	if math.Abs(g.Scale.Max-5190) > 1e-6 {
		t.Errorf("expected scale max 5190, got %f", g.Scale.Max)
	}
	start, goal := g.Points[0], g.Points[1]
	if start.Label != "01:25:00" || goal.Label != "01:10:00" {
		t.Errorf("expected race time labels, got %q and %q", start.Label, goal.Label)
	}
	if start.Y <= goal.Y {
		t.Errorf("expected the slower start below the faster goal, got %f and %f", start.Y, goal.Y)
	}
	band := g.Surface.PadTop + g.Surface.PlotHeight()*pointBandFrac
	for _, p := range g.Points {
		if p.Y < g.Surface.PadTop || p.Y > band {
			t.Errorf("expected %v Y within [%f, %f], got %f", p.Category, g.Surface.PadTop, band, p.Y)
		}
	}
	if !g.Bounds.OK || g.Bounds.MinX >= g.Bounds.MaxX {
		t.Errorf("expected usable content bounds, got %+v", g.Bounds)
	}
}

func TestProcessTrialResult(t *testing.T) {
	trialDay := date(2025, time.April, 12)
	g := Process([]Activity{act(9001, trialDay, 3726, true)}, testPlan(), FullSpan, testSurface())
	if len(g.Points) != 3 {
		t.Fatalf("expected three points, got %d", len(g.Points))
	}
	trial := g.Points[1]
	if trial.Category != CategoryTrial {
		t.Fatalf("expected the middle point to be the trial, got %v", trial.Category)
	}
	if trial.Label != "01:02:06" {
		t.Errorf("expected trial label 01:02:06, got %q", trial.Label)
	}
	if trial.Activity.ID != 9001 {
		t.Errorf("expected the trial to carry its activity, got %d", trial.Activity.ID)
	}
	if len(g.Bars) != 1 || g.Bars[0].Activity.ID != 9001 {
		t.Errorf("expected the trial activity to keep its training bar, got %+v", g.Bars)
	}
}

func TestProcessSameDayBarsStack(t *testing.T) {
	day := date(2025, time.April, 2)
	g := Process([]Activity{
		act(1, day, 1800, false),
		act(2, day, 3600, false),
	}, testPlan(), FullSpan, testSurface())
	if len(g.Bars) != 2 {
		t.Fatalf("expected two bars, got %d", len(g.Bars))
	}
	a, b := g.Bars[0], g.Bars[1]
	if a.X != b.X || a.Width != b.Width {
		t.Errorf("expected same-day bars to share a day column, got (%f,%f) and (%f,%f)", a.X, a.Width, b.X, b.Width)
	}
	if a.Lift != 0 {
		t.Errorf("expected the first bar on the baseline, got lift %f", a.Lift)
	}
	if b.Lift != a.Height {
		t.Errorf("expected the second bar lifted by %f, got %f", a.Height, b.Lift)
	}
	if b.Height != g.Surface.PadBottom/2 {
		t.Errorf("expected the longest workout to fill the bar band %f, got %f", g.Surface.PadBottom/2, b.Height)
	}
}

func TestProcessSortsPoints(t *testing.T) {
	plan := testPlan()
	acts := []Activity{
		act(3, date(2025, time.May, 3), 3800, true),
		act(1, date(2025, time.April, 5), 4100, true),
		act(2, date(2025, time.April, 19), 3950, true),
	}
	g := Process(acts, plan, FullSpan, testSurface())
	for i := 1; i < len(g.Points); i++ {
		if g.Points[i].Date.Before(g.Points[i-1].Date) {
			t.Errorf("expected points sorted by date, found %v before %v", g.Points[i-1].Date, g.Points[i].Date)
		}
	}
	if len(g.Points) != 5 {
		t.Errorf("expected five points, got %d", len(g.Points))
	}
}

func TestProcessIdempotent(t *testing.T) {
	plan := testPlan()
	acts := []Activity{
		act(1, date(2025, time.April, 5), 4100, true),
		act(2, date(2025, time.April, 5), 1800, false),
		act(3, date(2025, time.April, 22), 2400, false),
	}
	a := Process(acts, plan, RecentWindow, testSurface())
	b := Process(acts, plan, RecentWindow, testSurface())
	if !reflect.DeepEqual(a, b) {
		t.Errorf("expected identical inputs to yield identical geometry")
	}
}

func TestProcessFiltersActivities(t *testing.T) {
	plan := testPlan()
	acts := []Activity{
		act(1, date(2025, time.March, 1), 3600, false),  // before the plan
		act(2, date(2025, time.June, 1), 3600, false),   // after the goal
		act(3, date(2025, time.April, 2), 0, false),     // no duration
		act(4, date(2025, time.April, 3), -60, false),   // negative duration
		act(5, date(2025, time.April, 4), 3600, false),  // kept
		act(6, date(2025, time.March, 30), 1200, false), // first day, kept
		act(7, date(2025, time.May, 17), 1200, false),   // goal day, kept
	}
	g := Process(acts, plan, FullSpan, testSurface())
	if len(g.Bars) != 3 {
		t.Fatalf("expected three bars, got %d", len(g.Bars))
	}
	for _, b := range g.Bars {
		if b.Activity.ID != 5 && b.Activity.ID != 6 && b.Activity.ID != 7 {
			t.Errorf("expected activity %d to be filtered out", b.Activity.ID)
		}
	}
}

func TestProcessDefaultCeiling(t *testing.T) {
	plan := testPlan()
	plan.StartTime = "not a clock"
	plan.GoalTime = ""
	g := Process(nil, plan, FullSpan, testSurface())
	if g.Scale.Min != 0 || g.Scale.Max != defaultCeiling {
		t.Errorf("expected the default two-hour ceiling, got [%f, %f]", g.Scale.Min, g.Scale.Max)
	}
	if g.Points[0].Seconds != 0 || g.Points[1].Seconds != 0 {
		t.Errorf("expected unparseable race times to degrade to zero, got %d and %d", g.Points[0].Seconds, g.Points[1].Seconds)
	}
}

func TestProcessWeekMarks(t *testing.T) {
	g := Process(nil, testPlan(), FullSpan, testSurface())
	// The start date is itself a Sunday, so the first weekly gridline
	// would overlap the Start point and is dropped.
	wantOrdinals := []int{2, 3, 4, 5, 6, 7}
	if len(g.Weeks) != len(wantOrdinals) {
		t.Fatalf("expected %d week marks, got %d", len(wantOrdinals), len(g.Weeks))
	}
	for i, w := range g.Weeks {
		if w.Ordinal != wantOrdinals[i] {
			t.Errorf("expected week ordinal %d, got %d", wantOrdinals[i], w.Ordinal)
		}
	}
	if !g.Weeks[0].Date.Equal(date(2025, time.April, 6)) {
		t.Errorf("expected the first mark on April 6, got %v", g.Weeks[0].Date)
	}
	if last := g.Weeks[len(g.Weeks)-1]; !last.Date.Equal(date(2025, time.May, 11)) {
		t.Errorf("expected the last mark on May 11, got %v", last.Date)
	}
	if len(g.Days) != 0 {
		t.Errorf("expected no day marks in the full span view, got %d", len(g.Days))
	}
}

func TestProcessDayMarks(t *testing.T) {
	g := Process(nil, testPlan(), RecentWindow, testSurface())
	if len(g.Days) == 0 {
		t.Fatal("expected day marks in the zoomed view")
	}
	first := g.Days[0]
	if !first.Date.Equal(date(2025, time.March, 31)) {
		t.Errorf("expected the start day's mark to be dropped, first is %v", first.Date)
	}
	if first.Name != "Mon 31" {
		t.Errorf("expected day name %q, got %q", "Mon 31", first.Name)
	}
}

func TestProcessContentWidthByMode(t *testing.T) {
	sf := testSurface()
	full := Process(nil, testPlan(), FullSpan, sf)
	if full.Content != sf.Viewport() {
		t.Errorf("expected full span content %f, got %f", sf.Viewport(), full.Content)
	}
	recent := Process(nil, testPlan(), RecentWindow, sf)
	want := 48.0 / 21.0 * sf.Viewport()
	if math.Abs(recent.Content-want) > 1e-9 {
		t.Errorf("expected recent window content %f, got %f", want, recent.Content)
	}
}

func TestScaleMonotonic(t *testing.T) {
	plan := testPlan()
	acts := []Activity{
		act(1, date(2025, time.April, 5), 5000, true),
		act(2, date(2025, time.April, 12), 4400, true),
		act(3, date(2025, time.April, 19), 4800, true),
	}
	g := Process(acts, plan, FullSpan, testSurface())
	for i, a := range g.Points {
		for j, b := range g.Points {
			if a.Seconds < b.Seconds && a.Y >= b.Y {
				t.Errorf("expected %d (point %d) to plot above %d (point %d), got Y %f and %f",
					a.Seconds, i, b.Seconds, j, a.Y, b.Y)
			}
		}
	}
}
