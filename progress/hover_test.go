package progress

import (
	"strings"
	"testing"
	"time"
)

func hoverGeometry(t *testing.T) Geometry {
	t.Helper()
	day := date(2025, time.April, 12)
	acts := []Activity{
		{
			ID:           100,
			Name:         "Race pace test",
			Date:         day.Add(8 * time.Hour),
			Distance:     15000,
			MovingTime:   3726,
			WorkoutType:  WorkoutRace,
			AvgHeartrate: 152,
		},
		{
			ID:          101,
			Name:        "Evening shakeout",
			Date:        day.Add(17 * time.Hour),
			Distance:    5000,
			MovingTime:  1500,
			SufferScore: 21,
		},
		{
			ID:         102,
			Name:       "Long run",
			Date:       date(2025, time.April, 20).Add(9 * time.Hour),
			Distance:   22000,
			MovingTime: 7000,
		},
	}
	return Process(acts, testPlan(), FullSpan, testSurface())
}

func trialPoint(t *testing.T, g *Geometry) Point {
	t.Helper()
	for _, p := range g.Points {
		if p.Category == CategoryTrial {
			return p
		}
	}
	t.Fatal("no trial point in geometry")
	return Point{}
}

func TestResolvePoint(t *testing.T) {
	g := hoverGeometry(t)
	trial := trialPoint(t, &g)
	sel := g.Resolve(trial.X+1, 5, 3)
	found := false
	for _, idx := range sel.Points {
		if g.Points[idx].Activity.ID == 100 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the trial point to be hit, got %+v", sel.Points)
	}
	sel = g.Resolve(trial.X+20, 5, 3)
	if len(sel.Points) != 0 {
		t.Errorf("expected no point hits away from the marker, got %+v", sel.Points)
	}
}

func TestResolveSuppressesTrialBar(t *testing.T) {
	g := hoverGeometry(t)
	trial := trialPoint(t, &g)
	// The probe over the trial point also crosses that day's bars.
	sel := g.Resolve(trial.X, 5, 3)
	for _, idx := range sel.Bars {
		if g.Bars[idx].Activity.ID == 100 {
			t.Errorf("expected the trial's own bar to be suppressed")
		}
	}
	found := false
	for _, idx := range sel.Bars {
		if g.Bars[idx].Activity.ID == 101 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the same-day training bar to stay hoverable, got %+v", sel.Bars)
	}
}

func TestResolveStackedBars(t *testing.T) {
	g := hoverGeometry(t)
	var dayBar Bar
	for _, b := range g.Bars {
		if b.Activity.ID == 101 {
			dayBar = b
		}
	}
	sel := g.Resolve(dayBar.X+dayBar.Width/2, 0.1, 0.1)
	if len(sel.Bars) != 1 {
		t.Fatalf("expected only the unsuppressed same-day bar, got %d", len(sel.Bars))
	}
	// With no point radius the trial point can't hit, so both stacked
	// bars must report.
	sel = g.Resolve(dayBar.X+dayBar.Width/2, 0, 0)
	ids := map[int64]bool{}
	for _, idx := range sel.Bars {
		ids[g.Bars[idx].Activity.ID] = true
	}
	if !ids[100] || !ids[101] {
		t.Errorf("expected both stacked bars hoverable, got %v", ids)
	}
}

func TestResolveBarEdges(t *testing.T) {
	g := hoverGeometry(t)
	var long Bar
	for _, b := range g.Bars {
		if b.Activity.ID == 102 {
			long = b
		}
	}
	if sel := g.Resolve(long.X, 0, 0); len(sel.Bars) != 1 {
		t.Errorf("expected the bar hit at its left edge, got %+v", sel.Bars)
	}
	if sel := g.Resolve(long.X+long.Width, 0, 0); len(sel.Bars) != 0 {
		t.Errorf("expected no hit at the next day's edge, got %+v", sel.Bars)
	}
}

func TestResolveWeekMark(t *testing.T) {
	g := hoverGeometry(t)
	w := g.Weeks[0]
	sel := g.Resolve(w.X+2, 0, 3)
	if len(sel.Weeks) != 1 {
		t.Fatalf("expected one week hit, got %d", len(sel.Weeks))
	}
	if sel := g.Resolve(w.X+10, 0, 3); len(sel.Weeks) != 0 {
		t.Errorf("expected no week hit outside the radius, got %+v", sel.Weeks)
	}
}

func TestDescribe(t *testing.T) {
	g := hoverGeometry(t)
	trial := trialPoint(t, &g)
	text := g.Resolve(trial.X, 5, 3).Describe(&g)
	for _, want := range []string{"Trial", "01:02:06", "Race pace test", "Evening shakeout", "5.0 km", "effort 21"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected description to mention %q, got %q", want, text)
		}
	}
	if strings.Count(text, "Race pace test") != 1 {
		t.Errorf("expected the trial activity reported once, got %q", text)
	}
	if got := (Selection{}).Describe(&g); got != "" {
		t.Errorf("expected an empty selection to describe as empty, got %q", got)
	}
}

func TestDescribeSelectionFromEarlierGeometry(t *testing.T) {
	g := hoverGeometry(t)
	trial := trialPoint(t, &g)
	sel := g.Resolve(trial.X, 5, 3)
	if sel.Empty() {
		t.Fatal("expected the selection to hit something")
	}
	// A reload can shrink the geometry under a held selection; describing
	// against the rebuilt one must not fault or resurrect old entities.
	rebuilt := Process(nil, testPlan(), FullSpan, testSurface())
	text := sel.Describe(&rebuilt)
	for _, stale := range []string{"Race pace test", "Evening shakeout"} {
		if strings.Contains(text, stale) {
			t.Errorf("expected %q dropped with the old geometry, got %q", stale, text)
		}
	}
	outOfRange := Selection{
		Points: []int{len(rebuilt.Points)},
		Bars:   []int{0},
		Weeks:  []int{len(rebuilt.Weeks)},
	}
	if got := outOfRange.Describe(&rebuilt); got != "" {
		t.Errorf("expected out-of-range entries skipped, got %q", got)
	}
}

func TestDescribeStartAndGoal(t *testing.T) {
	g := Process(nil, testPlan(), FullSpan, testSurface())
	start := g.Resolve(g.Points[0].X, 5, 3).Describe(&g)
	if !strings.Contains(start, "Start Mar 30: 01:25:00") {
		t.Errorf("expected the start description, got %q", start)
	}
	goal := g.Resolve(g.Points[1].X, 5, 3).Describe(&g)
	if !strings.Contains(goal, "Goal May 17: 01:10:00") {
		t.Errorf("expected the goal description, got %q", goal)
	}
}
