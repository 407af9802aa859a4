package main

import (
	"image"
	"testing"
	"time"

	"git.sr.ht/~pld/paceline/progress"
)

func chartPlan() progress.Plan {
	return progress.Plan{
		StartTime: "01:25:00",
		GoalTime:  "01:10:00",
		StartDate: time.Date(2025, time.March, 30, 0, 0, 0, 0, time.Local),
		GoalDate:  time.Date(2025, time.May, 17, 0, 0, 0, 0, time.Local),
		WeekStart: time.Sunday,
	}
}

func TestReloadDropsFrozenHover(t *testing.T) {
	var ds Dataset
	ds.Plan = chartPlan()
	ds.Replace([]progress.Activity{{
		ID:          100,
		Name:        "Race pace test",
		Date:        time.Date(2025, time.April, 12, 8, 0, 0, 0, time.Local),
		Distance:    15000,
		MovingTime:  3726,
		WorkoutType: progress.WorkoutRace,
	}})
	e := NewChartEngine(&ds)
	size := image.Pt(840, 390)
	e.ensureGeometry(size)

	var trial progress.Point
	for _, p := range e.geom.Points {
		if p.Category == progress.CategoryTrial {
			trial = p
		}
	}
	e.sel = e.geom.Resolve(trial.X, 5, 3)
	if e.sel.Empty() {
		t.Fatal("expected a selection over the trial point")
	}
	// Hover freezes while the viewport drags, and a watched-file rewrite
	// can land mid-drag and swap in smaller geometry underneath it.
	e.frozenSel = e.sel
	e.drag = progress.DragState{Kind: progress.DragViewport}
	ds.Replace(nil)
	e.ensureGeometry(size)
	if !e.sel.Empty() || !e.frozenSel.Empty() {
		t.Errorf("expected selections dropped on rebuild, got %+v and %+v", e.sel, e.frozenSel)
	}
	if got := e.frozenSel.Describe(&e.geom); got != "" {
		t.Errorf("expected no hover text after a rebuild, got %q", got)
	}
}

func TestConsecutiveDays(t *testing.T) {
	a := time.Date(2025, time.April, 12, 0, 0, 0, 0, time.Local)
	if !consecutiveDays(a, a.AddDate(0, 0, 1)) {
		t.Error("expected adjacent days to bridge")
	}
	if consecutiveDays(a, a.AddDate(0, 0, 2)) {
		t.Error("expected a gap day to break the bridge")
	}
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// The US spring-forward day runs 23 hours, so an instant comparison
	// against 24h would split these bars.
	before := time.Date(2025, time.March, 9, 0, 0, 0, 0, loc)
	after := time.Date(2025, time.March, 10, 0, 0, 0, 0, loc)
	if got := after.Sub(before); got >= 24*time.Hour {
		t.Fatalf("expected a short day across the transition, got %v", got)
	}
	if !consecutiveDays(before, after) {
		t.Error("expected the bridge to hold across the transition")
	}
}
