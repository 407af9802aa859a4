package progress

import (
	"math"
	"time"
)

// Plan describes the athlete's goal: the race time they hold today, the
// race time they are training toward, and the calendar span between.
type Plan struct {
	StartTime string // current race time, "HH:MM:SS"
	GoalTime  string // target race time, "HH:MM:SS"
	StartDate time.Time
	GoalDate  time.Time
	WeekStart time.Weekday
	Window    time.Duration // RecentWindow span; DefaultWindow when zero
}

// Range returns the plan's calendar span, day-aligned.
func (p Plan) Range() TimeRange {
	return TimeRange{Start: Day(p.StartDate), Goal: Day(p.GoalDate)}
}

// WeekAnchor returns the week-start-aligned day at or before the plan's
// first day.
func (p Plan) WeekAnchor() time.Time {
	day := Day(p.StartDate)
	offset := (int(day.Weekday()) - int(p.WeekStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekIndex returns the 1-based training week containing t. Days before
// the plan's first week report zero.
func (p Plan) WeekIndex(t time.Time) int {
	days := int(math.Round(Day(t).Sub(p.WeekAnchor()).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days/7 + 1
}

func (p Plan) window() time.Duration {
	if p.Window > 0 {
		return p.Window
	}
	return DefaultWindow
}
