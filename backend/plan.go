package backend

import (
	"fmt"
	"strings"
	"time"

	"git.sr.ht/~pld/paceline/progress"
)

// PlanConfig is the raw, unvalidated plan as it arrives from flags,
// environment, or the config file.
type PlanConfig struct {
	StartTime   string `mapstructure:"start-time"`
	StartDate   string `mapstructure:"start-date"`
	GoalTime    string `mapstructure:"goal-time"`
	GoalDate    string `mapstructure:"goal-date"`
	WeekStart   string `mapstructure:"week-start"`
	WindowWeeks int    `mapstructure:"window-weeks"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Plan validates the raw config into a usable training plan. Unlike the
// tolerant in-chart parsing, configuration errors here are fatal: a
// half-valid plan would anchor the whole chart to garbage.
func (c PlanConfig) Plan() (progress.Plan, error) {
	var p progress.Plan
	if _, err := progress.ParseClock(c.StartTime); err != nil {
		return p, fmt.Errorf("invalid start time: %w", err)
	}
	if _, err := progress.ParseClock(c.GoalTime); err != nil {
		return p, fmt.Errorf("invalid goal time: %w", err)
	}
	start, err := time.ParseInLocation("2006-01-02", c.StartDate, time.Local)
	if err != nil {
		return p, fmt.Errorf("invalid start date: %w", err)
	}
	goal, err := time.ParseInLocation("2006-01-02", c.GoalDate, time.Local)
	if err != nil {
		return p, fmt.Errorf("invalid goal date: %w", err)
	}
	if !goal.After(start) {
		return p, fmt.Errorf("goal date %s is not after start date %s", c.GoalDate, c.StartDate)
	}
	weekStart := time.Monday
	if c.WeekStart != "" {
		day, ok := weekdays[strings.ToLower(c.WeekStart)]
		if !ok {
			return p, fmt.Errorf("unknown weekday %q", c.WeekStart)
		}
		weekStart = day
	}
	p = progress.Plan{
		StartTime: c.StartTime,
		GoalTime:  c.GoalTime,
		StartDate: start,
		GoalDate:  goal,
		WeekStart: weekStart,
	}
	if c.WindowWeeks > 0 {
		p.Window = time.Duration(c.WindowWeeks) * 7 * 24 * time.Hour
	}
	return p, nil
}
