package backend

import (
	"time"

	"git.sr.ht/~pld/paceline/progress"
)

// WeekRollup aggregates one plan week of training.
type WeekRollup struct {
	Ordinal    int
	Start      time.Time
	Sessions   int
	Distance   float64 // meters
	MovingTime int     // seconds
	BestTrial  int     // seconds, zero when the week held no trial
}

// Rollup buckets in-range activities into plan weeks. Every week from
// the plan's first to its last is present, including empty ones, so a
// table of the result reads as a complete calendar.
func Rollup(acts []progress.Activity, plan progress.Plan) []WeekRollup {
	r := plan.Range()
	lastWeek := plan.WeekIndex(r.Goal)
	if lastWeek < 1 {
		return nil
	}
	rollups := make([]WeekRollup, lastWeek)
	anchor := plan.WeekAnchor()
	for i := range rollups {
		rollups[i].Ordinal = i + 1
		rollups[i].Start = anchor.AddDate(0, 0, i*7)
	}
	for _, act := range acts {
		day := act.Day()
		if day.Before(r.Start) || day.After(r.Goal) {
			continue
		}
		week := plan.WeekIndex(day)
		if week < 1 || week > lastWeek {
			continue
		}
		w := &rollups[week-1]
		w.Sessions++
		w.Distance += act.Distance
		w.MovingTime += act.MovingTime
		if act.Trial() && act.MovingTime > 0 {
			if w.BestTrial == 0 || act.MovingTime < w.BestTrial {
				w.BestTrial = act.MovingTime
			}
		}
	}
	return rollups
}
