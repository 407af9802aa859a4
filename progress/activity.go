package progress

import "time"

// WorkoutRace is the workout type code fitness trackers assign to race
// efforts. Activities carrying it are treated as trial results.
const WorkoutRace = 1

// Activity is a single training session from the athlete's log.
type Activity struct {
	ID           int64
	Name         string
	Date         time.Time
	Distance     float64 // meters
	MovingTime   int     // seconds
	WorkoutType  int
	AvgHeartrate float64
	SufferScore  float64
}

// Trial reports whether the activity was a race-pace test rather than
// ordinary training.
func (a Activity) Trial() bool {
	return a.WorkoutType == WorkoutRace
}

// Day returns the activity's calendar day at local midnight.
func (a Activity) Day() time.Time {
	return Day(a.Date)
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
