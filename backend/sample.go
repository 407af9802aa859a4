package backend

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"git.sr.ht/~pld/paceline/progress"
)

// sampleSeed keeps the in-app sample log identical across launches.
const sampleSeed = 7

// Counter issues synthetic activity ids. It is owned by whoever runs
// the generator rather than living in package state, so concurrent
// generators can't interleave id sequences.
type Counter struct {
	next int64
}

func NewCounter(start int64) *Counter {
	return &Counter{next: start}
}

func (c *Counter) Next() int64 {
	id := c.next
	c.next++
	return id
}

var runNames = []string{
	"Morning Run",
	"Lunch Run",
	"Evening Run",
	"Easy Run",
	"Long Run",
	"Intervals",
}

// GenerateLog builds a synthetic training log covering the plan's span:
// most days hold an ordinary run, and one day per week holds a trial
// whose time improves steadily from the plan's start time toward its
// goal. Identical seed and counter state produce an identical log.
func GenerateLog(seed int64, counter *Counter, plan progress.Plan) []Record {
	faker := gofakeit.New(seed)
	r := plan.Range()
	startSecs, err := progress.ParseClock(plan.StartTime)
	if err != nil {
		startSecs = 3600
	}
	goalSecs, err := progress.ParseClock(plan.GoalTime)
	if err != nil {
		goalSecs = startSecs
	}
	totalDays := int(r.Span().Hours() / 24)
	if totalDays < 1 {
		totalDays = 1
	}

	var recs []Record
	trialDay := plan.WeekStart + 6 // the day before the next week starts
	for day := 0; day <= totalDays; day++ {
		date := r.Start.AddDate(0, 0, day)
		if date.After(r.Goal) {
			break
		}
		trial := date.Weekday() == trialDay%7 && day > 0
		switch {
		case trial:
			// Interpolate the trial result along the plan, with a little
			// day-to-day noise.
			frac := float64(day) / float64(totalDays)
			secs := float64(startSecs) + (float64(goalSecs)-float64(startSecs))*frac
			secs += faker.Float64Range(-90, 90)
			recs = append(recs, Record{
				ID:          counter.Next(),
				Name:        "Race Pace Trial",
				Distance:    10000,
				MovingTime:  int(secs),
				StartDate:   date.Add(8 * time.Hour).Format("2006-01-02T15:04:05"),
				Type:        "Run",
				WorkoutType: progress.WorkoutRace,
			})
		case faker.Float32Range(0, 1) < 0.7:
			dist := faker.Float64Range(4000, 16000)
			pace := faker.Float64Range(0.30, 0.40) // seconds per meter
			recs = append(recs, Record{
				ID:           counter.Next(),
				Name:         runNames[faker.IntRange(0, len(runNames)-1)],
				Distance:     dist,
				MovingTime:   int(dist * pace),
				StartDate:    date.Add(time.Duration(faker.IntRange(6, 19)) * time.Hour).Format("2006-01-02T15:04:05"),
				Type:         "Run",
				AvgHeartrate: faker.Float64Range(120, 165),
				SufferScore:  faker.Float64Range(10, 90),
			})
		}
	}
	return recs
}

// WriteLog writes records as the JSON document the datasource reads.
func WriteLog(path string, recs []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create activity log: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(recs); err != nil {
		f.Close()
		return fmt.Errorf("unable to write activity log: %w", err)
	}
	return f.Close()
}
