// Package backend owns everything behind the UI: loading and watching
// activity logs, validating plan configuration, synthesizing sample
// data, and aggregating weekly totals.
package backend

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	"git.sr.ht/~pld/paceline/progress"
)

// Record is one activity as it appears in the log file: the subset of
// the Strava activity schema the chart consumes.
type Record struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Distance     float64 `json:"distance"`
	MovingTime   int     `json:"moving_time"`
	StartDate    string  `json:"start_date_local"`
	Type         string  `json:"type"`
	WorkoutType  int     `json:"workout_type"`
	AvgHeartrate float64 `json:"average_heartrate,omitempty"`
	SufferScore  float64 `json:"suffer_score,omitempty"`
}

// Activity converts the wire record into the chart's activity type. It
// fails when the record is missing the fields the chart cannot work
// without.
func (r Record) Activity() (progress.Activity, error) {
	when, err := parseStartDate(r.StartDate)
	if err != nil {
		return progress.Activity{}, fmt.Errorf("activity %d: %w", r.ID, err)
	}
	return progress.Activity{
		ID:           r.ID,
		Name:         r.Name,
		Date:         when,
		Distance:     r.Distance,
		MovingTime:   r.MovingTime,
		WorkoutType:  r.WorkoutType,
		AvgHeartrate: r.AvgHeartrate,
		SufferScore:  r.SufferScore,
	}, nil
}

// startDateLayouts are the timestamp shapes found in real exports. The
// trailing-Z form is how Strava writes local times.
var startDateLayouts = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseStartDate(s string) (time.Time, error) {
	for _, layout := range startDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized start date %q", s)
}

// LoadResult is one decoded activity log. Warnings accumulate the
// per-record issues behind the Skipped count; they never abort a load.
type LoadResult struct {
	Activities []progress.Activity
	Skipped    int
	Warnings   error
}

// DecodeLog reads a JSON activity log. Malformed records are dropped
// with a warning; only a structurally unreadable document fails.
func DecodeLog(r io.Reader) (LoadResult, error) {
	var recs []Record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return LoadResult{}, fmt.Errorf("unable to decode activity log: %w", err)
	}
	res := LoadResult{Activities: make([]progress.Activity, 0, len(recs))}
	for _, rec := range recs {
		act, err := rec.Activity()
		if err != nil {
			log.Warnf("skipping activity: %v", err)
			res.Skipped++
			res.Warnings = multierror.Append(res.Warnings, err)
			continue
		}
		res.Activities = append(res.Activities, act)
	}
	return res, nil
}
