package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	log "github.com/sirupsen/logrus"

	"git.sr.ht/~pld/paceline/backend"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `%[1]s: write a synthetic activity log for paceline

Stands in for the scheduled job that refreshes the activity file: writes
a JSON log once, or keeps rewriting it on an interval so a watching
paceline window picks up the changes.

Usage:

 %[1]s -out activities.json
 %[1]s -out activities.json -every 30s

`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	out := flag.String("out", "activities.json", "path of the activity log to write")
	seed := flag.Int64("seed", 7, "random seed for the generated log")
	startTime := flag.String("start-time", "01:25:00", "current race time")
	goalTime := flag.String("goal-time", "01:10:00", "target race time")
	startDate := flag.String("start-date", time.Now().AddDate(0, 0, -28).Format("2006-01-02"), "first day of the plan")
	goalDate := flag.String("goal-date", time.Now().AddDate(0, 0, 56).Format("2006-01-02"), "race day")
	every := flag.Duration("every", 0, "rewrite interval; zero writes once and exits")
	flag.Usage = usage
	flag.Parse()

	cfg := backend.PlanConfig{
		StartTime: *startTime,
		StartDate: *startDate,
		GoalTime:  *goalTime,
		GoalDate:  *goalDate,
	}
	plan, err := cfg.Plan()
	if err != nil {
		log.Fatalf("invalid plan: %v", err)
	}

	counter := backend.NewCounter(1)
	write := func(seed int64) {
		recs := backend.GenerateLog(seed, counter, plan)
		if err := backend.WriteLog(*out, recs); err != nil {
			log.Fatalf("unable to write log: %v", err)
		}
		log.Infof("wrote %d activities to %s", len(recs), *out)
	}
	write(*seed)
	if *every <= 0 {
		return
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	ticker := time.NewTicker(*every)
	defer ticker.Stop()
	generation := *seed
	for {
		select {
		case <-ticker.C:
			generation++
			write(generation)
		case <-interrupt:
			return
		}
	}
}
