package backend

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"git.sr.ht/~pld/paceline/progress"
)

// Mode describes where a session's activities came from.
type Mode uint8

const (
	ModeNone Mode = iota
	// ModeFile sessions re-read their file whenever the external refresh
	// job rewrites it.
	ModeFile
	// ModeStream sessions read a one-shot reader and cannot reload.
	ModeStream
	// ModeSample sessions hold synthetic data.
	ModeSample
)

func (m Mode) String() string {
	switch m {
	case ModeFile:
		return "file"
	case ModeStream:
		return "stream"
	case ModeSample:
		return "sample"
	}
	return "none"
}

// Session is one activity-log load and its subsequent reloads. Every
// emission carries the complete decoded log; consumers swap their copy
// wholesale rather than patching it.
type Session struct {
	ID         string
	Source     string
	Mode       Mode
	Activities []progress.Activity
	Skipped    int
	Watching   bool
	Warnings   error
	Err        error
}

// Status reduces a session to the fields the status line shows.
type Status struct {
	Source   string
	Mode     Mode
	Records  int
	Skipped  int
	Watching bool
	Err      error
}

func (s Session) Status() Status {
	return Status{
		Source:   s.Source,
		Mode:     s.Mode,
		Records:  len(s.Activities),
		Skipped:  s.Skipped,
		Watching: s.Watching,
		Err:      s.Err,
	}
}

func (s Status) String() string {
	if s.Err != nil {
		return fmt.Sprintf("%s: %v", s.Source, s.Err)
	}
	if s.Mode == ModeNone {
		return "no activity log loaded"
	}
	var b strings.Builder
	if s.Watching {
		b.WriteString("watching ")
	}
	fmt.Fprintf(&b, "%s: %d activities", s.Source, s.Records)
	if s.Skipped > 0 {
		fmt.Fprintf(&b, " (%d skipped)", s.Skipped)
	}
	return b.String()
}

// Datasource owns activity-log load sessions. Each session lives in a
// mutation pool so that any number of subscribers can follow its
// updates.
type Datasource struct {
	pool   *stream.MutationPool[string, Session]
	appCtx context.Context
}

func NewDatasource(appCtx context.Context, mutator *stream.Mutator) *Datasource {
	return &Datasource{
		pool:   stream.NewMutationPool[string, Session](mutator),
		appCtx: appCtx,
	}
}

func generateSessionID() string {
	return strings.Replace(time.Now().UTC().Format("20060102150405.000000000"), ".", "", 1)
}

func loadPath(path string) Session {
	session := Session{ID: path, Source: path, Mode: ModeFile}
	f, err := os.Open(path)
	if err != nil {
		session.Err = err
		return session
	}
	defer f.Close()
	res, err := DecodeLog(f)
	if err != nil {
		session.Err = err
		return session
	}
	session.Activities = res.Activities
	session.Skipped = res.Skipped
	session.Warnings = res.Warnings
	return session
}

// LoadFromPath starts (or joins) a session reading the given file. The
// session watches the file and reloads it whole every time something
// rewrites it, which is how the external refresh job feeds the chart.
func (d *Datasource) LoadFromPath(path string) (*stream.Mutation[Session], bool) {
	return stream.Mutate(d.pool, path, func(ctx context.Context) <-chan Session {
		out := make(chan Session, 1)
		go func() {
			defer close(out)
			session := loadPath(path)

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				log.Warnf("file watching unavailable: %v", err)
				out <- session
				return
			}
			defer watcher.Close()
			if err := watcher.Add(path); err != nil {
				log.Warnf("unable to watch %s: %v", path, err)
				out <- session
				return
			}
			session.Watching = true
			out <- session

			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-watcher.Events:
					if !ok {
						return
					}
					if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
						continue
					}
					session = loadPath(path)
					session.Watching = true
					select {
					case out <- session:
					case <-ctx.Done():
						return
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return
					}
					log.Warnf("watcher error on %s: %v", path, err)
				}
			}
		}()
		return out
	})
}

// LoadFromFile opens a log chosen interactively. Files backed by a real
// path get a reloading session; anything else is read once.
func (d *Datasource) LoadFromFile(expl *explorer.Explorer) (*stream.Mutation[Session], error) {
	file, err := expl.ChooseFile()
	if err != nil {
		return nil, err
	}
	if f, ok := file.(*os.File); ok {
		name := f.Name()
		f.Close()
		mut, _ := d.LoadFromPath(name)
		return mut, nil
	}
	mut, _ := d.LoadFromStream("chosen file", file)
	return mut, nil
}

// LoadFromStream reads a one-shot activity log from rc, which it closes.
func (d *Datasource) LoadFromStream(source string, rc io.ReadCloser) (*stream.Mutation[Session], bool) {
	id := generateSessionID()
	return stream.Mutate(d.pool, id, func(ctx context.Context) <-chan Session {
		out := make(chan Session, 1)
		go func() {
			defer close(out)
			defer rc.Close()
			session := Session{ID: id, Source: source, Mode: ModeStream}
			res, err := DecodeLog(rc)
			if err != nil {
				session.Err = err
			} else {
				session.Activities = res.Activities
				session.Skipped = res.Skipped
				session.Warnings = res.Warnings
			}
			out <- session
		}()
		return out
	})
}

// LoadSample fills a session with a deterministic synthetic log spanning
// the plan, for trying the chart without real data.
func (d *Datasource) LoadSample(plan progress.Plan) (*stream.Mutation[Session], bool) {
	id := generateSessionID()
	return stream.Mutate(d.pool, id, func(ctx context.Context) <-chan Session {
		out := make(chan Session, 1)
		go func() {
			defer close(out)
			recs := GenerateLog(sampleSeed, NewCounter(1), plan)
			session := Session{ID: id, Source: "sample data", Mode: ModeSample}
			for _, rec := range recs {
				act, err := rec.Activity()
				if err != nil {
					session.Skipped++
					continue
				}
				session.Activities = append(session.Activities, act)
			}
			out <- session
		}()
		return out
	})
}
