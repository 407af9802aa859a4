package progress

import (
	"fmt"
	"math"
	"strings"
)

// Selection is the set of entities currently under the probe, held as
// indices into the Geometry that produced it.
type Selection struct {
	Points []int
	Bars   []int
	Weeks  []int
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return len(s.Points) == 0 && len(s.Bars) == 0 && len(s.Weeks) == 0
}

// Resolve finds everything the probe crosses. probeX is in content
// space. pointRadius and weekRadius widen the hit test around point
// markers and week gridlines. When a trial point and the bar belonging
// to the same activity are both hit, the bar is dropped so the activity
// is reported once.
func (g *Geometry) Resolve(probeX, pointRadius, weekRadius float64) Selection {
	var sel Selection
	hitActivities := map[int64]bool{}
	for i, p := range g.Points {
		if math.Abs(probeX-p.X) < pointRadius {
			sel.Points = append(sel.Points, i)
			if p.Activity.ID != 0 {
				hitActivities[p.Activity.ID] = true
			}
		}
	}
	for i, b := range g.Bars {
		if probeX < b.X || probeX >= b.X+b.Width {
			continue
		}
		if hitActivities[b.Activity.ID] {
			continue
		}
		sel.Bars = append(sel.Bars, i)
	}
	for i, w := range g.Weeks {
		if math.Abs(probeX-w.X) < weekRadius {
			sel.Weeks = append(sel.Weeks, i)
		}
	}
	return sel
}

// Describe renders the selection as the info panel's text, one line per
// entity. An empty selection yields an empty string so the caller can
// substitute its prompt. Indices beyond g's slices are skipped: a
// selection resolved against an earlier geometry never faults, though
// callers should drop such selections rather than reuse them.
func (s Selection) Describe(g *Geometry) string {
	var b strings.Builder
	for _, idx := range s.Points {
		if idx >= len(g.Points) {
			continue
		}
		p := g.Points[idx]
		switch p.Category {
		case CategoryTrial:
			fmt.Fprintf(&b, "Trial %s: %s (%s)\n", p.Date.Format("Jan 2"), p.Label, p.Activity.Name)
		default:
			fmt.Fprintf(&b, "%s %s: %s\n", p.Category, p.Date.Format("Jan 2"), p.Label)
		}
	}
	for _, idx := range s.Bars {
		if idx >= len(g.Bars) {
			continue
		}
		a := g.Bars[idx].Activity
		fmt.Fprintf(&b, "%s %s: %s, %.1f km", a.Day().Format("Jan 2"), a.Name, FormatClock(a.MovingTime), a.Distance/1000)
		if a.AvgHeartrate > 0 {
			fmt.Fprintf(&b, ", %.0f bpm", a.AvgHeartrate)
		}
		if a.SufferScore > 0 {
			fmt.Fprintf(&b, ", effort %.0f", a.SufferScore)
		}
		b.WriteByte('\n')
	}
	for _, idx := range s.Weeks {
		if idx >= len(g.Weeks) {
			continue
		}
		w := g.Weeks[idx]
		fmt.Fprintf(&b, "Week %d begins %s\n", w.Ordinal, w.Date.Format("Jan 2"))
	}
	return strings.TrimRight(b.String(), "\n")
}
