package progress

import (
	"math"
	"time"
)

// DragKind identifies which drag gesture, if any, is in flight.
type DragKind uint8

const (
	DragNone DragKind = iota
	DragProbe
	DragViewport
)

// DragState is the interaction controller's state between pointer
// events. The zero value is idle.
type DragState struct {
	Kind     DragKind
	StartX   float64 // pointer-down position, screen space
	StartPan float64 // pan offset captured at pointer-down
}

// PointerKind classifies a pointer event for the drag state machine.
type PointerKind uint8

const (
	PointerPress PointerKind = iota
	PointerMove
	PointerRelease
	PointerCancel
)

// PointerInput is one pointer or touch event reduced to the fields the
// drag state machine consumes.
type PointerInput struct {
	Kind  PointerKind
	X, Y  float64
	Touch bool
}

// DragEnv captures the per-frame geometry the state machine needs to
// interpret an event: where the probe knob sits, how large its hit box
// is, the plot's screen bounds, and the current pan limits.
type DragEnv struct {
	ProbeX, KnobY float64 // knob center, screen space
	ProbePad      float64 // knob hit-box half-size for mouse input
	TouchPad      float64 // enlarged half-size for touch input

	PlotLeft, PlotTop     float64
	PlotRight, PlotBottom float64

	Pan, Content, Viewport float64
	ClampMin, ClampMax     float64 // probe travel limits, screen space
}

// DragResult carries the state and values produced by one step of the
// machine. ProbeX and Pan echo the environment unless the event moved
// them.
type DragResult struct {
	State  DragState
	ProbeX float64
	Pan    float64
}

// StepDrag advances the interaction state machine by one pointer event.
// It is a pure function of its inputs; the caller applies the result.
//
// A press lands the probe drag when it falls inside the knob's padded
// hit box, with priority over the viewport drag when the two overlap.
// Pressing elsewhere inside the plot starts a viewport drag, but only
// while the content actually overflows the viewport.
func StepDrag(s DragState, in PointerInput, env DragEnv) DragResult {
	out := DragResult{State: s, ProbeX: env.ProbeX, Pan: env.Pan}
	switch in.Kind {
	case PointerPress:
		if s.Kind != DragNone {
			return out
		}
		pad := env.ProbePad
		if in.Touch {
			pad = env.TouchPad
		}
		if math.Abs(in.X-env.ProbeX) <= pad && math.Abs(in.Y-env.KnobY) <= pad {
			out.State = DragState{Kind: DragProbe, StartX: in.X, StartPan: env.Pan}
			return out
		}
		inPlot := in.X >= env.PlotLeft && in.X <= env.PlotRight &&
			in.Y >= env.PlotTop && in.Y <= env.PlotBottom
		if inPlot && env.Content > env.Viewport {
			out.State = DragState{Kind: DragViewport, StartX: in.X, StartPan: env.Pan}
		}
	case PointerMove:
		switch s.Kind {
		case DragProbe:
			out.ProbeX = clamp(in.X, env.ClampMin, env.ClampMax)
		case DragViewport:
			out.Pan = ClampPan(s.StartPan-(in.X-s.StartX), env.Content, env.Viewport)
		}
	case PointerRelease, PointerCancel:
		out.State = DragState{}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}

const (
	// WiggleDelay is how long the probe sits untouched before its idle
	// animation starts.
	WiggleDelay = 6 * time.Second

	wiggleAmp    = 4.0 // px
	wigglePeriod = 2.0 // seconds
)

// Wiggle returns the cosmetic offset applied to the probe's rendered X
// once idle time exceeds WiggleDelay. It never moves the probe's logical
// position.
func Wiggle(idle time.Duration) float64 {
	if idle < WiggleDelay {
		return 0
	}
	t := (idle - WiggleDelay).Seconds()
	return wiggleAmp * math.Sin(2*math.Pi*t/wigglePeriod)
}
