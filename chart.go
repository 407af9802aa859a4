package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"time"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"golang.org/x/exp/constraints"

	"git.sr.ht/~pld/paceline/backend"
	"git.sr.ht/~pld/paceline/progress"
)

const (
	pointSize  = unit.Dp(10)
	knobSize   = unit.Dp(14)
	probePad   = unit.Dp(12)
	touchPad   = unit.Dp(24)
	weekRadius = unit.Dp(4)
	// labelBuffer extends the visible range when clipping axis labels so
	// they slide off screen instead of popping.
	labelBuffer = unit.Dp(40)
)

// ChartEngine renders the training timeline and owns all of its
// interaction state: the pan offset, the inspection probe, and the drag
// state machine that arbitrates between them. Geometry is recomputed
// only when the dataset, the view mode, or the surface size changes;
// every frame merely repaints it shifted by the current pan.
type ChartEngine struct {
	ds *Dataset

	// Recent toggles the zoomed recent-weeks view. The UI lays out the
	// checkbox; the engine reads the value.
	Recent widget.Bool

	geom     progress.Geometry
	rollups  []backend.WeekRollup
	lastGen  uint64
	lastSize image.Point
	mode     progress.ViewMode

	pan    float64
	probeX float64 // screen space
	probed bool    // probe has been placed at least once

	drag       progress.DragState
	lastTouch  time.Time
	sel        progress.Selection
	frozenSel  progress.Selection
	info       string
	hoveredAct int64

	panBar widget.Scrollbar
}

func NewChartEngine(ds *Dataset) *ChartEngine {
	return &ChartEngine{ds: ds}
}

func rec(gtx C, w layout.Widget) (D, op.CallOp) {
	macro := op.Record(gtx.Ops)
	dims := w(gtx)
	call := macro.Stop()
	return dims, call
}

func ceil[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Ceil(float64(a)))
}

// ensureGeometry reruns the data processor when anything it depends on
// has changed since the last frame. The old geometry stays in place
// until the new one is fully built, then is swapped out whole.
func (e *ChartEngine) ensureGeometry(size image.Point) {
	mode := progress.FullSpan
	if e.Recent.Value {
		mode = progress.RecentWindow
	}
	modeChanged := mode != e.mode
	if !modeChanged && size == e.lastSize && e.lastGen == e.ds.Generation() {
		return
	}
	if modeChanged {
		// The user pans from zero after every mode switch.
		e.pan = 0
		e.mode = mode
	}
	e.lastSize = size
	e.lastGen = e.ds.Generation()
	e.rollups = backend.Rollup(e.ds.Activities, e.ds.Plan)
	sf := progress.DefaultSurface(float64(size.X), float64(size.Y))
	e.geom = progress.Process(e.ds.Activities, e.ds.Plan, e.mode, sf)
	// Selections index the geometry they were resolved against; the
	// rebuild orphans them, including one frozen mid-drag by a watched
	// file rewrite.
	e.sel = progress.Selection{}
	e.frozenSel = progress.Selection{}
	e.pan = progress.ClampPan(e.pan, e.geom.Content, sf.Viewport())
	if bias := progress.CenterBias(e.geom.Bounds, sf); bias != 0 {
		e.pan = bias
	}
	lo, hi := e.probeLimits()
	if !e.probed {
		e.probeX = (lo + hi) / 2
		e.probed = true
	}
	e.probeX = clampF(e.probeX, lo, hi)
}

// probeLimits returns the probe's legal travel in screen space: it may
// not leave the viewport, the padding, or the content's actual extent.
func (e *ChartEngine) probeLimits() (lo, hi float64) {
	sf := e.geom.Surface
	lo = sf.PadLeft
	hi = sf.Width - sf.PadRight
	if e.geom.Bounds.OK {
		lo = max(lo, e.geom.Bounds.MinX-e.pan)
		hi = min(hi, e.geom.Bounds.MaxX-e.pan)
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func clampF(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

func (e *ChartEngine) dragEnv(gtx C) progress.DragEnv {
	sf := e.geom.Surface
	lo, hi := e.probeLimits()
	return progress.DragEnv{
		ProbeX:     e.probeX,
		KnobY:      sf.Baseline(),
		ProbePad:   float64(gtx.Dp(probePad)),
		TouchPad:   float64(gtx.Dp(touchPad)),
		PlotLeft:   sf.PadLeft,
		PlotTop:    sf.PadTop,
		PlotRight:  sf.Width - sf.PadRight,
		PlotBottom: sf.Baseline(),
		Pan:        e.pan,
		Content:    e.geom.Content,
		Viewport:   sf.Viewport(),
		ClampMin:   lo,
		ClampMax:   hi,
	}
}

func (e *ChartEngine) Update(gtx C) {
	e.Recent.Update(gtx)
	e.ensureGeometry(gtx.Constraints.Max)
	sf := e.geom.Surface
	if dist := e.panBar.ScrollDistance(); dist != 0 {
		e.pan = progress.ClampPan(e.pan+float64(dist)*e.geom.Content, e.geom.Content, sf.Viewport())
		e.lastTouch = gtx.Now
	}
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: e,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel,
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		in := progress.PointerInput{
			X:     float64(pe.Position.X),
			Y:     float64(pe.Position.Y),
			Touch: pe.Source == pointer.Touch,
		}
		switch pe.Kind {
		case pointer.Press:
			in.Kind = progress.PointerPress
		case pointer.Drag:
			in.Kind = progress.PointerMove
		case pointer.Release:
			in.Kind = progress.PointerRelease
		case pointer.Cancel:
			in.Kind = progress.PointerCancel
		}
		res := progress.StepDrag(e.drag, in, e.dragEnv(gtx))
		e.drag = res.State
		e.probeX = res.ProbeX
		e.pan = res.Pan
		e.lastTouch = gtx.Now
	}

	// Hover state freezes while the viewport is being dragged so the
	// info panel doesn't flicker as content slides under the probe.
	if e.drag.Kind == progress.DragViewport {
		e.sel = e.frozenSel
	} else {
		e.sel = e.geom.Resolve(
			e.probeX+e.pan,
			float64(gtx.Dp(pointSize))/2,
			float64(gtx.Dp(weekRadius)),
		)
		e.frozenSel = e.sel
	}
	e.info = e.sel.Describe(&e.geom)
	for _, idx := range e.sel.Weeks {
		ord := e.geom.Weeks[idx].Ordinal
		if ord < 1 || ord > len(e.rollups) {
			continue
		}
		r := e.rollups[ord-1]
		if r.Sessions == 0 {
			continue
		}
		e.info += fmt.Sprintf("\nW%d totals: %d sessions, %.1f km, %s",
			ord, r.Sessions, r.Distance/1000, progress.FormatClock(r.MovingTime))
	}
	e.hoveredAct = 0
	for _, idx := range e.sel.Points {
		if id := e.geom.Points[idx].Activity.ID; id != 0 {
			e.hoveredAct = id
			break
		}
	}
	if e.hoveredAct == 0 && len(e.sel.Bars) > 0 {
		e.hoveredAct = e.geom.Bars[e.sel.Bars[0]].Activity.ID
	}
}

// Info returns the hover description for the UI's info panel; empty when
// nothing is under the probe.
func (e *ChartEngine) Info() string {
	return e.info
}

// HoveredActivity returns the id of the activity currently under the
// probe, or zero.
func (e *ChartEngine) HoveredActivity() int64 {
	return e.hoveredAct
}

func (e *ChartEngine) Layout(gtx C, th *material.Theme) D {
	e.Update(gtx)
	size := gtx.Constraints.Max
	sf := e.geom.Surface

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, e)

	buffer := float64(gtx.Dp(labelBuffer))
	visible := func(x float64) bool {
		return x >= sf.PadLeft-buffer && x <= sf.Width-sf.PadRight+buffer
	}

	e.layoutAxis(gtx, th, visible)
	e.layoutBars(gtx)
	e.layoutLines(gtx)
	e.layoutPoints(gtx, th, visible)
	e.layoutProbe(gtx)
	e.layoutLegend(gtx, th)
	e.layoutPanBar(gtx, th)

	if e.drag.Kind != progress.DragNone {
		gtx.Execute(op.InvalidateCmd{})
	} else if gtx.Now.Sub(e.lastTouch) >= progress.WiggleDelay {
		gtx.Execute(op.InvalidateCmd{})
	} else {
		gtx.Execute(op.InvalidateCmd{At: e.lastTouch.Add(progress.WiggleDelay)})
	}
	return D{Size: size}
}

// layoutAxis draws the baseline, the week gridlines with their ordinals,
// and (zoomed in) per-day labels. Labels outside the buffered visible
// range are skipped entirely.
func (e *ChartEngine) layoutAxis(gtx C, th *material.Theme, visible func(float64) bool) {
	sf := e.geom.Surface
	oneDp := gtx.Dp(1)
	baseline := int(sf.Baseline())
	paint.FillShape(gtx.Ops, axisColor, clip.Rect{
		Min: image.Pt(int(sf.PadLeft), baseline),
		Max: image.Pt(int(sf.Width-sf.PadRight), baseline+oneDp),
	}.Op())

	for _, w := range e.geom.Weeks {
		x := w.X - e.pan
		if !visible(x) {
			continue
		}
		paint.FillShape(gtx.Ops, gridColor, clip.Rect{
			Min: image.Pt(int(x), int(sf.PadTop)),
			Max: image.Pt(int(x)+oneDp, baseline),
		}.Op())
		e.layoutLabelAt(gtx, th, "W"+strconv.Itoa(w.Ordinal), x, float64(baseline)+2)
	}
	if e.mode == progress.RecentWindow {
		for _, d := range e.geom.Days {
			x := d.X - e.pan
			if !visible(x) {
				continue
			}
			paint.FillShape(gtx.Ops, gridColor, clip.Rect{
				Min: image.Pt(int(x), baseline-gtx.Dp(4)),
				Max: image.Pt(int(x)+oneDp, baseline),
			}.Op())
			e.layoutLabelAt(gtx, th, d.Name, x+e.geom.Mapper.DayWidth()/2, float64(baseline)+float64(gtx.Sp(14)))
		}
	}
	for _, end := range []time.Time{e.geom.Mapper.Range.Start, e.geom.Mapper.Range.Goal} {
		if x := e.geom.Mapper.X(end) - e.pan; visible(x) {
			e.layoutLabelAt(gtx, th, end.Format("Jan 2"), x, float64(baseline)+float64(gtx.Sp(14)))
		}
	}
}

// layoutLabelAt centers a small label horizontally on x with its top at
// y.
func (e *ChartEngine) layoutLabelAt(gtx C, th *material.Theme, s string, x, y float64) {
	l := material.Body2(th, s)
	l.MaxLines = 1
	orig := gtx.Constraints
	gtx.Constraints.Min = image.Point{}
	dims, call := rec(gtx, l.Layout)
	gtx.Constraints = orig
	offset := op.Offset(image.Pt(int(x)-dims.Size.X/2, int(y))).Push(gtx.Ops)
	call.Add(gtx.Ops)
	offset.Pop()
}

// consecutiveDays reports whether b is the calendar day after a.
// Subtracting the midnight instants would misread DST days, which run
// 23 or 25 hours.
func consecutiveDays(a, b time.Time) bool {
	return a.AddDate(0, 0, 1).Equal(b)
}

// layoutBars paints the daily training volume band. Bars on consecutive
// calendar days are bridged into one shape by extending each bar's right
// edge to meet its neighbor.
func (e *ChartEngine) layoutBars(gtx C) {
	bars := e.geom.Bars
	baseline := e.geom.Surface.Baseline()
	for i, b := range bars {
		x := b.X - e.pan
		wd := b.Width
		if i+1 < len(bars) && consecutiveDays(b.Day, bars[i+1].Day) {
			wd = bars[i+1].X - b.X
		}
		if x+wd < 0 || x > e.geom.Surface.Width {
			continue
		}
		col := barColor
		for _, idx := range e.sel.Bars {
			if bars[idx].Activity.ID == b.Activity.ID {
				col = probeColor
				break
			}
		}
		paint.FillShape(gtx.Ops, col, clip.Rect{
			Min: image.Pt(int(x), int(baseline-b.Lift-b.Height)),
			Max: image.Pt(int(ceil(x+wd)), int(baseline-b.Lift)),
		}.Op())
	}
}

// layoutLines connects chronologically adjacent points. The segment into
// the goal switches to a dashed style when the prior result falls in the
// goal's week or the week before, and is dropped entirely when the gap
// is wider, so the chart never extrapolates a trajectory it has no data
// for.
func (e *ChartEngine) layoutLines(gtx C) {
	pts := e.geom.Points
	width := float32(gtx.Dp(2))
	for i := 1; i < len(pts); i++ {
		prev, cur := pts[i-1], pts[i]
		a := f32.Pt(float32(prev.X-e.pan), float32(prev.Y))
		b := f32.Pt(float32(cur.X-e.pan), float32(cur.Y))
		if cur.Category == progress.CategoryGoal {
			weeksApart := e.ds.Plan.WeekIndex(cur.Date) - e.ds.Plan.WeekIndex(prev.Date)
			if weeksApart > 1 {
				continue
			}
			dashedLine(gtx.Ops, a, b, width, lineColor)
			continue
		}
		solidLine(gtx.Ops, a, b, width, lineColor)
	}
}

func solidLine(ops *op.Ops, a, b f32.Point, width float32, col color.NRGBA) {
	var p clip.Path
	p.Begin(ops)
	p.MoveTo(a)
	p.LineTo(b)
	stack := clip.Stroke{Path: p.End(), Width: width}.Op().Push(ops)
	paint.Fill(ops, col)
	stack.Pop()
}

func dashedLine(ops *op.Ops, a, b f32.Point, width float32, col color.NRGBA) {
	delta := b.Sub(a)
	length := float32(math.Hypot(float64(delta.X), float64(delta.Y)))
	if length == 0 {
		return
	}
	const dash, gap = 6, 4
	step := delta.Mul((dash + gap) / length)
	seg := delta.Mul(dash / length)
	n := int(length / (dash + gap))
	var p clip.Path
	p.Begin(ops)
	at := a
	for i := 0; i <= n; i++ {
		end := at.Add(seg)
		if i == n {
			end = b
		}
		p.MoveTo(at)
		p.LineTo(end)
		at = at.Add(step)
	}
	stack := clip.Stroke{Path: p.End(), Width: width}.Op().Push(ops)
	paint.Fill(ops, col)
	stack.Pop()
}

func (e *ChartEngine) layoutPoints(gtx C, th *material.Theme, visible func(float64) bool) {
	r := float64(gtx.Dp(pointSize)) / 2
	for i, p := range e.geom.Points {
		x := p.X - e.pan
		if !visible(x) {
			continue
		}
		hovered := false
		for _, idx := range e.sel.Points {
			if idx == i {
				hovered = true
				break
			}
		}
		if hovered {
			halo := r * 1.8
			paint.FillShape(gtx.Ops, hoverHalo, clip.Ellipse{
				Min: image.Pt(int(x-halo), int(p.Y-halo)),
				Max: image.Pt(int(x+halo), int(p.Y+halo)),
			}.Op(gtx.Ops))
		}
		paint.FillShape(gtx.Ops, categoryColor(p.Category), clip.Ellipse{
			Min: image.Pt(int(x-r), int(p.Y-r)),
			Max: image.Pt(int(x+r), int(p.Y+r)),
		}.Op(gtx.Ops))
		if p.Category != progress.CategoryTrial || hovered {
			e.layoutLabelAt(gtx, th, p.Label, x, p.Y-r-float64(gtx.Sp(16)))
		}
	}
}

// layoutProbe draws the dashed inspection line spanning the vertical
// extent of visible data, plus the draggable knob with its idle wiggle.
// The wiggle perturbs only the rendered position, never the logical one.
func (e *ChartEngine) layoutProbe(gtx C) {
	sf := e.geom.Surface
	baseline := sf.Baseline()
	top := baseline
	for _, p := range e.geom.Points {
		x := p.X - e.pan
		if x >= sf.PadLeft && x <= sf.Width-sf.PadRight {
			top = min(top, p.Y)
		}
	}
	if top == baseline {
		top = sf.PadTop
	}

	wiggle := 0.0
	if e.drag.Kind == progress.DragNone {
		wiggle = progress.Wiggle(gtx.Now.Sub(e.lastTouch))
	}
	x := e.probeX + wiggle
	dashedLine(gtx.Ops,
		f32.Pt(float32(x), float32(top)),
		f32.Pt(float32(x), float32(baseline)),
		float32(gtx.Dp(1)), probeColor)

	k := float64(gtx.Dp(knobSize)) / 2
	paint.FillShape(gtx.Ops, probeColor, clip.Ellipse{
		Min: image.Pt(int(x-k), int(baseline-k)),
		Max: image.Pt(int(x+k), int(baseline+k)),
	}.Op(gtx.Ops))
}

func (e *ChartEngine) layoutLegend(gtx C, th *material.Theme) {
	type entry struct {
		col  color.NRGBA
		name string
	}
	entries := []entry{
		{startColor, "Start"},
		{trialColor, "Trial"},
		{goalColor, "Goal"},
		{barColor, "Training"},
	}
	children := make([]layout.FlexChild, 0, len(entries)*2)
	for _, en := range entries {
		en := en
		children = append(children,
			layout.Rigid(func(gtx C) D {
				size := image.Pt(gtx.Dp(8), gtx.Dp(8))
				paint.FillShape(gtx.Ops, en.col, clip.Ellipse{Max: size}.Op(gtx.Ops))
				return D{Size: size}
			}),
			layout.Rigid(func(gtx C) D {
				l := material.Body2(th, en.name)
				l.MaxLines = 1
				return layout.Inset{Left: 2, Right: 8}.Layout(gtx, l.Layout)
			}),
		)
	}
	orig := gtx.Constraints
	gtx.Constraints.Min = image.Point{}
	macro := op.Record(gtx.Ops)
	dims := layout.Flex{Alignment: layout.Middle}.Layout(gtx, children...)
	call := macro.Stop()
	gtx.Constraints = orig
	offset := op.Offset(image.Pt(
		gtx.Constraints.Max.X-dims.Size.X-gtx.Dp(8),
		gtx.Dp(4),
	)).Push(gtx.Ops)
	call.Add(gtx.Ops)
	offset.Pop()
}

// layoutPanBar overlays a thin scrollbar along the bottom edge whenever
// the content overflows the viewport; its input runs through the same
// pan clamp as dragging.
func (e *ChartEngine) layoutPanBar(gtx C, th *material.Theme) {
	sf := e.geom.Surface
	if e.geom.Content <= sf.Viewport() {
		return
	}
	vpStart := float32(e.pan / e.geom.Content)
	vpEnd := float32((e.pan + sf.Viewport()) / e.geom.Content)
	scrollbar := material.Scrollbar(th, &e.panBar)
	scrollbar.Track.MajorPadding = 0
	scrollbar.Track.MinorPadding = 0
	scrollbar.Indicator.CornerRadius = 0
	scrollbar.Indicator.Color.A = 100
	defer op.Offset(image.Pt(0, gtx.Constraints.Max.Y-gtx.Dp(8))).Push(gtx.Ops).Pop()
	gtx.Constraints.Max.Y = gtx.Dp(8)
	scrollbar.Layout(gtx, layout.Horizontal, vpStart, vpEnd)
}
