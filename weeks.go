package main

import (
	"fmt"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget/material"
	"gioui.org/x/component"

	"git.sr.ht/~pld/paceline/backend"
	"git.sr.ht/~pld/paceline/progress"
)

// Weeks summarizes the training log one row per plan week.
type Weeks struct {
	ds    *Dataset
	table component.GridState

	rollups []backend.WeekRollup
	lastGen uint64
}

func NewWeeks(ds *Dataset) *Weeks {
	return &Weeks{ds: ds}
}

func (w *Weeks) update() {
	if w.lastGen == w.ds.Generation() && w.rollups != nil {
		return
	}
	w.lastGen = w.ds.Generation()
	w.rollups = backend.Rollup(w.ds.Activities, w.ds.Plan)
}

const (
	weekCol = iota
	beginsCol
	sessionsCol
	distanceCol
	timeCol
	trialCol
	numWeekCols
)

func (w *Weeks) Layout(gtx C, th *material.Theme) D {
	w.update()
	tbl := component.Table(th, &w.table)
	tbl.HScrollbarStyle.Indicator.MinorWidth = 0
	tbl.HScrollbarStyle.Track.MinorPadding = 0
	tbl.VScrollbarStyle.Indicator.MinorWidth = 0
	tbl.VScrollbarStyle.Track.MinorPadding = 0
	narrowColWidth := gtx.Dp(70)
	wideColWidth := gtx.Dp(110)
	rowHeight := gtx.Sp(20)
	return tbl.Layout(gtx, len(w.rollups), numWeekCols,
		func(axis layout.Axis, index, constraint int) int {
			if axis == layout.Vertical {
				return min(constraint, rowHeight)
			}
			switch index {
			case weekCol, sessionsCol:
				return min(narrowColWidth, constraint)
			default:
				return min(wideColWidth, constraint)
			}
		},
		func(gtx layout.Context, index int) layout.Dimensions {
			l := material.Body1(th, "")
			switch index {
			case weekCol:
				l.Text = "Week"
			case beginsCol:
				l.Text = "Begins"
			case sessionsCol:
				l.Text = "Sessions"
			case distanceCol:
				l.Text = "Distance"
				l.Alignment = text.End
			case timeCol:
				l.Text = "Time"
				l.Alignment = text.End
			case trialCol:
				l.Text = "Best Trial"
				l.Alignment = text.End
			}
			l.Color = th.ContrastFg
			l.MaxLines = 1
			return layout.Background{}.Layout(gtx,
				func(gtx layout.Context) layout.Dimensions {
					paint.FillShape(gtx.Ops, th.ContrastBg, clip.Rect{Max: gtx.Constraints.Min}.Op())
					return D{Size: gtx.Constraints.Min}
				},
				l.Layout,
			)
		},
		func(gtx layout.Context, row, col int) (dims layout.Dimensions) {
			defer func() {
				dims.Size = gtx.Constraints.Constrain(dims.Size)
			}()
			r := w.rollups[row]
			dims = layout.UniformInset(2).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				l := material.Body2(th, "")
				l.MaxLines = 1
				switch col {
				case weekCol:
					l.Text = fmt.Sprintf("W%d", r.Ordinal)
				case beginsCol:
					l.Text = r.Start.Format("Jan 2")
				case sessionsCol:
					l.Text = fmt.Sprintf("%d", r.Sessions)
				case distanceCol:
					l.Text = fmt.Sprintf("%.1f km", r.Distance/1000)
					l.Alignment = text.End
				case timeCol:
					l.Text = progress.FormatClock(r.MovingTime)
					l.Alignment = text.End
				case trialCol:
					if r.BestTrial > 0 {
						l.Text = progress.FormatClock(r.BestTrial)
					} else {
						l.Text = "-"
					}
					l.Alignment = text.End
				}
				return l.Layout(gtx)
			})
			if row&1 != 0 {
				bg := th.ContrastBg
				bg.A = 30
				paint.FillShape(gtx.Ops, bg, clip.Rect{Max: gtx.Constraints.Max}.Op())
			}
			return dims
		})
}
