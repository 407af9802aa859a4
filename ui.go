package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"

	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"github.com/cli/browser"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"git.sr.ht/~pld/paceline/backend"
	"git.sr.ht/~pld/paceline/export"
	"git.sr.ht/~pld/paceline/progress"
)

var openIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.FileFolderOpen)
	return icon
}()

var exportIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.ContentSave)
	return icon
}()

var browserIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.ActionOpenInBrowser)
	return icon
}()

type (
	C = layout.Context
	D = layout.Dimensions
)

const (
	tabChart = "chart"
	tabWeeks = "weeks"
)

const infoPrompt = "Drag the slider across the chart to inspect your training."

// UI is responsible for holding the state of and drawing the top-level
// UI: the chart tab, the weekly summary tab, the toolbar, and the info
// and status lines beneath the chart.
type UI struct {
	ws   backend.WindowState
	expl *explorer.Explorer
	ds   Dataset

	chart *ChartEngine
	weeks *Weeks
	tab   widget.Enum

	sampleBtn   widget.Clickable
	explorerBtn widget.Clickable
	exportBtn   widget.Clickable
	stravaBtn   widget.Clickable
	loadErr     string

	th            *material.Theme
	sessionStream *stream.Stream[backend.Session]
	session       backend.Session
}

func NewUI(ws backend.WindowState, expl *explorer.Explorer, plan progress.Plan) (*UI, error) {
	if ws.Bundle.Datasource == nil {
		return nil, errors.New("ui requires a datasource")
	}
	if !plan.Range().Goal.After(plan.Range().Start) {
		return nil, fmt.Errorf("plan ends %v before it starts %v", plan.GoalDate, plan.StartDate)
	}
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	ui := &UI{
		ws:   ws,
		th:   th,
		expl: expl,
		tab:  widget.Enum{Value: tabChart},
	}
	ui.ds.Plan = plan
	ui.chart = NewChartEngine(&ui.ds)
	ui.weeks = NewWeeks(&ui.ds)
	return ui, nil
}

func (ui *UI) watchSession(mut *stream.Mutation[backend.Session]) {
	ui.sessionStream = stream.New(ui.ws.Controller, mut.Stream)
}

// Update the state of the UI and generate events. Runs once per frame
// before anything is painted.
func (ui *UI) Update(gtx C) {
	if ui.sessionStream != nil {
		if session, isNew := ui.sessionStream.ReadNew(gtx); isNew {
			ui.session = session
			if session.Err == nil {
				ui.ds.Replace(session.Activities)
			}
		}
	}
	ui.tab.Update(gtx)
	if ui.explorerBtn.Clicked(gtx) {
		mut, err := ui.ws.Bundle.Datasource.LoadFromFile(ui.expl)
		if err != nil {
			ui.loadErr = err.Error()
		} else {
			ui.loadErr = ""
			ui.watchSession(mut)
		}
	}
	if ui.sampleBtn.Clicked(gtx) {
		if mut, ok := ui.ws.Bundle.Datasource.LoadSample(ui.ds.Plan); ok {
			ui.loadErr = ""
			ui.watchSession(mut)
		}
	}
	if ui.exportBtn.Clicked(gtx) {
		ui.exportReport()
	}
	if ui.stravaBtn.Clicked(gtx) {
		if id := ui.chart.HoveredActivity(); id != 0 {
			url := "https://www.strava.com/activities/" + strconv.FormatInt(id, 10)
			if err := browser.OpenURL(url); err != nil {
				log.Warnf("unable to open %s: %v", url, err)
			}
		}
	}
}

type TabStyle struct {
	state  *widget.Enum
	label  material.LabelStyle
	border widget.Border
	inset  layout.Inset
	value  string
	fill   color.NRGBA
}

func Tab(th *material.Theme, state *widget.Enum, value, display string) TabStyle {
	selected := state.Value == value
	ts := TabStyle{
		state: state,
		label: material.Body1(th, display),
		inset: layout.UniformInset(2),
		border: widget.Border{
			Width: 2,
			Color: th.ContrastBg,
		},
		value: value,
	}
	ts.label.Alignment = text.Middle
	if selected {
		ts.label.Color = th.ContrastFg
		ts.fill = th.ContrastBg
	}
	return ts
}

func (t TabStyle) Layout(gtx C) D {
	return t.inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return t.border.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return t.inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return t.state.Layout(gtx, t.value, func(gtx layout.Context) layout.Dimensions {
					return layout.Background{}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						paint.FillShape(gtx.Ops, t.fill, clip.Rect{Max: gtx.Constraints.Min}.Op())
						return D{Size: gtx.Constraints.Min}
					}, t.label.Layout)
				})
			})
		})
	})
}

// exportReport writes the shareable HTML report to a user-chosen file.
func (ui *UI) exportReport() {
	f, err := ui.expl.CreateFile("paceline.html")
	if err != nil {
		ui.loadErr = err.Error()
		return
	}
	geom := progress.Process(ui.ds.Activities, ui.ds.Plan, progress.FullSpan,
		progress.DefaultSurface(exportWidth, exportHeight))
	err = export.WriteHTML(geom, ui.ds.Plan, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		ui.loadErr = err.Error()
		return
	}
	ui.loadErr = ""
}

func (ui *UI) iconButton(gtx C, btn *widget.Clickable, icon *widget.Icon, enabled bool) D {
	col := ui.th.Fg
	if !enabled {
		gtx = gtx.Disabled()
		col.A = 100
	}
	side := gtx.Dp(26)
	gtx.Constraints = layout.Exact(image.Pt(side, side))
	return material.Clickable(gtx, btn, func(gtx C) D {
		return layout.UniformInset(2).Layout(gtx, func(gtx C) D {
			return icon.Layout(gtx, col)
		})
	})
}

func (ui *UI) layoutToolbar(gtx C) D {
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(material.CheckBox(ui.th, &ui.chart.Recent, "Recent weeks").Layout),
		layout.Rigid(layout.Spacer{Width: 8}.Layout),
		layout.Rigid(func(gtx C) D {
			return ui.iconButton(gtx, &ui.explorerBtn, openIcon, true)
		}),
		layout.Rigid(func(gtx C) D {
			return ui.iconButton(gtx, &ui.exportBtn, exportIcon, ui.ds.Initialized())
		}),
		layout.Rigid(func(gtx C) D {
			return ui.iconButton(gtx, &ui.stravaBtn, browserIcon, ui.chart.HoveredActivity() != 0)
		}),
		layout.Flexed(1, func(gtx C) D {
			return D{Size: gtx.Constraints.Min}
		}),
	)
}

func (ui *UI) layoutStatusLine(gtx C) D {
	status := ui.session.Status()
	msg := status.String()
	if ui.loadErr != "" {
		msg = ui.loadErr
	}
	l := material.Body2(ui.th, msg)
	if status.Err != nil || ui.loadErr != "" {
		l.Color = color.NRGBA{R: 150, A: 255}
	}
	return l.Layout(gtx)
}

func (ui *UI) layoutInfoPanel(gtx C) D {
	info := ui.chart.Info()
	if info == "" {
		info = infoPrompt
	}
	return layout.UniformInset(4).Layout(gtx, material.Body1(ui.th, info).Layout)
}

func (ui *UI) layoutMainArea(gtx C) D {
	return layout.Flex{
		Axis: layout.Vertical,
	}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{}.Layout(gtx,
				layout.Flexed(1, Tab(ui.th, &ui.tab, tabChart, "Chart").Layout),
				layout.Flexed(1, Tab(ui.th, &ui.tab, tabWeeks, "Weeks").Layout),
			)
		}),
		layout.Rigid(ui.layoutToolbar),
		layout.Rigid(ui.layoutStatusLine),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			if ui.tab.Value == tabChart {
				return ui.chart.Layout(gtx, ui.th)
			}
			return ui.weeks.Layout(gtx, ui.th)
		}),
		layout.Rigid(func(gtx C) D {
			if ui.tab.Value != tabChart {
				return D{}
			}
			return ui.layoutInfoPanel(gtx)
		}),
	)
}

func (ui *UI) layoutStartScreen(gtx C) D {
	l := material.Body1(ui.th, "No activities loaded yet.")
	return layout.Flex{
		Axis:      layout.Vertical,
		Alignment: layout.Middle,
		Spacing:   layout.SpaceAround,
	}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Min = image.Point{}
			return l.Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Button(ui.th, &ui.explorerBtn, "Open Activity Log").Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Button(ui.th, &ui.sampleBtn, "Generate Sample Log").Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Body2(ui.th, ui.loadErr).Layout(gtx)
		}),
	)
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	if ui.ds.Initialized() {
		return ui.layoutMainArea(gtx)
	}
	return ui.layoutStartScreen(gtx)
}
