package main

import (
	"image/color"

	"git.sr.ht/~pld/paceline/progress"
)

// Category and chrome colors for the chart. The point colors double as
// the legend swatches.
var (
	startColor = color.NRGBA{R: 0x2b, G: 0x7f, B: 0xa8, A: 0xff} //#2b7fa8
	goalColor  = color.NRGBA{R: 0x51, G: 0x85, B: 0x4d, A: 0xff} //#51854d
	trialColor = color.NRGBA{R: 0xa4, G: 0x63, B: 0x3a, A: 0xff} //#a4633a
	barColor   = color.NRGBA{R: 0x72, G: 0x6c, B: 0xae, A: 0xb0} //#726cae
	lineColor  = color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff}
	gridColor  = color.NRGBA{A: 50}
	axisColor  = color.NRGBA{A: 255}
	probeColor = color.NRGBA{R: 0x85, G: 0x76, B: 0x25, A: 0xff} //#857625
	hoverHalo  = color.NRGBA{R: 0x85, G: 0x76, B: 0x25, A: 0x60}
)

func categoryColor(c progress.Category) color.NRGBA {
	switch c {
	case progress.CategoryStart:
		return startColor
	case progress.CategoryGoal:
		return goalColor
	default:
		return trialColor
	}
}
