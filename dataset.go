package main

import "git.sr.ht/~pld/paceline/progress"

// Dataset is the UI's copy of the activity log. It is replaced wholesale
// when a load session emits new data; the generation counter lets
// consumers notice the swap without comparing slices.
type Dataset struct {
	Activities []progress.Activity
	Plan       progress.Plan
	generation uint64
}

func (d *Dataset) Initialized() bool {
	return d.generation != 0
}

// Replace swaps in a freshly loaded activity log.
func (d *Dataset) Replace(acts []progress.Activity) {
	d.Activities = acts
	d.generation++
}

// Generation identifies the currently held log; it changes on every
// Replace.
func (d *Dataset) Generation() uint64 {
	return d.generation
}
