package export

import (
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"git.sr.ht/~pld/paceline/progress"
)

// WritePlot renders p to output in the given format ("png" or "svg").
func WritePlot(p *plot.Plot, width, height vg.Length, output io.Writer, format string) error {
	w, err := p.WriterTo(width, height, format)
	if err != nil {
		return err
	}
	_, err = w.WriteTo(output)
	return err
}

// combineErrors folds the non-nil arguments into one error, so a write
// failure and the close failure behind it both reach the caller.
func combineErrors(errs ...error) error {
	var combined *multierror.Error
	for _, e := range errs {
		combined = multierror.Append(combined, e)
	}
	return combined.ErrorOrNil()
}

// WriteClosePlot renders p to output and closes it either way.
func WriteClosePlot(p *plot.Plot, width, height vg.Length, output io.WriteCloser, format string) error {
	err := WritePlot(p, width, height, output, format)
	return combineErrors(err, output.Close())
}

// SavePlot renders p to a new file at path.
func SavePlot(p *plot.Plot, width, height vg.Length, path string, format string) error {
	output, err := os.Create(path)
	if err != nil {
		return err
	}
	return WriteClosePlot(p, width, height, output, format)
}

// SaveHTML writes the interactive HTML report to path.
func SaveHTML(g progress.Geometry, plan progress.Plan, path string) error {
	output, err := os.Create(path)
	if err != nil {
		return err
	}
	return combineErrors(WriteHTML(g, plan, output), output.Close())
}
