package plot

import (
	"io"

	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Options controls the rendered chart.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	Width  float64 // inches
	Height float64 // inches
}

// Render draws points as a line chart and saves it to path. The image
// format follows the file extension (png, svg, pdf, ...).
func Render(points []Point, opts Options, path string) error {
	p, err := build(points, opts)
	if err != nil {
		return err
	}
	return p.Save(vg.Length(opts.Width)*vg.Inch, vg.Length(opts.Height)*vg.Inch, path)
}

// WriteTo draws points as a line chart in the given format ("png", "svg", ...) to w.
func WriteTo(w io.Writer, points []Point, opts Options, format string) error {
	p, err := build(points, opts)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(vg.Length(opts.Width)*vg.Inch, vg.Length(opts.Height)*vg.Inch, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// build lays out the chart. An empty series still yields a chart with
// labelled axes.
func build(points []Point, opts Options) (*gonumplot.Plot, error) {
	p := gonumplot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel

	if len(points) == 0 {
		return p, nil
	}

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = pt.Time
		xys[i].Y = pt.Value
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	p.Add(line)
	return p, nil
}
