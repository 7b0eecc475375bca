package main

import (
	"context"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// runPlot draws a bar chart of the scheme scores. The image format is
// chosen from the out file extension.
func runPlot(ctx context.Context, cfg config, fns []string, out string, summary *Summary) error {
	results, err := evaluate(ctx, cfg, fns, summary)
	if err != nil {
		return err
	}

	values := make(plotter.Values, len(results))
	names := make([]string, len(results))
	for i, r := range results {
		values[i] = r.Score
		names[i] = r.Scheme
	}

	p := plot.New()
	p.Title.Text = "Partitioning schemes"
	p.Y.Label.Text = strings.ToUpper(summary.Criterion)

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(names...)

	width := 4*vg.Inch + vg.Length(len(results))*vg.Centimeter
	if err := p.Save(width, 4*vg.Inch, out); err != nil {
		return err
	}
	log.Noticef("Plot saved to %s", out)
	return nil
}
