package chart

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Image size of a rendered chart.
const (
	Width  = 10 * vg.Inch
	Height = 5 * vg.Inch
)

// fixedTicks places labels at the figure's precomputed ticks.
type fixedTicks []Tick

func (f fixedTicks) Ticks(_, _ float64) []plot.Tick {
	out := make([]plot.Tick, 0, len(f))
	for _, t := range f {
		out = append(out, plot.Tick{Value: float64(t.At.Unix()), Label: t.Label})
	}
	return out
}

// Plot converts the figure to a gonum plot.
func Plot(fig Figure) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Monthly sales volume"
	p.X.Label.Text = "date"
	p.Y.Label.Text = "volume"
	p.X.Tick.Marker = fixedTicks(fig.Ticks)
	p.X.Tick.Label.Rotation = 0.6
	p.Legend.Top = true

	for i, s := range fig.Series {
		if len(s.X) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(s.X))
		for j := range s.X {
			pts[j].X = float64(s.X[j].Unix())
			pts[j].Y = float64(s.Y[j])
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	return p, nil
}

// Render draws the figure as PNG to w.
func Render(fig Figure, w io.Writer) error {
	p, err := Plot(fig)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return fmt.Errorf("create png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
