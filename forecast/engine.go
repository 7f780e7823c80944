package forecast

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"partsdemand/metrics"
	"partsdemand/utils"
)

// ErrEmptyHistory is returned when a series has no observations to fit.
var ErrEmptyHistory = errors.New("series has no history")

// Frequency steps a timestamp forward by whole periods.
type Frequency interface {
	Step(last time.Time, n int) time.Time
	String() string
}

// MonthStart is the monthly frequency anchored on the first day of the month.
type MonthStart struct{}

func (MonthStart) Step(last time.Time, n int) time.Time {
	return utils.AddMonths(last, n)
}

func (MonthStart) String() string { return "MS" }

// Monthly is the frequency used for monthly sales volume.
var Monthly Frequency = MonthStart{}

// Point is one forecast value.
type Point struct {
	UniqueID string
	DS       time.Time
	Value    float64
}

// Engine fits a model to every series of a frame. Series may be fitted in
// parallel; results are grouped per series in first-appearance order.
type Engine struct {
	frame   Frame
	model   Model
	freq    Frequency
	workers int
}

// NewEngine binds model to frame. workers <= 0 means one per CPU.
func NewEngine(frame Frame, model Model, freq Frequency, workers int) *Engine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{frame: frame, model: model, freq: freq, workers: workers}
}

// Model returns the bound model.
func (e *Engine) Model() Model {
	return e.model
}

type series struct {
	id   string
	last time.Time
	y    []float64
}

// split groups the frame per unique_id, ordering each series by timestamp.
func (e *Engine) split() []series {
	byID := make(map[string][]Row)
	for _, r := range e.frame.Rows {
		byID[r.UniqueID] = append(byID[r.UniqueID], r)
	}

	out := make([]series, 0, len(byID))
	for _, id := range e.frame.IDs() {
		rows := byID[id]
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].DS.Before(rows[j].DS) })

		y := make([]float64, len(rows))
		for i, r := range rows {
			y[i] = r.Y
		}
		out = append(out, series{id: id, last: rows[len(rows)-1].DS, y: y})
	}
	return out
}

// Forecast predicts h periods after the last observation of each series.
func (e *Engine) Forecast(ctx context.Context, h int) ([]Point, error) {
	if h <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d", h)
	}

	all := e.split()
	results := make([][]Point, len(all))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, s := range all {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			values, err := e.model.Forecast(s.y, h)
			if err != nil {
				metrics.ForecastSeries.WithLabelValues("error").Inc()
				return fmt.Errorf("forecast %s: %w", s.id, err)
			}
			points := make([]Point, h)
			for k, v := range values {
				points[k] = Point{UniqueID: s.id, DS: e.freq.Step(s.last, k+1), Value: v}
			}
			results[i] = points
			metrics.ForecastSeries.WithLabelValues("ok").Inc()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Point, 0, len(all)*h)
	for _, points := range results {
		out = append(out, points...)
	}
	return out, nil
}
