// Package forecast turns selected sales series into a demand forecast CSV:
// format the table, bind an engine to it, forecast and serialize.
package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/juju/clock"

	"partsdemand/cache"
	"partsdemand/metrics"
	"partsdemand/models"
	"partsdemand/sales"
)

// FileName is the download name of a forecast.
const FileName = "predictions.csv"

// TableReader provides the current sales table.
type TableReader interface {
	Table(ctx context.Context) (*sales.Table, error)
}

// Orchestrator coordinates the forecast pipeline and keeps finished results
// until they are downloaded.
type Orchestrator struct {
	tables  TableReader
	model   Model
	workers int
	results *cache.Cache[string, *models.ForecastResult]
	clock   clock.Clock
}

// NewOrchestrator forecasts with model over tables. Results live for
// resultTTL or until downloaded. A nil clock means the wall clock.
func NewOrchestrator(tables TableReader, model Model, workers int, resultTTL time.Duration, clk clock.Clock) *Orchestrator {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Orchestrator{
		tables:  tables,
		model:   model,
		workers: workers,
		results: cache.New[string, *models.ForecastResult](resultTTL, clk),
		clock:   clk,
	}
}

// Predict runs format, engine and forecast for req and returns the CSV.
// The horizon is expected to be validated by the caller.
func (o *Orchestrator) Predict(ctx context.Context, req models.ForecastRequest) ([]byte, error) {
	points, err := o.Points(ctx, req)
	if err != nil {
		return nil, err
	}
	return WriteCSV(points, o.model.Name())
}

// Points runs the pipeline up to the forecast table.
func (o *Orchestrator) Points(ctx context.Context, req models.ForecastRequest) ([]Point, error) {
	start := time.Now()
	defer func() { metrics.ForecastDuration.Observe(time.Since(start).Seconds()) }()

	table, err := o.tables.Table(ctx)
	if err != nil {
		return nil, err
	}

	frame := Format(table, req.ProductIDs)

	present := make(map[string]bool)
	for _, id := range frame.IDs() {
		present[id] = true
	}
	for _, id := range req.ProductIDs {
		if !present[id] {
			return nil, fmt.Errorf("forecast %s: %w", id, ErrEmptyHistory)
		}
	}

	engine := NewEngine(frame, o.model, Monthly, o.workers)
	points, err := engine.Forecast(ctx, req.Horizon)
	if err != nil {
		return nil, err
	}

	log.Infof("📈 [FORECAST] %d series, horizon %d, %d rows in %s", len(frame.IDs()), req.Horizon, len(points), time.Since(start))
	return points, nil
}

// Run computes a forecast and stores it for download.
func (o *Orchestrator) Run(ctx context.Context, req models.ForecastRequest) (*models.ForecastResult, error) {
	points, err := o.Points(ctx, req)
	if err != nil {
		return nil, err
	}
	data, err := WriteCSV(points, o.model.Name())
	if err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	result := &models.ForecastResult{
		ID:          uuid.NewString(),
		ProductIDs:  req.ProductIDs,
		Horizon:     req.Horizon,
		Rows:        len(points),
		CSV:         data,
		GeneratedAt: o.clock.Now(),
	}
	o.results.Set(result.ID, result)
	return result, nil
}

// Download returns a stored result and forgets it.
func (o *Orchestrator) Download(id string) (*models.ForecastResult, error) {
	return o.results.Take(id)
}

// Janitor drops expired results until ctx is done.
func (o *Orchestrator) Janitor(ctx context.Context, interval time.Duration) {
	o.results.Janitor(ctx, interval)
}
