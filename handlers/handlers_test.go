package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsdemand/forecast"
	"partsdemand/insight"
	"partsdemand/models"
	"partsdemand/sales"
)

type stubTables struct {
	table *sales.Table
}

func (s *stubTables) Table(ctx context.Context) (*sales.Table, error)   { return s.table, nil }
func (s *stubTables) Refresh(ctx context.Context) (*sales.Table, error) { return s.table, nil }
func (s *stubTables) FetchedAt() time.Time                              { return time.Time{} }
func (s *stubTables) Stale() bool                                       { return true }
func (s *stubTables) SourceName() string                                { return "stub" }

type stubGenerator struct {
	reply  string
	err    error
	prompt string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.reply, g.err
}

func stubTable() *sales.Table {
	return sales.NewTable([]models.SalesRecord{
		{ID: 1, PartsID: "P1", Date: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), Volume: 4},
		{ID: 2, PartsID: "P1", Date: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), Volume: 0},
		{ID: 3, PartsID: "P1", Date: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), Volume: 4},
	})
}

func insightApp(gen insight.Generator) *fiber.App {
	tables := &stubTables{table: stubTable()}
	h := NewForecastHandler(
		forecast.NewOrchestrator(tables, forecast.CrostonOptimized{}, 1, time.Minute, nil),
		tables,
		insight.NewAnalyst(gen),
	)
	app := fiber.New()
	app.Post("/insight", h.HandleForecastInsight)
	return app
}

func TestForecastInsight(t *testing.T) {
	gen := &stubGenerator{reply: "```json\n{\"summary\":\"Demand is intermittent\",\"positive_factors\":[\"steady size\"],\"negative_factors\":[]}\n```"}
	app := insightApp(gen)

	req := httptest.NewRequest("POST", "/insight", strings.NewReader(`{"product_ids":["P1"],"horizon":2}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var body struct {
		Status string                         `json:"status"`
		Data   models.ForecastInsightResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "Demand is intermittent", body.Data.AiAnalysis.Summary)
	assert.Equal(t, []string{"P1"}, body.Data.ProductIDs)
	require.Len(t, body.Data.Forecast, 2)
	assert.Equal(t, time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), body.Data.Forecast[0].Date.UTC())
	assert.Contains(t, gen.prompt, "P1")
}

func TestForecastInsightGeneratorFailure(t *testing.T) {
	app := insightApp(&stubGenerator{err: errors.New("quota exceeded")})

	req := httptest.NewRequest("POST", "/insight", strings.NewReader(`{"product_ids":["P1"],"horizon":2}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestParseForecastRequestSplitsAndDedupes(t *testing.T) {
	app := fiber.New()
	var got models.ForecastRequest
	app.Post("/", func(c *fiber.Ctx) error {
		req, err := parseForecastRequest(c)
		if err != nil {
			return badRequest(c, err)
		}
		got = req
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"product_ids":["P1, P2"," P1 ",""],"horizon":12}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 204, resp.StatusCode)
	assert.Equal(t, []string{"P1", "P2"}, got.ProductIDs)
	assert.Equal(t, 12, got.Horizon)

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestParseFilterParams(t *testing.T) {
	app := fiber.New()
	var got models.FilterParams
	app.Get("/", func(c *fiber.Ctx) error {
		params, err := parseFilterParams(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		got = params
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/?parts_id=P1,P2&volume=0,3&search=ab&date=2023-02-01", nil))
	require.NoError(t, err)
	require.Equal(t, 204, resp.StatusCode)
	assert.Equal(t, []string{"P1", "P2"}, got.PartsIDs)
	assert.Equal(t, []int{0, 3}, got.Volumes)
	assert.Equal(t, "ab", got.Search)
	require.NotNil(t, got.Date)
	assert.Equal(t, 2, int(got.Date.Month()))

	resp, err = app.Test(httptest.NewRequest("GET", "/?date=yesterday", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestCustomErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("boom") })

	resp, err := app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, 418, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/plain", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "boom", body["message"])
}
