package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsdemand/forecast"
	"partsdemand/handlers"
	"partsdemand/insight"
	"partsdemand/models"
	"partsdemand/sales"
)

type fakeTables struct {
	table     *sales.Table
	err       error
	refreshes int
}

func (f *fakeTables) Table(ctx context.Context) (*sales.Table, error) {
	return f.table, f.err
}

func (f *fakeTables) Refresh(ctx context.Context) (*sales.Table, error) {
	f.refreshes++
	return f.table, f.err
}

func (f *fakeTables) FetchedAt() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
func (f *fakeTables) Stale() bool          { return false }
func (f *fakeTables) SourceName() string   { return "fake" }

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func sampleTable() *sales.Table {
	return sales.NewTable([]models.SalesRecord{
		{ID: 1, PartsID: "P1", Date: month(2023, 1), Volume: 2},
		{ID: 2, PartsID: "P2", Date: month(2023, 1), Volume: 1},
		{ID: 3, PartsID: "P1", Date: month(2023, 2), Volume: 0},
		{ID: 4, PartsID: "P2", Date: month(2023, 2), Volume: 1},
		{ID: 5, PartsID: "P1", Date: month(2023, 3), Volume: 3},
	})
}

func newTestApp(tables *fakeTables) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: handlers.CustomErrorHandler})
	orchestrator := forecast.NewOrchestrator(tables, forecast.CrostonOptimized{}, 2, time.Minute, nil)
	SetupRoutes(app, Handlers{
		Health:    handlers.NewHealthHandler(tables, "test"),
		Dashboard: handlers.NewDashboardHandler(tables),
		Forecast:  handlers.NewForecastHandler(orchestrator, tables, insight.NewAnalyst(nil)),
		Filter:    handlers.NewFilterHandler(tables),
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthRoutes(t *testing.T) {
	app := newTestApp(&fakeTables{table: sampleTable()})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/health/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body := decode(t, resp)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, float64(5), checks["rows"])

	down := newTestApp(&fakeTables{err: errors.New("store offline")})
	resp, err = down.Test(httptest.NewRequest("GET", "/health/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestMetricsRoute(t *testing.T) {
	app := newTestApp(&fakeTables{table: sampleTable()})
	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestListProducts(t *testing.T) {
	app := newTestApp(&fakeTables{table: sampleTable()})
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	data := decode(t, resp)["data"].(map[string]any)
	assert.Equal(t, []any{"P1", "P2"}, data["products"])
}

func TestListSalesFiltersAndPaginates(t *testing.T) {
	app := newTestApp(&fakeTables{table: sampleTable()})
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/sales?ids=P1&page=2&pageSize=2", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	data := decode(t, resp)["data"].(map[string]any)
	items := data["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, float64(5), items[0].(map[string]any)["id"])

	pagination := data["pagination"].(map[string]any)
	assert.Equal(t, float64(3), pagination["totalItems"])
	assert.Equal(t, float64(2), pagination["totalPages"])
}

func TestListSalesOutOfRangePages(t *testing.T) {
	app := newTestApp(&fakeTables{table: sampleTable()})

	for _, query := range []string{
		"page=4611686018427387904&pageSize=4",
		"page=9&pageSize=2",
		"page=2&pageSize=9223372036854775807",
	} {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/sales?"+query, nil))
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode, query)

		data := decode(t, resp)["data"].(map[string]any)
		assert.Empty(t, data["items"], query)
	}
}

func TestListSalesCapsPageSize(t *testing.T) {
	app := newTestApp(&fakeTables{table: sampleTable()})
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/sales?pageSize=100000", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	data := decode(t, resp)["data"].(map[string]any)
	assert.Len(t, data["items"], 5)
	pagination := data["pagination"].(map[string]any)
	assert.Equal(t, float64(handlers.MaxPageSize), pagination["pageSize"])
}

func TestChartReturnsPNG(t *testing.T) {
	app := newTestApp(&fakeTables{table: sampleTable()})
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/chart?ids=P1,P2", nil), -1)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "\x89PNG"))
	assert.Empty(t, resp.Header.Get("X-Chart-Warnings"))
}

func TestCreateForecastValidation(t *testing.T) {
	app := newTestApp(&fakeTables{table: sampleTable()})

	resp := postJSON(t, app, "/api/v1/forecasts", `{"product_ids":[],"horizon":3}`)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "Select at least one product ID to forecast", decode(t, resp)["message"])

	resp = postJSON(t, app, "/api/v1/forecasts", `{"product_ids":["P1"],"horizon":13}`)
	assert.Equal(t, 400, resp.StatusCode)

	resp = postJSON(t, app, "/api/v1/forecasts", `{"product_ids":["P1"],"horizon":0}`)
	assert.Equal(t, 400, resp.StatusCode)

	req := httptest.NewRequest("POST", "/api/v1/forecasts", strings.NewReader(`product_ids=P1`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 415, r.StatusCode)
}

func TestCreateForecastThenDownloadOnce(t *testing.T) {
	app := newTestApp(&fakeTables{table: sampleTable()})

	resp := postJSON(t, app, "/api/v1/forecasts", `{"product_ids":["P1","P2"],"horizon":3}`)
	require.Equal(t, 201, resp.StatusCode)

	data := decode(t, resp)["data"].(map[string]any)
	assert.Equal(t, float64(6), data["rows"])
	assert.Equal(t, "predictions.csv", data["file_name"])
	url := data["download_url"].(string)

	dl, err := app.Test(httptest.NewRequest("GET", url, nil), -1)
	require.NoError(t, err)
	require.Equal(t, 200, dl.StatusCode)
	assert.Equal(t, "text/csv", dl.Header.Get("Content-Type"))
	assert.Contains(t, dl.Header.Get("Content-Disposition"), `filename="predictions.csv"`)

	body, err := io.ReadAll(dl.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "unique_id,ds,CrostonOptimized", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "P1,2023-04-01,"))
	assert.True(t, strings.HasPrefix(lines[4], "P2,2023-03-01,"))

	again, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)
	assert.Equal(t, 404, again.StatusCode)
}

func TestCreateForecastDirectDownload(t *testing.T) {
	app := newTestApp(&fakeTables{table: sampleTable()})

	resp := postJSON(t, app, "/api/v1/forecasts?download=true", `{"product_ids":["P2"],"horizon":2}`)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "unique_id,ds,CrostonOptimized", lines[0])
	for i, ds := range []string{"2023-03-01", "2023-04-01"} {
		fields := strings.Split(lines[i+1], ",")
		require.Len(t, fields, 3)
		assert.Equal(t, "P2", fields[0])
		assert.Equal(t, ds, fields[1])
		v, err := strconv.ParseFloat(fields[2], 64)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, v, 1e-9)
	}
}

func TestCreateForecastUnknownProduct(t *testing.T) {
	app := newTestApp(&fakeTables{table: sampleTable()})

	resp := postJSON(t, app, "/api/v1/forecasts", `{"product_ids":["P9"],"horizon":2}`)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Contains(t, decode(t, resp)["message"], "P9")
}

func TestInsightDisabled(t *testing.T) {
	app := newTestApp(&fakeTables{table: sampleTable()})

	resp := postJSON(t, app, "/api/v1/forecasts/insight", `{"product_ids":["P1"],"horizon":2}`)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestDownloadUnknownForecast(t *testing.T) {
	app := newTestApp(&fakeTables{table: sampleTable()})
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/forecasts/nope/predictions.csv", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestFilterRoute(t *testing.T) {
	app := newTestApp(&fakeTables{table: sampleTable()})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/filter?parts_id=P1", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	data := decode(t, resp)["data"].(map[string]any)
	assert.Equal(t, float64(3), data["count"])

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/filter?volume=abc", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/filter/options", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	data = decode(t, resp)["data"].(map[string]any)
	assert.Equal(t, []any{"P1", "P2"}, data["parts_ids"])
}

func TestAdminRefresh(t *testing.T) {
	tables := &fakeTables{table: sampleTable()}
	app := newTestApp(tables)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/admin/refresh", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 1, tables.refreshes)
}
