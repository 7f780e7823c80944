package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"partsdemand/cache"
	"partsdemand/forecast"
	"partsdemand/insight"
	"partsdemand/models"
	"partsdemand/utils"
)

// Horizon bounds accepted by the forecast endpoints.
const (
	MinHorizon = 1
	MaxHorizon = 12
)

// Forecaster runs the forecast pipeline and keeps results for download.
type Forecaster interface {
	Run(ctx context.Context, req models.ForecastRequest) (*models.ForecastResult, error)
	Points(ctx context.Context, req models.ForecastRequest) ([]forecast.Point, error)
	Download(id string) (*models.ForecastResult, error)
}

// ForecastHandler serves the forecast trigger, the CSV download and the
// optional AI commentary.
type ForecastHandler struct {
	forecaster Forecaster
	tables     TableProvider
	analyst    *insight.Analyst
}

func NewForecastHandler(forecaster Forecaster, tables TableProvider, analyst *insight.Analyst) *ForecastHandler {
	return &ForecastHandler{forecaster: forecaster, tables: tables, analyst: analyst}
}

func parseForecastRequest(c *fiber.Ctx) (models.ForecastRequest, error) {
	var req models.ForecastRequest
	if err := c.BodyParser(&req); err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	req.ProductIDs = utils.Unique(utils.SplitList(req.ProductIDs...))
	if len(req.ProductIDs) == 0 {
		return req, fiber.NewError(fiber.StatusBadRequest, "Select at least one product ID to forecast")
	}
	if req.Horizon < MinHorizon || req.Horizon > MaxHorizon {
		return req, fiber.NewError(fiber.StatusBadRequest, "Horizon must be between 1 and 12")
	}
	return req, nil
}

func badRequest(c *fiber.Ctx, err error) error {
	code := fiber.StatusBadRequest
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"status": "error", "message": err.Error()})
}

// HandleCreateForecast runs a forecast. With ?download=true the CSV is sent
// directly; otherwise the result is kept and a download link returned.
// POST /api/v1/forecasts
func (h *ForecastHandler) HandleCreateForecast(c *fiber.Ctx) error {
	req, err := parseForecastRequest(c)
	if err != nil {
		return badRequest(c, err)
	}

	log.Infof("📊 [FORECAST] Request - Products: %v, Horizon: %d", req.ProductIDs, req.Horizon)

	result, err := h.forecaster.Run(c.UserContext(), req)
	if err != nil {
		log.Errorf("❌ [FORECAST] Failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	if c.QueryBool("download") {
		if _, err := h.forecaster.Download(result.ID); err != nil {
			log.Warnf("⚠️  [FORECAST] Result %s already gone: %v", result.ID, err)
		}
		return sendCSV(c, result)
	}

	log.Infof("✅ [FORECAST] Stored result %s with %d rows", result.ID, result.Rows)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"data": models.ForecastResponse{
			ID:          result.ID,
			DownloadURL: "/api/v1/forecasts/" + result.ID + "/" + forecast.FileName,
			FileName:    forecast.FileName,
			Rows:        result.Rows,
			GeneratedAt: result.GeneratedAt,
		},
	})
}

// HandleDownloadForecast sends a stored forecast once.
// GET /api/v1/forecasts/:id/predictions.csv
func (h *ForecastHandler) HandleDownloadForecast(c *fiber.Ctx) error {
	result, err := h.forecaster.Download(c.Params("id"))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Forecast not found or already downloaded"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	return sendCSV(c, result)
}

func sendCSV(c *fiber.Ctx, result *models.ForecastResult) error {
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+forecast.FileName+`"`)
	c.Set(fiber.HeaderContentType, "text/csv")
	return c.Send(result.CSV)
}

// HandleForecastInsight forecasts and asks the AI model to explain the result.
// POST /api/v1/forecasts/insight
func (h *ForecastHandler) HandleForecastInsight(c *fiber.Ctx) error {
	if !h.analyst.Enabled() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "error", "message": insight.ErrDisabled.Error()})
	}

	req, err := parseForecastRequest(c)
	if err != nil {
		return badRequest(c, err)
	}

	ctx := c.UserContext()
	points, err := h.forecaster.Points(ctx, req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	table, err := h.tables.Table(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	history := make(map[string][]models.HistoricalSale, len(req.ProductIDs))
	for _, id := range req.ProductIDs {
		history[id] = []models.HistoricalSale{}
	}
	for _, r := range table.Select(req.ProductIDs) {
		history[r.PartsID] = append(history[r.PartsID], models.HistoricalSale{Date: r.Date, Volume: r.Volume})
	}

	predicted := make([]models.MonthlyForecast, 0, len(points))
	for _, p := range points {
		predicted = append(predicted, models.MonthlyForecast{PartsID: p.UniqueID, Date: p.DS, PredictedVolume: p.Value})
	}

	resp, err := h.analyst.Explain(ctx, req.Horizon, history, predicted)
	if err != nil {
		log.Errorf("❌ [INSIGHT] %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to generate forecast insight"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": resp})
}
