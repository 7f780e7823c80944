package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports liveness and the state of the table cache.
type HealthHandler struct {
	startTime time.Time
	tables    TableProvider
	version   string
}

func NewHealthHandler(tables TableProvider, version string) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		tables:    tables,
		version:   version,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "partsdemand",
		"version": h.version,
		"uptime":  time.Since(h.startTime).String(),
		"time":    time.Now(),
	})
}

// Ready handles GET /health/ready. It loads the sales table if needed.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	table, err := h.tables.Table(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"checks": fiber.Map{"source": h.tables.SourceName(), "error": err.Error()},
		})
	}

	return c.JSON(fiber.Map{
		"status": "ready",
		"checks": fiber.Map{
			"source":    h.tables.SourceName(),
			"rows":      table.Len(),
			"fetchedAt": h.tables.FetchedAt(),
			"stale":     h.tables.Stale(),
		},
	})
}
