package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"partsdemand/models"
	"partsdemand/sales"
	"partsdemand/utils"
)

// FilterHandler serves the filter page over the static sales file.
type FilterHandler struct {
	tables TableProvider
}

func NewFilterHandler(tables TableProvider) *FilterHandler {
	return &FilterHandler{tables: tables}
}

// HandleFilterOptions returns the choices for the two multiselects.
// GET /api/v1/filter/options
func (h *FilterHandler) HandleFilterOptions(c *fiber.Ctx) error {
	table, err := h.tables.Table(c.UserContext())
	if err != nil {
		log.Errorf("❌ [FILTER] Failed to load filter file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data": fiber.Map{
			"parts_ids": table.ProductIDs(),
			"volumes":   table.Volumes(),
		},
	})
}

// HandleFilter applies the filter widgets and returns the matching rows.
// GET /api/v1/filter?parts_id=P1,P2&volume=0,3&search=12&date=2001-01-01
func (h *FilterHandler) HandleFilter(c *fiber.Ctx) error {
	params, err := parseFilterParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	table, err := h.tables.Table(c.UserContext())
	if err != nil {
		log.Errorf("❌ [FILTER] Failed to load filter file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	rows := sales.Filter(table, params)
	return c.JSON(fiber.Map{
		"status": "success",
		"data": fiber.Map{
			"items": rows,
			"count": len(rows),
		},
	})
}

func parseFilterParams(c *fiber.Ctx) (models.FilterParams, error) {
	params := models.FilterParams{
		PartsIDs: utils.SplitList(c.Query("parts_id")),
		Volumes:  []int{},
		Search:   c.Query("search"),
	}

	for _, v := range utils.SplitList(c.Query("volume")) {
		n, err := strconv.Atoi(v)
		if err != nil {
			return params, fiber.NewError(fiber.StatusBadRequest, "Invalid volume "+strconv.Quote(v))
		}
		params.Volumes = append(params.Volumes, n)
	}

	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		date, err := utils.ParseDate(raw)
		if err != nil {
			return params, fiber.NewError(fiber.StatusBadRequest, "Invalid date format")
		}
		params.Date = &date
	}
	return params, nil
}
