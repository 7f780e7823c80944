package handlers

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"partsdemand/chart"
	"partsdemand/sales"
	"partsdemand/utils"
)

// TableProvider serves the cached sales table.
type TableProvider interface {
	Table(ctx context.Context) (*sales.Table, error)
	Refresh(ctx context.Context) (*sales.Table, error)
	FetchedAt() time.Time
	Stale() bool
	SourceName() string
}

// MaxPageSize caps the pageSize query parameter of the sales browser.
const MaxPageSize = 500

// DashboardHandler serves the product picker, the sales browser and the chart.
type DashboardHandler struct {
	tables TableProvider
}

func NewDashboardHandler(tables TableProvider) *DashboardHandler {
	return &DashboardHandler{tables: tables}
}

// HandleListProducts returns the distinct part ids for the product multi-select.
// GET /api/v1/products
func (h *DashboardHandler) HandleListProducts(c *fiber.Ctx) error {
	table, err := h.tables.Table(c.UserContext())
	if err != nil {
		log.Errorf("❌ [PRODUCTS] Failed to load sales table: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data": fiber.Map{
			"products":  table.ProductIDs(),
			"fetchedAt": h.tables.FetchedAt(),
		},
	})
}

// HandleListSales returns a page of sales records, optionally restricted to ids.
// GET /api/v1/sales?ids=P1,P2&page=1&pageSize=50
func (h *DashboardHandler) HandleListSales(c *fiber.Ctx) error {
	table, err := h.tables.Table(c.UserContext())
	if err != nil {
		log.Errorf("❌ [SALES] Failed to load sales table: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	records := table.Records()
	if ids := utils.SplitList(c.Query("ids")); len(ids) > 0 {
		records = table.Select(ids)
	}

	pageSize := c.QueryInt("pageSize", 50)
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	pagination := utils.CreatePagination(len(records), c.QueryInt("page", 1), pageSize)
	start, end := pagination.Bounds()

	return c.JSON(fiber.Map{
		"status": "success",
		"data": fiber.Map{
			"items":      records[start:end],
			"pagination": pagination,
		},
	})
}

// HandleChart renders the selected parts' volume over time as PNG. Skipped
// series are listed in the X-Chart-Warnings header.
// GET /api/v1/chart?ids=P1,P2
func (h *DashboardHandler) HandleChart(c *fiber.Ctx) error {
	table, err := h.tables.Table(c.UserContext())
	if err != nil {
		log.Errorf("❌ [CHART] Failed to load sales table: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	ids := utils.Unique(utils.SplitList(c.Query("ids")))
	fig := chart.Build(table, ids)

	var buf bytes.Buffer
	if err := chart.Render(fig, &buf); err != nil {
		log.Errorf("❌ [CHART] Render failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to render chart"})
	}

	if len(fig.Warnings) > 0 {
		c.Set("X-Chart-Warnings", strings.Join(fig.Warnings, "; "))
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(buf.Bytes())
}

// HandleRefresh drops the cached table and refetches it from the store.
// POST /api/v1/admin/refresh
func (h *DashboardHandler) HandleRefresh(c *fiber.Ctx) error {
	table, err := h.tables.Refresh(c.UserContext())
	if err != nil {
		log.Errorf("❌ [REFRESH] Failed to refresh sales table: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Cache refreshed successfully",
		"data": fiber.Map{
			"rows":      table.Len(),
			"fetchedAt": h.tables.FetchedAt(),
		},
	})
}
