package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"partsdemand/handlers"
	"partsdemand/middleware"
)

// Handlers groups the handlers mounted by SetupRoutes.
type Handlers struct {
	Health    *handlers.HealthHandler
	Dashboard *handlers.DashboardHandler
	Forecast  *handlers.ForecastHandler
	Filter    *handlers.FilterHandler
}

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, h Handlers) {
	app.Get("/health", h.Health.Health)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1")

	// --- Dashboard ---
	api.Get("/products", h.Dashboard.HandleListProducts)
	api.Get("/sales", h.Dashboard.HandleListSales)
	api.Get("/chart", h.Dashboard.HandleChart)

	// --- Forecast ---
	forecasts := api.Group("/forecasts")
	forecasts.Post("/", middleware.RequireJSON, h.Forecast.HandleCreateForecast)
	forecasts.Post("/insight", middleware.RequireJSON, h.Forecast.HandleForecastInsight) // Must be before /:id routes
	forecasts.Get("/:id/predictions.csv", h.Forecast.HandleDownloadForecast)

	// --- Filter page ---
	api.Get("/filter", h.Filter.HandleFilter)
	api.Get("/filter/options", h.Filter.HandleFilterOptions)

	// --- Admin ---
	api.Post("/admin/refresh", h.Dashboard.HandleRefresh)
}
