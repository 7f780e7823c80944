package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/juju/clock"

	"partsdemand/config"
	"partsdemand/forecast"
	"partsdemand/handlers"
	"partsdemand/insight"
	"partsdemand/middleware"
	"partsdemand/routes"
	"partsdemand/store"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.SetLevel(log.LevelInfo)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize the row source and the cached tables
	source, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Unable to open %s source: %v", cfg.Source, err)
	}
	defer store.Close(source)

	tables := store.NewTableStore("sales", source, cfg.SalesTable, cfg.CacheTTL, clock.WallClock)
	filterTables := store.NewTableStore("filter", store.NewCSVSource(cfg.FilterCSVPath), cfg.SalesTable, cfg.CacheTTL, clock.WallClock)

	orchestrator := forecast.NewOrchestrator(tables, forecast.CrostonOptimized{}, cfg.ForecastWorkers, cfg.ResultTTL, clock.WallClock)
	go orchestrator.Janitor(ctx, time.Minute)

	var generator insight.Generator
	if cfg.InsightEnabled() {
		gemini, err := insight.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Warnf("⚠️  Gemini disabled: %v", err)
		} else {
			defer gemini.Close()
			generator = gemini
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      "partsdemand " + version,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		ErrorHandler: handlers.CustomErrorHandler,
	})

	// Middleware stack
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New())
	app.Use(middleware.RequestMetrics)

	// Setup routes
	routes.SetupRoutes(app, routes.Handlers{
		Health:    handlers.NewHealthHandler(tables, version),
		Dashboard: handlers.NewDashboardHandler(tables),
		Forecast:  handlers.NewForecastHandler(orchestrator, tables, insight.NewAnalyst(generator)),
		Filter:    handlers.NewFilterHandler(filterTables),
	})

	log.Infof("🚀 partsdemand starting on port %s", cfg.Port)
	log.Infof("📊 Environment: %s, source: %s, table: %s", cfg.Environment, source.Name(), cfg.SalesTable)

	if err := serve(ctx, app, ":"+cfg.Port, 30*time.Second); err != nil {
		log.Errorf("Server stopped: %v", err)
		return
	}
	log.Info("✅ Server shutdown complete")
}

// serve runs app on addr until ctx is done, then shuts it down within
// timeout. A listener failure is returned so deferred cleanup still runs.
func serve(ctx context.Context, app *fiber.App, addr string, timeout time.Duration) error {
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	log.Info("🛑 Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
