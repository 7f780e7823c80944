package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultPort          = "3000"
	DefaultEnvironment   = "development"
	DefaultSource        = SourceSupabase
	DefaultSalesTable    = "car_parts_monthly_sales"
	DefaultFilterCSVPath = "data/car_parts_monthly_sales.csv"
	DefaultCacheTTL      = 10 * time.Minute
	DefaultResultTTL     = 30 * time.Minute
	DefaultGeminiModel   = "gemini-2.5-flash-lite"
)

// Row source names.
const (
	SourceSupabase  = "supabase"
	SourcePostgres  = "postgres"
	SourceFirestore = "firestore"
	SourceCSV       = "csv"
)

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if c.Environment == "" {
		c.Environment = DefaultEnvironment
	}
	if c.Source == "" {
		c.Source = DefaultSource
	}
	if c.SalesTable == "" {
		c.SalesTable = DefaultSalesTable
	}
	if c.FilterCSVPath == "" {
		c.FilterCSVPath = DefaultFilterCSVPath
	}
	if c.SourceCSVPath == "" {
		c.SourceCSVPath = c.FilterCSVPath
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.ResultTTL == 0 {
		c.ResultTTL = DefaultResultTTL
	}
	if c.ForecastWorkers <= 0 {
		c.ForecastWorkers = defaultWorkers()
	}
	if c.GeminiModel == "" {
		c.GeminiModel = DefaultGeminiModel
	}
}
