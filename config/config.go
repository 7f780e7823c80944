package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config struct holds application configuration.
type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`

	// Source selects the row source: supabase, postgres, firestore or csv.
	Source     string `yaml:"source"`
	SalesTable string `yaml:"sales_table"`

	SupabaseURL        string `yaml:"supabase_url"`
	SupabaseKey        string `yaml:"supabase_key"`
	DatabaseURL        string `yaml:"database_url"`
	FirestoreProjectID string `yaml:"firestore_project_id"`
	SourceCSVPath      string `yaml:"source_csv_path"`

	// FilterCSVPath is the static file behind the filter page.
	FilterCSVPath string `yaml:"filter_csv_path"`

	CacheTTL        time.Duration `yaml:"cache_ttl"`
	ResultTTL       time.Duration `yaml:"result_ttl"`
	ForecastWorkers int           `yaml:"forecast_workers"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`
}

// Load reads .env, then the optional YAML file named by CONFIG_FILE, then
// applies environment overrides and defaults, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("Error loading .env file, using environment variables")
	}

	cfg := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// LoadFile reads a YAML config file and expands ${VAR} environment variables.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.Environment, "ENVIRONMENT")
	setString(&c.Source, "SOURCE")
	setString(&c.SalesTable, "SALES_TABLE")
	setString(&c.SupabaseURL, "SUPABASE_URL")
	setString(&c.SupabaseKey, "SUPABASE_KEY")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.FirestoreProjectID, "FIRESTORE_PROJECT_ID")
	setString(&c.SourceCSVPath, "SOURCE_CSV_PATH")
	setString(&c.FilterCSVPath, "FILTER_CSV_PATH")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.GeminiModel, "GEMINI_MODEL")

	if err := setDuration(&c.CacheTTL, "CACHE_TTL"); err != nil {
		return err
	}
	if err := setDuration(&c.ResultTTL, "RESULT_TTL"); err != nil {
		return err
	}
	if v := os.Getenv("FORECAST_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FORECAST_WORKERS: %w", err)
		}
		c.ForecastWorkers = n
	}
	return nil
}

func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func setDuration(dst *time.Duration, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// InsightEnabled reports whether a Gemini key is configured.
func (c *Config) InsightEnabled() bool {
	return c.GeminiAPIKey != ""
}

func defaultWorkers() int {
	return runtime.NumCPU()
}
