package config

import (
	"errors"
	"fmt"
)

// Validate checks that the selected source has what it needs to connect.
func (c *Config) Validate() error {
	var errs []error

	switch c.Source {
	case SourceSupabase:
		if c.SupabaseURL == "" {
			errs = append(errs, errors.New("SUPABASE_URL is not set"))
		}
		if c.SupabaseKey == "" {
			errs = append(errs, errors.New("SUPABASE_KEY is not set"))
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is not set"))
		}
	case SourceFirestore:
		if c.FirestoreProjectID == "" {
			errs = append(errs, errors.New("FIRESTORE_PROJECT_ID is not set"))
		}
	case SourceCSV:
		if c.SourceCSVPath == "" {
			errs = append(errs, errors.New("SOURCE_CSV_PATH is not set"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source %q", c.Source))
	}

	if c.SalesTable == "" {
		errs = append(errs, errors.New("sales table name is empty"))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("cache ttl must not be negative, got %s", c.CacheTTL))
	}
	if c.ResultTTL < 0 {
		errs = append(errs, fmt.Errorf("result ttl must not be negative, got %s", c.ResultTTL))
	}

	return errors.Join(errs...)
}
