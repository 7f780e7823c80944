// Package store fetches sales rows from the configured table store and keeps
// the derived sales table behind an explicit time-bounded cache.
package store

import (
	"context"
	"errors"
	"fmt"

	"partsdemand/config"
	"partsdemand/models"
)

// ErrUnknownSource is returned when the configured source name is not supported.
var ErrUnknownSource = errors.New("unknown row source")

// Source fetches every row of a single sales table. No pagination and no
// filtering is pushed down to the store.
type Source interface {
	FetchAll(ctx context.Context, table string) ([]models.SalesRow, error)
	Name() string
}

// Closer is implemented by sources holding a connection.
type Closer interface {
	Close() error
}

// Open builds the source named in cfg.
func Open(ctx context.Context, cfg *config.Config) (Source, error) {
	switch cfg.Source {
	case config.SourceSupabase:
		return NewSupabaseSource(cfg.SupabaseURL, cfg.SupabaseKey)
	case config.SourcePostgres:
		return NewPostgresSource(ctx, cfg.DatabaseURL)
	case config.SourceFirestore:
		return NewFirestoreSource(ctx, cfg.FirestoreProjectID)
	case config.SourceCSV:
		return NewCSVSource(cfg.SourceCSVPath), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source)
	}
}

// Close releases the source's connection if it holds one.
func Close(src Source) error {
	if c, ok := src.(Closer); ok {
		return c.Close()
	}
	return nil
}
