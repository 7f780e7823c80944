package store

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/juju/clock"

	"partsdemand/cache"
	"partsdemand/metrics"
	"partsdemand/sales"
)

// TableStore serves the sales table built from a Source, refetching it only
// after the cache window has passed.
type TableStore struct {
	name   string
	source Source
	table  string
	cached *cache.Value[*sales.Table]
}

// NewTableStore caches table from src for ttl. name labels the store's
// metrics. A nil clock means the wall clock.
func NewTableStore(name string, src Source, table string, ttl time.Duration, clk clock.Clock) *TableStore {
	s := &TableStore{name: name, source: src, table: table}
	s.cached = cache.NewValue(ttl, clk, s.load)
	return s
}

func (s *TableStore) load(ctx context.Context) (*sales.Table, error) {
	start := time.Now()
	rows, err := s.source.FetchAll(ctx, s.table)
	if err != nil {
		return nil, fmt.Errorf("fetch %s from %s: %w", s.table, s.source.Name(), err)
	}

	table, err := sales.FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("build table %s: %w", s.table, err)
	}

	metrics.TableRows.WithLabelValues(s.name).Set(float64(table.Len()))
	log.Infof("📦 [TABLE STORE] Loaded %d rows from %s/%s in %s", table.Len(), s.source.Name(), s.table, time.Since(start))
	return table, nil
}

// Table returns the cached table, loading it on first access or after expiry.
func (s *TableStore) Table(ctx context.Context) (*sales.Table, error) {
	table, hit, err := s.cached.Get(ctx)
	if err != nil {
		return nil, err
	}
	if hit {
		metrics.TableCache.WithLabelValues(s.name, "hit").Inc()
	} else {
		metrics.TableCache.WithLabelValues(s.name, "miss").Inc()
	}
	return table, nil
}

// Refresh refetches the table now.
func (s *TableStore) Refresh(ctx context.Context) (*sales.Table, error) {
	table, err := s.cached.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	metrics.TableCache.WithLabelValues(s.name, "miss").Inc()
	return table, nil
}

// FetchedAt returns when the current table was loaded.
func (s *TableStore) FetchedAt() time.Time {
	return s.cached.FetchedAt()
}

// Stale reports whether the next read will hit the source.
func (s *TableStore) Stale() bool {
	return s.cached.Expired()
}

// SourceName names the underlying row source.
func (s *TableStore) SourceName() string {
	return s.source.Name()
}
