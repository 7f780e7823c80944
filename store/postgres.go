package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"partsdemand/database"
	"partsdemand/models"
)

// PostgresSource reads rows straight from the Postgres database behind the
// hosted store.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource connects a pool to databaseURL.
func NewPostgresSource(ctx context.Context, databaseURL string) (*PostgresSource, error) {
	pool, err := database.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &PostgresSource{pool: pool}, nil
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) FetchAll(ctx context.Context, table string) ([]models.SalesRow, error) {
	return database.FetchSalesRows(ctx, s.pool, table)
}

func (s *PostgresSource) Close() error {
	database.Close(s.pool)
	return nil
}
