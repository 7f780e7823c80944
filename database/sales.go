package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"partsdemand/models"
)

// Querier is the subset of pgxpool.Pool used to read sales rows.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// SalesQuery builds the full-table select for a sales table. Date and volume
// are read as text so coercion happens in one place.
func SalesQuery(table string) string {
	ident := pgx.Identifier{table}.Sanitize()
	return fmt.Sprintf(`
		SELECT id, parts_id::text, date::text, volume::text
		FROM %s
		ORDER BY id
	`, ident)
}

// FetchSalesRows returns every row of table.
func FetchSalesRows(ctx context.Context, db Querier, table string) ([]models.SalesRow, error) {
	rows, err := db.Query(ctx, SalesQuery(table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.SalesRow, error) {
		var (
			r       models.SalesRow
			partsID string
			volume  *string
		)
		if err := row.Scan(&r.ID, &partsID, &r.Date, &volume); err != nil {
			return r, err
		}
		r.PartsID = models.FlexString(partsID)
		if volume != nil {
			r.Volume = models.FlexString(*volume)
		}
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	return out, nil
}
