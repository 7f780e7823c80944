package store

import (
	"context"
	"fmt"

	"github.com/supabase-community/supabase-go"

	"partsdemand/models"
)

// SupabaseSource reads rows through the Supabase REST API.
type SupabaseSource struct {
	client *supabase.Client
}

// NewSupabaseSource creates a client for the project at url.
func NewSupabaseSource(url, key string) (*SupabaseSource, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return &SupabaseSource{client: client}, nil
}

func (s *SupabaseSource) Name() string { return "supabase" }

// FetchAll selects every column of every row of table.
func (s *SupabaseSource) FetchAll(ctx context.Context, table string) ([]models.SalesRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []models.SalesRow
	if _, err := s.client.From(table).Select("*", "", false).ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	return rows, nil
}
