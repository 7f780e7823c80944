package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"

	"partsdemand/models"
)

// FirestoreSource reads rows from a Firestore collection named after the table.
type FirestoreSource struct {
	client *firestore.Client
}

// NewFirestoreSource creates a client for projectID.
func NewFirestoreSource(ctx context.Context, projectID string) (*FirestoreSource, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &FirestoreSource{client: client}, nil
}

func (s *FirestoreSource) Name() string { return "firestore" }

// FetchAll returns one row per document in the collection.
func (s *FirestoreSource) FetchAll(ctx context.Context, table string) ([]models.SalesRow, error) {
	docs, err := s.client.Collection(table).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("read collection %s: %w", table, err)
	}

	rows := make([]models.SalesRow, 0, len(docs))
	for i, doc := range docs {
		rows = append(rows, rowFromDocument(int64(i+1), doc.Data()))
	}
	return rows, nil
}

func (s *FirestoreSource) Close() error {
	return s.client.Close()
}

// rowFromDocument maps document fields onto a raw row. Documents without an
// id field get their position in the collection.
func rowFromDocument(pos int64, data map[string]interface{}) models.SalesRow {
	row := models.SalesRow{
		ID:      pos,
		PartsID: models.FlexString(fieldText(data["parts_id"])),
		Date:    fieldText(data["date"]),
		Volume:  models.FlexString(fieldText(data["volume"])),
	}
	if id, err := strconv.ParseInt(fieldText(data["id"]), 10, 64); err == nil {
		row.ID = id
	}
	return row
}

func fieldText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.UTC().Format("2006-01-02")
	default:
		return fmt.Sprint(t)
	}
}
