// Package sales holds the in-memory sales table built from store rows and the
// selection and filtering operations the dashboard runs against it.
package sales

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"partsdemand/models"
	"partsdemand/utils"
)

// ConversionError reports a row whose volume or date could not be coerced.
type ConversionError struct {
	RowID int64
	Field string
	Value string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("row %d: cannot convert %s %q: %v", e.RowID, e.Field, e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Table is an ordered, read-only collection of sales records. A refresh builds a
// new Table rather than mutating an existing one.
type Table struct {
	records []models.SalesRecord
}

// NewTable wraps records in store order.
func NewTable(records []models.SalesRecord) *Table {
	cp := make([]models.SalesRecord, len(records))
	copy(cp, records)
	return &Table{records: cp}
}

// FromRows converts raw store rows, coercing volume to an integer.
func FromRows(rows []models.SalesRow) (*Table, error) {
	records := make([]models.SalesRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := convertRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return &Table{records: records}, nil
}

func convertRow(row models.SalesRow) (models.SalesRecord, error) {
	raw := strings.TrimSpace(row.Volume.String())
	volume, err := strconv.Atoi(raw)
	if err != nil {
		return models.SalesRecord{}, &ConversionError{RowID: row.ID, Field: "volume", Value: raw, Err: err}
	}

	date, err := utils.ParseDate(strings.TrimSpace(row.Date))
	if err != nil {
		return models.SalesRecord{}, &ConversionError{RowID: row.ID, Field: "date", Value: row.Date, Err: err}
	}

	return models.SalesRecord{
		ID:      row.ID,
		PartsID: strings.TrimSpace(row.PartsID.String()),
		Date:    date,
		Volume:  volume,
	}, nil
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Records returns a copy of all records in table order.
func (t *Table) Records() []models.SalesRecord {
	if t == nil {
		return nil
	}
	cp := make([]models.SalesRecord, len(t.records))
	copy(cp, t.records)
	return cp
}

// ProductIDs returns the distinct part ids in first-seen order.
func (t *Table) ProductIDs() []string {
	if t == nil {
		return []string{}
	}
	ids := make([]string, 0, len(t.records))
	for _, r := range t.records {
		ids = append(ids, r.PartsID)
	}
	return utils.Unique(ids)
}

// Volumes returns the distinct volume values in first-seen order.
func (t *Table) Volumes() []int {
	if t == nil {
		return []int{}
	}
	seen := make(map[int]bool)
	out := make([]int, 0)
	for _, r := range t.records {
		if !seen[r.Volume] {
			seen[r.Volume] = true
			out = append(out, r.Volume)
		}
	}
	return out
}

// Select returns the records whose part id is in ids, in table order.
func (t *Table) Select(ids []string) []models.SalesRecord {
	out := make([]models.SalesRecord, 0)
	if t == nil || len(ids) == 0 {
		return out
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for _, r := range t.records {
		if want[r.PartsID] {
			out = append(out, r)
		}
	}
	return out
}

// Series returns the date and volume columns of a single part.
func (t *Table) Series(id string) ([]time.Time, []int) {
	rows := t.Select([]string{id})
	x := make([]time.Time, 0, len(rows))
	y := make([]int, 0, len(rows))
	for _, r := range rows {
		x = append(x, r.Date)
		y = append(y, r.Volume)
	}
	return x, y
}
