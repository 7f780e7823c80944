package forecast

import (
	"time"

	"partsdemand/sales"
)

// Column names of the three-column schema the engine consumes.
const (
	ColUniqueID = "unique_id"
	ColDS       = "ds"
	ColY        = "y"
)

// Row is one observation in engine schema.
type Row struct {
	UniqueID string
	DS       time.Time
	Y        float64
}

// Frame is a formatted table ready for the engine.
type Frame struct {
	Rows []Row
}

// Columns returns the frame's column names.
func (f Frame) Columns() []string {
	return []string{ColUniqueID, ColDS, ColY}
}

// Len returns the row count.
func (f Frame) Len() int {
	return len(f.Rows)
}

// IDs returns the distinct unique_ids in first-appearance order.
func (f Frame) IDs() []string {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, r := range f.Rows {
		if !seen[r.UniqueID] {
			seen[r.UniqueID] = true
			ids = append(ids, r.UniqueID)
		}
	}
	return ids
}

// Format filters the table to ids, drops the surrogate row id and renames
// parts_id, date and volume to unique_id, ds and y. Duplicate or missing
// months pass through unchanged.
func Format(table *sales.Table, ids []string) Frame {
	selected := table.Select(ids)
	rows := make([]Row, 0, len(selected))
	for _, r := range selected {
		rows = append(rows, Row{
			UniqueID: r.PartsID,
			DS:       r.Date,
			Y:        float64(r.Volume),
		})
	}
	return Frame{Rows: rows}
}
