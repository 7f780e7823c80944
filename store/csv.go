package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"partsdemand/models"
)

// CSVSource reads rows from a local CSV export of the sales table. The table
// argument of FetchAll is ignored; the file is the table.
type CSVSource struct {
	path string
}

// NewCSVSource reads from path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Name() string { return "csv" }

func (s *CSVSource) FetchAll(ctx context.Context, _ string) ([]models.SalesRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return rows, nil
}

// ReadCSV parses a CSV with a header containing parts_id, date and volume and
// an optional id column. Rows without an id are numbered from 1.
func ReadCSV(r io.Reader) ([]models.SalesRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("missing header")
		}
		return nil, err
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"parts_id", "date", "volume"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	idCol, hasID := cols["id"]

	rows := make([]models.SalesRow, 0)
	for line := int64(1); ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		row := models.SalesRow{
			ID:      line,
			PartsID: models.FlexString(rec[cols["parts_id"]]),
			Date:    rec[cols["date"]],
			Volume:  models.FlexString(rec[cols["volume"]]),
		}
		if hasID {
			id, err := strconv.ParseInt(strings.TrimSpace(rec[idCol]), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid id %q", line+1, rec[idCol])
			}
			row.ID = id
		}
		rows = append(rows, row)
	}
	return rows, nil
}
