package forecast

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

const dateLayout = "2006-01-02"

// WriteCSV serializes forecast points with a header row. The value column is
// named after the model.
func WriteCSV(points []Point, valueColumn string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{ColUniqueID, ColDS, valueColumn}); err != nil {
		return nil, err
	}
	for _, p := range points {
		rec := []string{
			p.UniqueID,
			p.DS.Format(dateLayout),
			strconv.FormatFloat(p.Value, 'f', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
