package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// --- Custom JSON Type for loosely typed stores ---

// FlexString accepts a JSON string, number or null and keeps its textual form.
// Hosted stores disagree on whether ids and volumes are text or numeric columns.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(strings.TrimSpace(n.String()))
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// --- Sales ---

// SalesRow is a raw row as returned by a row source. Volume stays textual until
// the table is built so that coercion failures surface in one place.
type SalesRow struct {
	ID      int64      `json:"id"`
	PartsID FlexString `json:"parts_id"`
	Date    string     `json:"date"`
	Volume  FlexString `json:"volume"`
}

// SalesRecord is one monthly sales observation of a part.
type SalesRecord struct {
	ID      int64     `json:"id"`
	PartsID string    `json:"parts_id"`
	Date    time.Time `json:"date"`
	Volume  int       `json:"volume"`
}

// --- Forecast ---

// ForecastRequest is the body of a forecast trigger.
type ForecastRequest struct {
	ProductIDs []string `json:"product_ids"`
	Horizon    int      `json:"horizon"`
}

// ForecastResult is a rendered forecast waiting to be downloaded.
type ForecastResult struct {
	ID          string    `json:"id"`
	ProductIDs  []string  `json:"product_ids"`
	Horizon     int       `json:"horizon"`
	Rows        int       `json:"rows"`
	CSV         []byte    `json:"-"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// ForecastResponse is returned when a forecast has been computed.
type ForecastResponse struct {
	ID          string    `json:"id"`
	DownloadURL string    `json:"download_url"`
	FileName    string    `json:"file_name"`
	Rows        int       `json:"rows"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// --- Filter view ---

// FilterParams mirrors the widgets of the filter page.
type FilterParams struct {
	PartsIDs []string   `json:"parts_id"`
	Volumes  []int      `json:"volume"`
	Search   string     `json:"search"`
	Date     *time.Time `json:"date,omitempty"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
