package models

import "time"

// HistoricalSale represents a single past month of a part, used as context for
// forecast commentary.
type HistoricalSale struct {
	Date   time.Time `json:"date"`
	Volume int       `json:"volume"`
}

// MonthlyForecast represents the predicted volume for a single month.
type MonthlyForecast struct {
	PartsID         string    `json:"parts_id"`
	Date            time.Time `json:"date"`
	PredictedVolume float64   `json:"predicted_volume"`
}

// AiAnalysis contains the qualitative insights from the Gemini model.
type AiAnalysis struct {
	Summary         string   `json:"summary"`
	PositiveFactors []string `json:"positive_factors"`
	NegativeFactors []string `json:"negative_factors"`
}

// ForecastInsightResponse is the complete structure for the forecast insight API response.
type ForecastInsightResponse struct {
	ReportName  string            `json:"reportName"`
	GeneratedAt time.Time         `json:"generatedAt"`
	ProductIDs  []string          `json:"productIds"`
	Horizon     int               `json:"horizon"`
	Forecast    []MonthlyForecast `json:"forecast"`
	AiAnalysis  AiAnalysis        `json:"aiAnalysis"`
}
