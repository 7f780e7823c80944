// Package insight asks a generative model to comment on a demand forecast.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"partsdemand/models"
)

// ErrDisabled is returned when no generator is configured.
var ErrDisabled = errors.New("forecast insight is not configured")

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Analyst builds prompts from history and forecasts and parses the answer.
type Analyst struct {
	gen Generator
	now func() time.Time
}

// NewAnalyst wraps gen. A nil generator yields ErrDisabled on every call.
func NewAnalyst(gen Generator) *Analyst {
	return &Analyst{gen: gen, now: time.Now}
}

// Enabled reports whether a generator is configured.
func (a *Analyst) Enabled() bool {
	return a != nil && a.gen != nil
}

// Explain comments on forecast given each part's history.
func (a *Analyst) Explain(ctx context.Context, horizon int, history map[string][]models.HistoricalSale, forecast []models.MonthlyForecast) (*models.ForecastInsightResponse, error) {
	if !a.Enabled() {
		return nil, ErrDisabled
	}

	prompt := ConstructPrompt(horizon, history, forecast, a.now())
	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate insight: %w", err)
	}

	analysis, err := ParseAnalysis(text)
	if err != nil {
		log.Errorf("❌ [INSIGHT] Could not parse model response: %v", err)
		return nil, err
	}

	ids := make([]string, 0, len(history))
	for id := range history {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return &models.ForecastInsightResponse{
		ReportName:  fmt.Sprintf("%d-Month Demand Forecast", horizon),
		GeneratedAt: a.now(),
		ProductIDs:  ids,
		Horizon:     horizon,
		Forecast:    forecast,
		AiAnalysis:  *analysis,
	}, nil
}

// ConstructPrompt creates a detailed prompt for the model.
func ConstructPrompt(horizon int, history map[string][]models.HistoricalSale, forecast []models.MonthlyForecast, today time.Time) string {
	ids := make([]string, 0, len(history))
	for id := range history {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var hist strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&hist, "Part %s:\n", id)
		if len(history[id]) == 0 {
			hist.WriteString("  No sales history available.\n")
		}
		for _, h := range history[id] {
			fmt.Fprintf(&hist, "  %s: %d units\n", h.Date.Format("2006-01"), h.Volume)
		}
	}

	var pred strings.Builder
	for _, f := range forecast {
		fmt.Fprintf(&pred, "  Part %s, %s: %.2f units\n", f.PartsID, f.Date.Format("2006-01"), f.PredictedVolume)
	}

	jsonFormat := `{"summary":"string","positive_factors":["string",...],"negative_factors":["string",...]}`

	return fmt.Sprintf(`
        You are an expert spare-parts demand planner. A Croston intermittent-demand model produced a %d-month forecast. Explain it briefly for an inventory manager.

        **Analysis Context:**
        - Today's Date: %s

        **Monthly Sales History:**
%s
        **Forecast:**
%s
        **Required Output:**
        You must provide a single, minified JSON object with the following exact structure. Do not include any markdown formatting, backticks, or explanatory text before or after the JSON object.

        %s
    `, horizon, today.Format("2006-01-02"), hist.String(), pred.String(), jsonFormat)
}

func extractJSON(rawString string) string {
	start := strings.Index(rawString, "{")
	end := strings.LastIndex(rawString, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return rawString[start : end+1]
}

// ParseAnalysis extracts the JSON object from a model answer.
func ParseAnalysis(text string) (*models.AiAnalysis, error) {
	jsonStr := extractJSON(text)
	if jsonStr == "" {
		return nil, fmt.Errorf("failed to parse AI response format")
	}

	var analysis models.AiAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse AI forecast analysis: %w", err)
	}
	return &analysis, nil
}
