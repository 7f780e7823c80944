// Package chart builds the volume-over-time figure for selected parts and
// renders it as an image.
package chart

import (
	"fmt"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"partsdemand/metrics"
)

// MaxTicks bounds the number of labelled x-axis ticks.
const MaxTicks = 10

const tickLayout = "2006-01-02"

// SeriesSource yields the date and volume columns of one part.
type SeriesSource interface {
	Series(id string) ([]time.Time, []int)
}

// Series is one plotted line.
type Series struct {
	Name string
	X    []time.Time
	Y    []int
}

// Tick is a labelled position on the x axis.
type Tick struct {
	At    time.Time
	Label string
}

// Figure is everything needed to draw the chart.
type Figure struct {
	Series   []Series
	Ticks    []Tick
	Warnings []string
}

// Build collects one series per id in the order given. Ids whose date and
// volume columns differ in length are skipped with a warning; the rest are
// still plotted.
func Build(src SeriesSource, ids []string) Figure {
	fig := Figure{Series: []Series{}, Ticks: []Tick{}, Warnings: []string{}}

	for _, id := range ids {
		x, y := src.Series(id)
		if len(x) != len(y) {
			msg := fmt.Sprintf("x and y lengths do not match for ID %s (%d != %d)", id, len(x), len(y))
			log.Warnf("📉 [CHART] %s", msg)
			metrics.ChartWarnings.Inc()
			fig.Warnings = append(fig.Warnings, msg)
			continue
		}
		fig.Series = append(fig.Series, Series{Name: id, X: x, Y: y})
	}

	fig.Ticks = ticks(fig.Series, MaxTicks)
	return fig
}

// ticks picks at most limit evenly spaced dates among all plotted dates.
func ticks(series []Series, limit int) []Tick {
	seen := make(map[int64]time.Time)
	for _, s := range series {
		for _, x := range s.X {
			seen[x.Unix()] = x
		}
	}

	dates := make([]time.Time, 0, len(seen))
	for _, t := range seen {
		dates = append(dates, t)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	out := make([]Tick, 0, limit)
	if len(dates) == 0 || limit <= 0 {
		return out
	}
	if len(dates) <= limit {
		for _, d := range dates {
			out = append(out, Tick{At: d, Label: d.Format(tickLayout)})
		}
		return out
	}

	step := float64(len(dates)-1) / float64(limit-1)
	last := -1
	for i := 0; i < limit; i++ {
		idx := int(float64(i)*step + 0.5)
		if idx == last {
			continue
		}
		last = idx
		out = append(out, Tick{At: dates[idx], Label: dates[idx].Format(tickLayout)})
	}
	return out
}
