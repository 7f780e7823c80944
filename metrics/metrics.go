// Package metrics declares the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "partsdemand"

var (
	// HTTPRequests counts handled requests by route, method and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests handled, by route, method and status code.",
	}, []string{"route", "method", "status"})

	// HTTPDuration observes request latency by route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency, by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	// TableCache counts sales table reads served from cache or the store.
	TableCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "table_cache_total",
		Help:      "Sales table reads, by table store and result (hit or miss).",
	}, []string{"store", "result"})

	// TableRows is the row count of each store's last loaded sales table.
	TableRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "table_rows",
		Help:      "Rows in the most recently loaded sales table, by table store.",
	}, []string{"store"})

	// ForecastDuration observes end to end forecast latency.
	ForecastDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "forecast_duration_seconds",
		Help:      "Time to format, fit, forecast and serialize a request.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	})

	// ForecastSeries counts fitted series by outcome.
	ForecastSeries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forecast_series_total",
		Help:      "Series forecast, by outcome (ok or error).",
	}, []string{"outcome"})

	// ChartWarnings counts ids skipped while building charts.
	ChartWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chart_skipped_series_total",
		Help:      "Series skipped by the chart renderer because x and y lengths differ.",
	})
)
