package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the export run.
type Metrics struct {
	PagesFetched     prometheus.Counter
	RecordsExtracted prometheus.Counter
	FetchRetries     prometheus.Counter
	FetchExhausted   prometheus.Counter
	IncompleteRows   prometheus.Counter
	RowsWritten      prometheus.Counter
	RowsPublished    prometheus.Counter
	ExportRunning    prometheus.Gauge

	PageFetchDuration prometheus.Histogram
}

// NewMetrics creates and registers all export metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_etl",
			Name:      "pages_fetched_total",
			Help:      "Total non-empty pages fetched from the browse endpoint.",
		}),
		RecordsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_etl",
			Name:      "records_extracted_total",
			Help:      "Total raw NEO records accumulated across pages.",
		}),
		FetchRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_etl",
			Name:      "fetch_retries_total",
			Help:      "Total page fetch retry attempts.",
		}),
		FetchExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_etl",
			Name:      "fetch_exhausted_total",
			Help:      "Total pages abandoned after exhausting retry attempts.",
		}),
		IncompleteRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_etl",
			Name:      "incomplete_rows_total",
			Help:      "Rows with at least one numeric field coerced to missing.",
		}),
		RowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_etl",
			Name:      "rows_written_total",
			Help:      "Rows written to the CSV export.",
		}),
		RowsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_etl",
			Name:      "rows_published_total",
			Help:      "Rows mirrored to the Kafka sink topic.",
		}),
		ExportRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neo_etl",
			Name:      "export_running",
			Help:      "1 while an export run is active, 0 otherwise.",
		}),
		PageFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "neo_etl",
			Name:      "page_fetch_duration_seconds",
			Help:      "Duration of a single page request, including the body decode.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}

	prometheus.MustRegister(
		m.PagesFetched,
		m.RecordsExtracted,
		m.FetchRetries,
		m.FetchExhausted,
		m.IncompleteRows,
		m.RowsWritten,
		m.RowsPublished,
		m.ExportRunning,
		m.PageFetchDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// construct components repeatedly without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PagesFetched:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "neo_etl", Name: "pages_fetched_total"}),
		RecordsExtracted:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "neo_etl", Name: "records_extracted_total"}),
		FetchRetries:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "neo_etl", Name: "fetch_retries_total"}),
		FetchExhausted:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "neo_etl", Name: "fetch_exhausted_total"}),
		IncompleteRows:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "neo_etl", Name: "incomplete_rows_total"}),
		RowsWritten:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "neo_etl", Name: "rows_written_total"}),
		RowsPublished:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "neo_etl", Name: "rows_published_total"}),
		ExportRunning:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "neo_etl", Name: "export_running"}),
		PageFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "neo_etl", Name: "page_fetch_duration_seconds"}),
	}
}
