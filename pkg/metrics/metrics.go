// Package metrics exposes prometheus instrumentation for layout resolution,
// table decoding and the browse API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

// Metrics holds all prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Layout cache metrics
	layoutLookupsTotal    *prometheus.CounterVec
	layoutResolveDuration prometheus.Histogram
	layoutsCached         prometheus.Gauge

	// Table metrics
	tablesOpenedTotal *prometheus.CounterVec
	rowsDecodedTotal  *prometheus.CounterVec
	decodeErrorsTotal *prometheus.CounterVec

	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec
}

// NewMetrics creates all collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		layoutLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wowfmt_layout_lookups_total",
				Help: "Layout cache lookups by result",
			},
			[]string{"result"},
		),

		layoutResolveDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wowfmt_layout_resolve_duration_seconds",
				Help:    "Time spent computing uncached record layouts",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
		),

		layoutsCached: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "wowfmt_layouts_cached",
				Help: "Number of (schema, version) layouts held in the cache",
			},
		),

		tablesOpenedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wowfmt_tables_opened_total",
				Help: "Table files opened",
			},
			[]string{"table", "status"},
		),

		rowsDecodedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wowfmt_rows_decoded_total",
				Help: "Rows deserialized from table files",
			},
			[]string{"table"},
		),

		decodeErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wowfmt_decode_errors_total",
				Help: "Rows that failed to deserialize",
			},
			[]string{"table"},
		),

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wowfmt_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wowfmt_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wowfmt_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordLayoutHit records a cache hit.
func (m *Metrics) RecordLayoutHit() {
	if m == nil {
		return
	}
	m.layoutLookupsTotal.WithLabelValues(resultHit).Inc()
}

// RecordLayoutMiss records a computed layout and the new cache size.
func (m *Metrics) RecordLayoutMiss(duration time.Duration, cached int) {
	if m == nil {
		return
	}
	m.layoutLookupsTotal.WithLabelValues(resultMiss).Inc()
	m.layoutResolveDuration.Observe(duration.Seconds())
	m.layoutsCached.Set(float64(cached))
}

// RecordLayoutError records a layout that could not be resolved.
func (m *Metrics) RecordLayoutError() {
	if m == nil {
		return
	}
	m.layoutLookupsTotal.WithLabelValues(resultError).Inc()
}

// RecordTableOpen records an attempt to open a table file.
func (m *Metrics) RecordTableOpen(table string, success bool) {
	if m == nil {
		return
	}
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.tablesOpenedTotal.WithLabelValues(table, status).Inc()
}

// RecordRowDecode records one row deserialization.
func (m *Metrics) RecordRowDecode(table string, success bool) {
	if m == nil {
		return
	}
	if success {
		m.rowsDecodedTotal.WithLabelValues(table).Inc()
		return
	}
	m.decodeErrorsTotal.WithLabelValues(table).Inc()
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	if m == nil {
		return handler
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
