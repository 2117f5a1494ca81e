package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics names as constants for consistency.
const (
	MetricHTTPRequestsTotal   = "elcfinder_http_requests_total"
	MetricHTTPRequestDuration = "elcfinder_http_request_duration_seconds"
	MetricSchoolsLoaded       = "elcfinder_schools_loaded"
	MetricSourceReloads       = "elcfinder_source_reloads_total"
)

// Reload results used as the result label.
const (
	ReloadSuccess = "success"
	ReloadError   = "error"
)

// Metrics contains Prometheus metrics for the HTTP API.
// All operations are thread-safe.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	schoolsLoaded       prometheus.Gauge
	sourceReloads       *prometheus.CounterVec
}

// NewMetrics creates and returns a new Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricHTTPRequestsTotal,
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPRequestDuration,
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"method", "path", "status"},
		),
		schoolsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricSchoolsLoaded,
			Help: "Number of schools in the active snapshot",
		}),
		sourceReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSourceReloads,
				Help: "Total number of source loads by result",
			},
			[]string{"result"},
		),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns all Prometheus collectors.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.schoolsLoaded,
		m.sourceReloads,
	}
}

// SetSchoolsLoaded records the size of the active snapshot.
func (m *Metrics) SetSchoolsLoaded(n int) {
	m.schoolsLoaded.Set(float64(n))
}

// IncSourceReload counts a source load with its result.
func (m *Metrics) IncSourceReload(result string) {
	m.sourceReloads.WithLabelValues(result).Inc()
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	m.httpRequestsTotal.WithLabelValues(method, path, code).Inc()
	m.httpRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

// Middleware records request metrics labelled by the matched chi route pattern,
// which keeps label cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.ObserveRequest(r.Method, path, status, time.Since(start))
	})
}
