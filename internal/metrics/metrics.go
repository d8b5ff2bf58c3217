// Package metrics exposes Prometheus metrics for both API surfaces.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dangerzone"

type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal          *prometheus.CounterVec
	RequestDurationSeconds *prometheus.HistogramVec
	AuthorizationDecisions *prometheus.CounterVec
}

// New creates metrics on a private registry so tests and multiple instances do not collide.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by API surface, method and status.",
			},
			[]string{"api", "method", "status"},
		),
		RequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2.5, 10),
			},
			[]string{"api", "method"},
		),
		AuthorizationDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "authorization_decisions_total",
				Help:      "Clearance policy decisions by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
	}
	reg.MustRegister(m.RequestsTotal, m.RequestDurationSeconds, m.AuthorizationDecisions)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveDecision records one clearance policy outcome.
func (m *Metrics) ObserveDecision(operation string, allowed bool) {
	outcome := "deny"
	if allowed {
		outcome = "allow"
	}
	m.AuthorizationDecisions.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) observe(api, method string, status int, d time.Duration) {
	m.RequestsTotal.WithLabelValues(api, method, strconv.Itoa(status)).Inc()
	m.RequestDurationSeconds.WithLabelValues(api, method).Observe(d.Seconds())
}

// Gin instruments a gin engine.
func (m *Metrics) Gin(api string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.observe(api, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}

// HTTP instruments a plain net/http handler.
func (m *Metrics) HTTP(api string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		m.observe(api, r.Method, sw.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
