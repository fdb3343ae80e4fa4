// Package metrics holds the Prometheus collectors for the HTTP surface and
// the catalog and login operations.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cafes",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cafes",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cafes",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path"},
	)

	catalogWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cafes",
			Subsystem: "catalog",
			Name:      "writes_total",
			Help:      "Cafe catalog writes by operation and result.",
		},
		[]string{"op", "result"},
	)

	logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cafes",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		catalogWrites,
		logins,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted marks a request in flight and returns the function that
// records its outcome.
func RequestStarted() func(method, path string, status int) {
	start := time.Now()
	httpInFlight.Inc()
	return func(method, path string, status int) {
		httpInFlight.Dec()
		if path == "" {
			path = "unmatched"
		}
		method = strings.ToUpper(method)
		httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordCatalogWrite counts a create, update or delete on the catalog.
func RecordCatalogWrite(op string, err error) {
	catalogWrites.WithLabelValues(op, result(err)).Inc()
}

// RecordLogin counts a login attempt.
func RecordLogin(err error) {
	logins.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
