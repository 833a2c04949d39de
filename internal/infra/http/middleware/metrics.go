package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	signaturesSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signatures_saved_total",
			Help: "Total number of signatures saved",
		},
		[]string{"result"},
	)

	signaturesCleared = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "signatures_cleared_total",
			Help: "Total number of signature records removed by clear-all",
		},
	)

	approverNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "approver_notifications_total",
			Help: "Total number of approval notification attempts by outcome",
		},
		[]string{"outcome"},
	)

	completionPercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "campaign_completion_percent",
			Help: "Share of roster employees who have signed",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern keeps label cardinality bounded: static asset paths all
// collapse into the catch-all pattern.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func RecordSignatureSaved(created bool) {
	result := "updated"
	if created {
		result = "created"
	}
	signaturesSaved.WithLabelValues(result).Inc()
}

func RecordSignaturesCleared(deleted int) {
	signaturesCleared.Add(float64(deleted))
}

func RecordApproverNotification(outcome string) {
	approverNotifications.WithLabelValues(outcome).Inc()
}

func RecordCompletion(percent int) {
	completionPercent.Set(float64(percent))
}
