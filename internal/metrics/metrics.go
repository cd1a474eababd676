package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks total HTTP requests served by the transport.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// OrdersSubmitted tracks drafts accepted by the authority.
	OrdersSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_submitted_total",
			Help: "Total number of orders accepted by the remote authority",
		},
	)

	// StatusChanges tracks status-change reconciliation outcomes
	// (confirmed, rolled_back, rejected, dropped).
	StatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_status_changes_total",
			Help: "Status change outcomes after reconciliation",
		},
		[]string{"outcome"},
	)

	// OrdersCached tracks the size of the local order cache.
	OrdersCached = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "orders_cached",
			Help: "Number of orders currently held in the local cache",
		},
	)

	// AuthorityRequestDuration tracks calls to the remote authority.
	AuthorityRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "authority_request_duration_seconds",
			Help:    "Remote authority request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// CircuitBreakerState tracks the authority circuit breaker
	// (0=closed, 1=open, 2=half-open).
	CircuitBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "authority_circuit_breaker_state",
			Help: "Authority circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
	)
)

// Middleware records request counts and durations for every route.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		// The route pattern keeps label cardinality bounded; the raw path
		// would mint a label value per order id. It is only known after
		// routing, so it must be read after the handler ran.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		RequestsTotal.WithLabelValues(
			r.Method,
			path,
			strconv.Itoa(ww.Status()),
		).Inc()
		RequestDuration.WithLabelValues(r.Method, path).
			Observe(time.Since(start).Seconds())
	})
}

// ObserveAuthority times one remote authority call.
func ObserveAuthority(operation string, start time.Time) {
	AuthorityRequestDuration.WithLabelValues(operation).
		Observe(time.Since(start).Seconds())
}
