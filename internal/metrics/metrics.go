package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/campwire/community-core/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Credential metrics

	RegistrationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "community",
		Name:      "registrations_total",
		Help:      "Total successful account registrations.",
	})

	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "community",
		Name:      "logins_total",
		Help:      "Total login attempts, by outcome.",
	}, []string{"outcome"})

	RateLimitRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "community",
		Name:      "rate_limit_rejections_total",
		Help:      "Requests rejected by the credential-endpoint rate gate.",
	}, []string{"path"})

	// Bookmark ledger metrics

	BookmarkTogglesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "community",
		Name:      "bookmark_toggles_total",
		Help:      "Total bookmark toggles, by resulting state.",
	}, []string{"result"})

	RelationshipRepairsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "community",
		Name:      "relationship_repairs_total",
		Help:      "Account bookmark caches rewritten by reconciliation.",
	})

	ReconcileCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "community",
		Name:      "reconcile_cycle_duration_seconds",
		Help:      "Time taken for one full reconciliation sweep.",
		Buckets:   prometheus.DefBuckets,
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "community",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "community",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		RegistrationsTotal,
		LoginsTotal,
		RateLimitRejectionsTotal,
		BookmarkTogglesTotal,
		RelationshipRepairsTotal,
		ReconcileCycleDuration,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves Prometheus metrics plus the liveness/readiness probes on
// the internal port.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if result.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(result)
}
