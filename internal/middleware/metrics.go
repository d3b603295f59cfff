package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gold_assistant_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gold_assistant_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// Response kind metrics
	responsesProduced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gold_assistant_responses_total",
		Help: "Total number of chat responses by kind",
	}, []string{"kind"})

	// Generative backend metrics
	generativeRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gold_assistant_generative_request_duration_seconds",
		Help:    "Duration of generative backend requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	generativeRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gold_assistant_generative_requests_total",
		Help: "Total number of generative backend requests",
	}, []string{"status"})

	// Cache metrics
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gold_assistant_cache_hits_total",
		Help: "Total number of response cache hits",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gold_assistant_cache_misses_total",
		Help: "Total number of response cache misses",
	})

	cacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gold_assistant_cache_size",
		Help: "Number of live response cache entries",
	})

	// Provider metrics
	priceFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gold_assistant_price_fetches_total",
		Help: "Total number of price fetches by source",
	}, []string{"source"})

	// Rate limit metrics
	rateLimitExceeded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gold_assistant_rate_limit_exceeded_total",
		Help: "Total number of rate limit exceeded events",
	}, []string{"user_id"})
)

// Metrics provides methods to record metrics
type Metrics struct{}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordRequest records a completed HTTP request
func (m *Metrics) RecordRequest(endpoint string, status int, duration time.Duration) {
	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordResponseKind records how a chat response was produced
func (m *Metrics) RecordResponseKind(kind string) {
	responsesProduced.WithLabelValues(kind).Inc()
}

// RecordGenerativeRequest records a generative backend request
func (m *Metrics) RecordGenerativeRequest(status string, duration time.Duration) {
	generativeRequestDuration.WithLabelValues(status).Observe(duration.Seconds())
	generativeRequestsTotal.WithLabelValues(status).Inc()
}

// RecordCacheHit records a response cache hit
func (m *Metrics) RecordCacheHit() {
	cacheHits.Inc()
}

// RecordCacheMiss records a response cache miss
func (m *Metrics) RecordCacheMiss() {
	cacheMisses.Inc()
}

// SetCacheSize sets the current cache size gauge
func (m *Metrics) SetCacheSize(size float64) {
	cacheSize.Set(size)
}

// RecordPriceFetch records which source served a price quote
func (m *Metrics) RecordPriceFetch(source string) {
	priceFetches.WithLabelValues(source).Inc()
}

// RecordRateLimitExceeded records a rate limit exceeded event
func (m *Metrics) RecordRateLimitExceeded(userID string) {
	rateLimitExceeded.WithLabelValues(userID).Inc()
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Instrument wraps a mux router with request metrics.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tmpl
			}
		}
		m.RecordRequest(endpoint, recorder.status, time.Since(start))
	})
}

// StartMetricsServer starts the metrics HTTP server
func StartMetricsServer(port int, path string) error {
	router := mux.NewRouter()
	router.Handle(path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
