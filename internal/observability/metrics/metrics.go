package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (o Outcome) String() string {
	return string(o)
}

var (
	once                           sync.Once
	metricsRouter                  *chi.Mux
	clientRequestDurationHistogram *prometheus.HistogramVec
	chainCallLatency               *prometheus.HistogramVec
	scanDurationHistogram          *prometheus.HistogramVec
	priceCacheHits                 prometheus.Counter
	managerScanFailureCounter      prometheus.Counter
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics()
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Printf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics initializes and register the Prometheus metrics.
func registerMetrics() {
	defaultHistogramBucketsSeconds := []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

	// client requests are the ones sent to the upstream data sources
	clientRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "client_request_duration_seconds",
			Help:    "Histogram of outgoing client request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"baseurl", "method", "path", "status"},
	)

	chainCallLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chain_call_latency_seconds",
			Help:    "Histogram of eth_call latencies in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	scanDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "position_scan_duration_seconds",
			Help:    "Histogram of full wallet scan durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"chain", "status"},
	)

	priceCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "price_cache_hits_total",
			Help: "Total number of price lookups served from the per-invocation cache.",
		},
	)

	managerScanFailureCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "manager_scan_failures_total",
			Help: "Total number of credit managers skipped due to RPC failures.",
		},
	)

	prometheus.MustRegister(
		clientRequestDurationHistogram,
		chainCallLatency,
		scanDurationHistogram,
		priceCacheHits,
		managerScanFailureCounter,
	)
}

// RecordClientRequestDuration records the duration of an HTTP request to an
// upstream source.
func RecordClientRequestDuration(baseURL, method, path string, statusCode int, duration time.Duration) {
	if clientRequestDurationHistogram == nil {
		return
	}
	clientRequestDurationHistogram.WithLabelValues(
		baseURL, method, path, strconv.Itoa(statusCode),
	).Observe(duration.Seconds())
}

// RecordChainCallDuration records the latency of a single eth_call.
func RecordChainCallDuration(method string, outcome Outcome, duration time.Duration) {
	if chainCallLatency == nil {
		return
	}
	chainCallLatency.WithLabelValues(method, outcome.String()).Observe(duration.Seconds())
}

// RecordScanDuration records the duration of a whole wallet scan.
func RecordScanDuration(chain string, outcome Outcome, duration time.Duration) {
	if scanDurationHistogram == nil {
		return
	}
	scanDurationHistogram.WithLabelValues(chain, outcome.String()).Observe(duration.Seconds())
}

// RecordPriceCacheHit counts a price lookup answered without a network call.
func RecordPriceCacheHit() {
	if priceCacheHits == nil {
		return
	}
	priceCacheHits.Inc()
}

// RecordManagerScanFailure counts a credit manager skipped during a scan.
func RecordManagerScanFailure() {
	if managerScanFailureCounter == nil {
		return
	}
	managerScanFailureCounter.Inc()
}
