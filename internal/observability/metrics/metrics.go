package metrics

import (
	"fmt"
	"net/http"
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

func (O Outcome) String() string {
	return string(O)
}

var (
	once                           sync.Once
	metricsRouter                  *chi.Mux
	ledgerOpDurationHistogram      *prometheus.HistogramVec
	bankClientLatency              *prometheus.HistogramVec
	clientRequestDurationHistogram *prometheus.HistogramVec
	pollerDurationHistogram        *prometheus.HistogramVec
	queueSendErrorCounter          prometheus.Counter
	rollbackFailureCounter         prometheus.Counter
	totalsMismatchCounter          prometheus.Counter
	totalStakedGauge               prometheus.Gauge
	activeStakesGauge              prometheus.Gauge
	rewardPoolBalanceGauge         prometheus.Gauge
	unlockableStakesGauge          prometheus.Gauge
	dbLatency                      *prometheus.HistogramVec
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
	// Create a custom server with timeout settings
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

	ledgerOpDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_op_duration_seconds",
			Help:    "Histogram of ledger operation durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"op", "status"},
	)

	bankClientLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bank_client_latency_seconds",
			Help:    "Histogram of bank client durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	// client requests are the ones sending to other service
	clientRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "client_request_duration_seconds",
			Help:    "Histogram of outgoing client request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"baseurl", "method", "path", "status"},
	)

	pollerDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poller_duration_seconds",
			Help:    "Histogram of poller durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"type", "status"},
	)

	queueSendErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_send_error_count",
			Help: "The total number of errors when publishing events to the queue",
		},
	)

	rollbackFailureCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_rollback_failure_count",
			Help: "Number of failures persisting a rollback after a rejected transfer",
		},
	)

	totalsMismatchCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_totals_mismatch_count",
			Help: "Times the total staked aggregate disagreed with the sum over active stakes",
		},
	)

	totalStakedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_total_staked",
			Help: "Sum of principal over all active stakes",
		},
	)

	activeStakesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_active_stakes",
			Help: "Number of active stakes",
		},
	)

	rewardPoolBalanceGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_reward_pool_balance",
			Help: "Tracked reward pool balance",
		},
	)

	unlockableStakesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_unlockable_stakes",
			Help: "Number of active stakes past their lock end time",
		},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "db_latency_seconds",
			Help: "DB latency in seconds splitted by method and execution status",
		},
		[]string{"method", "status"},
	)

	prometheus.MustRegister(
		ledgerOpDurationHistogram,
		bankClientLatency,
		clientRequestDurationHistogram,
		pollerDurationHistogram,
		queueSendErrorCounter,
		rollbackFailureCounter,
		totalsMismatchCounter,
		totalStakedGauge,
		activeStakesGauge,
		rewardPoolBalanceGauge,
		unlockableStakesGauge,
		dbLatency,
	)
}

func RecordLedgerOpDuration(d time.Duration, op string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	ledgerOpDurationHistogram.WithLabelValues(op, status.String()).Observe(d.Seconds())
}

func RecordBankClientLatency(d time.Duration, method string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	bankClientLatency.WithLabelValues(method, status.String()).Observe(d.Seconds())
}

func RecordDbLatency(d time.Duration, method string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	dbLatency.WithLabelValues(method, status.String()).Observe(d.Seconds())
}

func RecordQueueSendError() {
	queueSendErrorCounter.Inc()
}

func RecordRollbackFailure() {
	rollbackFailureCounter.Inc()
}

func RecordTotalsMismatch() {
	totalsMismatchCounter.Inc()
}

// RecordLedgerStats updates the ledger-wide gauges. Balances arrive as
// float64 since prometheus gauges cannot carry 128-bit integers; the
// loss of precision is acceptable for monitoring.
func RecordLedgerStats(totalStaked float64, activeStakes int, rewardPoolBalance float64, unlockableStakes int) {
	totalStakedGauge.Set(totalStaked)
	activeStakesGauge.Set(float64(activeStakes))
	rewardPoolBalanceGauge.Set(rewardPoolBalance)
	unlockableStakesGauge.Set(float64(unlockableStakes))
}

// StartClientRequestDurationTimer starts a timer to measure outgoing client request duration.
func StartClientRequestDurationTimer(baseUrl, method, path string) func(statusCode int) {
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		clientRequestDurationHistogram.WithLabelValues(
			baseUrl,
			method,
			path,
			fmt.Sprintf("%d", statusCode),
		).Observe(duration)
	}
}
