package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpDurationHistogram  *prometheus.HistogramVec
	transferAttemptCounter *prometheus.CounterVec
	workerRunCounter       *prometheus.CounterVec
	runCounter             *prometheus.CounterVec
	runDurationHistogram   prometheus.Histogram
	transactionsCounter    prometheus.Counter
	ledgerImbalanceCounter *prometheus.CounterVec
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		transferAttemptCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sim_transfer_attempts_total",
			Help: "Transfer attempts by outcome",
		}, []string{"outcome"})

		workerRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_runs_total",
			Help: "Transfer worker run outcomes",
		}, []string{"worker", "result"})

		runCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sim_runs_total",
			Help: "Simulation runs by result",
		}, []string{"result"})

		runDurationHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sim_run_duration_seconds",
			Help:    "Wall-clock duration of simulation runs",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		})

		transactionsCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sim_transactions_total",
			Help: "Debit and credit operations applied by finished runs",
		})

		ledgerImbalanceCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_imbalance_total",
			Help: "Reconciliation checks that found the ledger out of balance",
		}, []string{"check"})

		prometheus.MustRegister(
			httpDurationHistogram,
			transferAttemptCounter,
			workerRunCounter,
			runCounter,
			runDurationHistogram,
			transactionsCounter,
			ledgerImbalanceCounter,
		)
	})
}

func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

// AddTransferAttempts records n attempts that ended with outcome.
func AddTransferAttempts(outcome string, n uint64) {
	if transferAttemptCounter == nil || n == 0 {
		return
	}
	transferAttemptCounter.WithLabelValues(outcome).Add(float64(n))
}

func IncrementWorkerRun(worker, result string) {
	if workerRunCounter == nil {
		return
	}
	workerRunCounter.WithLabelValues(worker, result).Inc()
}

// ObserveRun records a finished simulation run.
func ObserveRun(result string, duration time.Duration, transactions uint64) {
	if runCounter == nil {
		return
	}
	runCounter.WithLabelValues(result).Inc()
	runDurationHistogram.Observe(duration.Seconds())
	transactionsCounter.Add(float64(transactions))
}

func IncrementLedgerImbalance(check string) {
	if ledgerImbalanceCounter == nil {
		return
	}
	ledgerImbalanceCounter.WithLabelValues(check).Inc()
}
