package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bankist_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bankist_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Ledger Metrics
	TransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bankist_transactions_total",
			Help: "Total number of ledger operations",
		},
		[]string{"type", "status"},
	)

	TransactionAmount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bankist_transaction_amount",
			Help:    "Amounts of posted ledger operations",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000, 100000},
		},
		[]string{"type"},
	)

	TransactionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bankist_transaction_errors_total",
			Help: "Total number of rejected ledger operations",
		},
		[]string{"type", "error_type"},
	)

	// Account Metrics
	AccountsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bankist_accounts_total",
			Help: "Number of open accounts",
		},
	)

	AccountsClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bankist_accounts_closed_total",
			Help: "Total number of closed accounts",
		},
	)

	// Session Metrics
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bankist_auth_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"status"},
	)

	SessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bankist_sessions_started_total",
			Help: "Total number of sessions opened",
		},
	)

	SessionsEnded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bankist_sessions_ended_total",
			Help: "Total number of sessions ended",
		},
		[]string{"reason"},
	)

	// System Metrics
	SystemInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bankist_system_info",
			Help: "System information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, endpoint string, status int, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordTransaction records a posted ledger operation
func RecordTransaction(txnType string, amount float64) {
	TransactionsTotal.WithLabelValues(txnType, "success").Inc()
	TransactionAmount.WithLabelValues(txnType).Observe(amount)
}

// RecordTransactionError records a rejected ledger operation
func RecordTransactionError(txnType, errorType string) {
	TransactionsTotal.WithLabelValues(txnType, "failed").Inc()
	TransactionErrors.WithLabelValues(txnType, errorType).Inc()
}

// RecordAuthAttempt records a login attempt
func RecordAuthAttempt(success bool) {
	status := "failed"
	if success {
		status = "success"
		SessionsStarted.Inc()
	}
	AuthAttemptsTotal.WithLabelValues(status).Inc()
}

// RecordSessionEnded records a session ending by logout or close
func RecordSessionEnded(reason string) {
	SessionsEnded.WithLabelValues(reason).Inc()
}

// SetAccountCount updates the open accounts gauge
func SetAccountCount(count int) {
	AccountsTotal.Set(float64(count))
}

// RecordAccountClosed records a closed account
func RecordAccountClosed() {
	AccountsClosed.Inc()
}

// SetSystemInfo sets system information metrics
func SetSystemInfo(version, goVersion string) {
	SystemInfo.WithLabelValues(version, goVersion).Set(1)
}
