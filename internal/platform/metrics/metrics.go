// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups HTTP and reconciliation collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	webhooksTotal          *prometheus.CounterVec
	donationsReconciled    prometheus.Counter
	donationAmountTotal    *prometheus.CounterVec
	ledgerRecordDuration   *prometheus.HistogramVec
	reconciliationFailures *prometheus.CounterVec
}

// New registers all collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		httpRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency distributions.",
			Buckets: []float64{0.1, 0.3, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "path"}),
		webhooksTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "heartchain_webhooks_total",
			Help: "Webhook deliveries by terminal status.",
		}, []string{"status"}),
		donationsReconciled: f.NewCounter(prometheus.CounterOpts{
			Name: "heartchain_donations_reconciled_total",
			Help: "Donations fully reconciled onto the ledger.",
		}),
		donationAmountTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "heartchain_donation_amount_paise_total",
			Help: "Total reconciled donation amount in paise.",
		}, []string{"payment_method"}),
		ledgerRecordDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "heartchain_ledger_record_duration_seconds",
			Help:    "Time spent writing one ledger record.",
			Buckets: []float64{0.01, 0.1, 1, 5, 15, 30, 60, 120},
		}, []string{"mode", "result"}),
		reconciliationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "heartchain_reconciliation_failures_total",
			Help: "Reconciliation failures by step.",
		}, []string{"step"}),
	}
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, path, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// WebhookHandled counts a webhook delivery by its terminal status.
func (m *Metrics) WebhookHandled(status string) {
	if m == nil {
		return
	}
	m.webhooksTotal.WithLabelValues(status).Inc()
}

// DonationReconciled counts a reconciled donation and its amount.
func (m *Metrics) DonationReconciled(paymentMethod string, amountMinor int64) {
	if m == nil {
		return
	}
	m.donationsReconciled.Inc()
	m.donationAmountTotal.WithLabelValues(paymentMethod).Add(float64(amountMinor))
}

// LedgerRecorded observes one ledger write.
func (m *Metrics) LedgerRecorded(mode string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ledgerRecordDuration.WithLabelValues(mode, result).Observe(elapsed.Seconds())
}

// ReconciliationFailed counts a failure at the named step.
func (m *Metrics) ReconciliationFailed(step string) {
	if m == nil {
		return
	}
	m.reconciliationFailures.WithLabelValues(step).Inc()
}
