// Package metrics provides the centralized Prometheus metrics registry
// for the analytics engine.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ReportsGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "punter_edge",
		Name:      "reports_generated_total",
		Help:      "Total number of risk reports generated",
	})
	AlertsFiredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "punter_edge",
		Name:      "alerts_fired_total",
		Help:      "Total number of alerts fired by type",
	}, []string{"alert_type"})
	LedgerRecalculationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "punter_edge",
		Name:      "ledger_recalculations_total",
		Help:      "Total number of ledger balance recalculations",
	})
	SkippedRecordsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "punter_edge",
		Name:      "skipped_records_total",
		Help:      "Total number of bets dropped from return series for invalid stakes",
	})
	NotificationsSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "punter_edge",
		Name:      "notifications_sent_total",
		Help:      "Total number of webhook notifications delivered",
	})
	NotificationFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "punter_edge",
		Name:      "notification_failures_total",
		Help:      "Total number of webhook notification failures",
	})
)

// Gauge metrics
var (
	CurrentBankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "punter_edge",
		Name:      "current_bankroll",
		Help:      "Current bankroll in currency units",
	})
	CurrentRiskScore = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "punter_edge",
		Name:      "current_risk_score",
		Help:      "Most recent composite risk score",
	})
	PushClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "punter_edge",
		Name:      "push_clients",
		Help:      "Number of connected report push clients",
	})
)

// Histogram metrics
var (
	ReportDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "punter_edge",
		Name:      "report_duration_seconds",
		Help:      "Duration of risk report generation in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	LedgerRecalculationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "punter_edge",
		Name:      "ledger_recalculation_duration_seconds",
		Help:      "Duration of ledger balance recalculations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(ReportsGeneratedTotal)
		registry.MustRegister(AlertsFiredTotal)
		registry.MustRegister(LedgerRecalculationsTotal)
		registry.MustRegister(SkippedRecordsTotal)
		registry.MustRegister(NotificationsSentTotal)
		registry.MustRegister(NotificationFailuresTotal)

		// Register gauge metrics
		registry.MustRegister(CurrentBankroll)
		registry.MustRegister(CurrentRiskScore)
		registry.MustRegister(PushClients)

		// Register histogram metrics
		registry.MustRegister(ReportDuration)
		registry.MustRegister(LedgerRecalculationDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordReportGenerated records a completed risk report.
func RecordReportGenerated(duration time.Duration) {
	ReportsGeneratedTotal.Inc()
	ReportDuration.Observe(duration.Seconds())
}

// RecordAlertFired records a fired alert by type.
func RecordAlertFired(alertType string) {
	AlertsFiredTotal.WithLabelValues(alertType).Inc()
}

// RecordLedgerRecalculation records a ledger balance recalculation.
func RecordLedgerRecalculation(durationSeconds float64) {
	LedgerRecalculationsTotal.Inc()
	LedgerRecalculationDuration.Observe(durationSeconds)
}

// RecordSkippedRecords records bets dropped from a return series.
func RecordSkippedRecords(count int) {
	SkippedRecordsTotal.Add(float64(count))
}

// RecordNotificationSent records a delivered webhook notification.
func RecordNotificationSent() {
	NotificationsSentTotal.Inc()
}

// RecordNotificationFailure records a failed webhook notification.
func RecordNotificationFailure() {
	NotificationFailuresTotal.Inc()
}

// UpdateBankroll updates the current bankroll gauge.
func UpdateBankroll(amount float64) {
	CurrentBankroll.Set(amount)
}

// UpdateRiskScore updates the current risk score gauge.
func UpdateRiskScore(score float64) {
	CurrentRiskScore.Set(score)
}

// UpdatePushClients updates the connected push client gauge.
func UpdatePushClients(count int) {
	PushClients.Set(float64(count))
}
