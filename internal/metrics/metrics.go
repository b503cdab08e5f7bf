package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esportfed_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "esportfed_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esportfed_registrations_total",
			Help: "Registrations by member category and outcome",
		},
		[]string{"category", "outcome"},
	)

	WorkflowErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esportfed_workflow_errors_total",
			Help: "Activation workflow errors by kind",
		},
		[]string{"kind"},
	)

	WorkflowTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esportfed_workflow_transitions_total",
			Help: "Activation workflow transitions by target state",
		},
		[]string{"state"},
	)

	ActivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esportfed_activations_total",
			Help: "Members activated by category",
		},
		[]string{"category"},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esportfed_payments_total",
			Help: "Payment callbacks by outcome",
		},
		[]string{"outcome"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esportfed_emails_sent_total",
			Help: "Total number of emails processed",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "esportfed_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	CatalogFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "esportfed_catalog_fallbacks_total",
			Help: "Times the built-in plan set was served instead of the plan store",
		},
	)

	MembersExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "esportfed_members_expired_total",
			Help: "Members moved to expired by the scheduler",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordRegistration(category, outcome string) {
	RegistrationsTotal.WithLabelValues(category, outcome).Inc()
}

func RecordWorkflowError(kind string) {
	WorkflowErrorsTotal.WithLabelValues(kind).Inc()
}

func RecordTransition(state string) {
	WorkflowTransitionsTotal.WithLabelValues(state).Inc()
}

func RecordActivation(category string) {
	ActivationsTotal.WithLabelValues(category).Inc()
}

func RecordPayment(outcome string) {
	PaymentsTotal.WithLabelValues(outcome).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func SetEmailQueueLength(n int64) {
	EmailQueueLength.Set(float64(n))
}

func RecordCatalogFallback() {
	CatalogFallbacksTotal.Inc()
}

func RecordExpired(n int64) {
	MembersExpiredTotal.Add(float64(n))
}
