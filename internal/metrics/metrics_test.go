package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "/registrations", "201", 0.5)
	RecordHTTPRequest("POST", "/registrations", "201", 0.1)
	RecordHTTPRequest("POST", "/registrations", "409", 0.05)

	assert.Equal(t, float64(2), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/registrations", "201")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/registrations", "409")))
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration))
}

func TestRecordRegistration(t *testing.T) {
	RegistrationsTotal.Reset()

	RecordRegistration("player", "activated")
	RecordRegistration("club", "awaiting_payment")
	RecordRegistration("club", "awaiting_payment")

	assert.Equal(t, float64(1), testutil.ToFloat64(RegistrationsTotal.WithLabelValues("player", "activated")))
	assert.Equal(t, float64(2), testutil.ToFloat64(RegistrationsTotal.WithLabelValues("club", "awaiting_payment")))
}

func TestRecordWorkflowErrorAndActivation(t *testing.T) {
	WorkflowErrorsTotal.Reset()
	ActivationsTotal.Reset()

	RecordWorkflowError("duplicate")
	RecordWorkflowError("duplicate")
	RecordActivation("partner")

	assert.Equal(t, float64(2), testutil.ToFloat64(WorkflowErrorsTotal.WithLabelValues("duplicate")))
	assert.Equal(t, float64(1), testutil.ToFloat64(ActivationsTotal.WithLabelValues("partner")))
}

func TestRecordPayment(t *testing.T) {
	PaymentsTotal.Reset()

	RecordPayment("succeeded")
	RecordPayment("failed")
	RecordPayment("failed")

	assert.Equal(t, float64(1), testutil.ToFloat64(PaymentsTotal.WithLabelValues("succeeded")))
	assert.Equal(t, float64(2), testutil.ToFloat64(PaymentsTotal.WithLabelValues("failed")))
}

func TestRecordEmail(t *testing.T) {
	EmailsSentTotal.Reset()

	RecordEmail("membership_confirmation", "sent")
	RecordEmail("membership_confirmation", "failed")
	RecordEmail("test", "sent")

	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("membership_confirmation", "sent")))
	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("membership_confirmation", "failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("test", "sent")))
}

func TestEmailQueueLength(t *testing.T) {
	SetEmailQueueLength(10)
	assert.Equal(t, float64(10), testutil.ToFloat64(EmailQueueLength))

	SetEmailQueueLength(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(EmailQueueLength))
}

func TestRecordCatalogFallback(t *testing.T) {
	testCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "esportfed_catalog_fallbacks_total_test",
		Help: "test",
	})

	old := CatalogFallbacksTotal
	CatalogFallbacksTotal = testCounter
	defer func() { CatalogFallbacksTotal = old }()

	RecordCatalogFallback()
	RecordCatalogFallback()

	assert.Equal(t, float64(2), testutil.ToFloat64(testCounter))
}

func TestRecordExpired(t *testing.T) {
	testCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "esportfed_members_expired_total_test",
		Help: "test",
	})

	old := MembersExpiredTotal
	MembersExpiredTotal = testCounter
	defer func() { MembersExpiredTotal = old }()

	RecordExpired(3)
	RecordExpired(0)

	assert.Equal(t, float64(3), testutil.ToFloat64(testCounter))
}

func TestRecordTransition(t *testing.T) {
	WorkflowTransitionsTotal.Reset()

	RecordTransition("validating")
	RecordTransition("awaiting_payment")
	RecordTransition("validating")

	assert.Equal(t, float64(2), testutil.ToFloat64(WorkflowTransitionsTotal.WithLabelValues("validating")))
}
