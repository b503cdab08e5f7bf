package payment

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

type WebhookProcessor struct {
	secret string
}

func NewWebhookProcessor(secret string) *WebhookProcessor {
	return &WebhookProcessor{secret: secret}
}

// Parse verifies the Stripe-Signature header and maps payment intent events.
// It returns nil, nil for event types that do not affect membership.
func (p *WebhookProcessor) Parse(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	var status Status
	switch string(event.Type) {
	case "payment_intent.succeeded":
		status = StatusSucceeded
	case "payment_intent.payment_failed":
		status = StatusFailed
	case "payment_intent.canceled":
		status = StatusCanceled
	default:
		return nil, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("decode payment intent: %w", err)
	}

	r := resultFromIntent(&pi)
	ev := &Event{
		Type:              string(event.Type),
		Status:            status,
		Email:             r.Email,
		Reference:         r.Reference,
		ProviderPaymentID: pi.ID,
	}
	if status != StatusSucceeded {
		ev.ErrorMessage = r.ErrorMessage
	}
	return ev, nil
}
