package email

import (
	"context"
	"fmt"
	"time"
)

type Enqueuer interface {
	Enqueue(ctx context.Context, req Request) (Result, error)
}

// Dispatcher builds the membership emails on top of the Email Function.
type Dispatcher struct {
	queue Enqueuer
}

func NewDispatcher(queue Enqueuer) *Dispatcher {
	return &Dispatcher{queue: queue}
}

// SendMembershipConfirmation queues the welcome email. A zero validUntil
// leaves the validity line out.
func (d *Dispatcher) SendMembershipConfirmation(ctx context.Context, name, email, planName, memberID string, validUntil time.Time) error {
	data := map[string]any{
		"Name":     name,
		"PlanName": planName,
		"MemberID": memberID,
	}
	if !validUntil.IsZero() {
		data["EndDate"] = validUntil.Format("02/01/2006")
	}

	res, err := d.queue.Enqueue(ctx, Request{
		TemplateType:   TemplateMembershipConfirmation,
		RecipientEmail: email,
		RecipientName:  name,
		TemplateData:   data,
	})
	if err != nil {
		return fmt.Errorf("membership confirmation: %w", err)
	}
	if !res.Success {
		return fmt.Errorf("membership confirmation not accepted for %s", email)
	}
	return nil
}

func (d *Dispatcher) SendPaymentReceived(ctx context.Context, name, email, planName, amount, currency, paymentID string) error {
	_, err := d.queue.Enqueue(ctx, Request{
		TemplateType:   TemplatePaymentReceived,
		RecipientEmail: email,
		RecipientName:  name,
		TemplateData: map[string]any{
			"Name":      name,
			"PlanName":  planName,
			"Amount":    amount,
			"Currency":  currency,
			"PaymentID": paymentID,
		},
	})
	if err != nil {
		return fmt.Errorf("payment receipt: %w", err)
	}
	return nil
}
