package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

const (
	metadataEmail     = "email"
	metadataReference = "reference"
)

// IntentAPI is the part of the Stripe PaymentIntents client the gateway uses.
type IntentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type StripeGateway struct {
	intents IntentAPI
}

func NewStripeGateway(apiKey string) *StripeGateway {
	sc := &client.API{}
	sc.Init(apiKey, nil)
	return NewStripeGatewayWithAPI(sc.PaymentIntents)
}

func NewStripeGatewayWithAPI(intents IntentAPI) *StripeGateway {
	return &StripeGateway{intents: intents}
}

func (g *StripeGateway) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentParams{
		Amount:       stripe.Int64(amount),
		Currency:     stripe.String(strings.ToLower(req.Currency)),
		ReceiptEmail: stripe.String(req.Email),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	params.AddMetadata(metadataEmail, req.Email)
	params.AddMetadata(metadataReference, req.Reference)
	params.Context = ctx

	pi, err := g.intents.New(params)
	if err != nil {
		return nil, mapStripeError(err)
	}

	return &Checkout{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       req.Amount,
		Currency:     strings.ToUpper(req.Currency),
	}, nil
}

// Capture reads the intent back and succeeds only when Stripe reports it settled.
func (g *StripeGateway) Capture(ctx context.Context, checkoutID string) (*Result, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.intents.Get(checkoutID, params)
	if err != nil {
		return nil, mapStripeError(err)
	}

	result := resultFromIntent(pi)
	switch result.Status {
	case StatusSucceeded:
		result.PaidAt = time.Now().UTC()
		return result, nil
	case StatusPending:
		return result, ErrPaymentPending
	default:
		return result, fmt.Errorf("%w: %s", ErrPaymentFailed, result.ErrorMessage)
	}
}

func resultFromIntent(pi *stripe.PaymentIntent) *Result {
	r := &Result{
		ProviderPaymentID: pi.ID,
		Status:            statusFromIntent(pi.Status),
		Email:             pi.Metadata[metadataEmail],
		Reference:         pi.Metadata[metadataReference],
		Amount:            pi.Amount,
		Currency:          strings.ToUpper(string(pi.Currency)),
	}
	if r.Email == "" {
		r.Email = pi.ReceiptEmail
	}
	if pi.LastPaymentError != nil {
		r.ErrorMessage = pi.LastPaymentError.Msg
	}
	if r.ErrorMessage == "" && pi.Status == stripe.PaymentIntentStatusCanceled {
		r.ErrorMessage = "payment canceled"
		if pi.CancellationReason != "" {
			r.ErrorMessage = "payment canceled: " + string(pi.CancellationReason)
		}
	}
	if r.ErrorMessage == "" && r.Status == StatusFailed {
		r.ErrorMessage = "payment method required"
	}
	return r
}

func statusFromIntent(s stripe.PaymentIntentStatus) Status {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return StatusSucceeded
	case stripe.PaymentIntentStatusCanceled:
		return StatusCanceled
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		return StatusFailed
	default:
		return StatusPending
	}
}

func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Code {
		case stripe.ErrorCodeCardDeclined:
			return fmt.Errorf("%w: card was declined (%s)", ErrPaymentFailed, stripeErr.Msg)
		case stripe.ErrorCodeExpiredCard:
			return fmt.Errorf("%w: card has expired", ErrPaymentFailed)
		case stripe.ErrorCodeBalanceInsufficient:
			return fmt.Errorf("%w: insufficient funds", ErrPaymentFailed)
		case stripe.ErrorCodeAmountTooSmall, stripe.ErrorCodeAmountTooLarge:
			return fmt.Errorf("%w: %s", ErrInvalidAmount, stripeErr.Msg)
		}

		if stripeErr.HTTPStatusCode >= http.StatusInternalServerError || stripeErr.HTTPStatusCode == http.StatusTooManyRequests {
			return ErrProviderDown
		}
		return fmt.Errorf("%w: %s", ErrPaymentFailed, stripeErr.Msg)
	}
	return fmt.Errorf("%w: %v", ErrProviderDown, err)
}
