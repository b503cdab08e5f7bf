package payment

import (
	"context"
	"errors"
	"strconv"
	"time"
)

var (
	ErrPaymentFailed    = errors.New("payment rejected by provider")
	ErrPaymentPending   = errors.New("payment not settled yet")
	ErrInvalidAmount    = errors.New("invalid payment amount")
	ErrProviderDown     = errors.New("payment provider unavailable")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
	StatusPending   Status = "pending"
)

// CheckoutRequest asks the provider for a payment session. Amount is the
// plan price as a plain integer string in the smallest currency unit.
type CheckoutRequest struct {
	Amount      string
	Currency    string
	Email       string
	Reference   string
	Description string
}

type Checkout struct {
	ID           string `json:"checkout_id"`
	ClientSecret string `json:"client_secret"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
}

// Result is what the provider reports after the payer approved the checkout.
type Result struct {
	ProviderPaymentID string
	Status            Status
	Email             string
	Reference         string
	Amount            int64
	Currency          string
	ErrorMessage      string
	PaidAt            time.Time
}

// Event is a provider callback reduced to what activation needs.
type Event struct {
	Type              string
	Status            Status
	Email             string
	Reference         string
	ProviderPaymentID string
	ErrorMessage      string
}

type Gateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error)
	Capture(ctx context.Context, checkoutID string) (*Result, error)
}

func FormatAmount(price int64) string {
	return strconv.FormatInt(price, 10)
}

func parseAmount(amount string) (int64, error) {
	n, err := strconv.ParseInt(amount, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidAmount
	}
	return n, nil
}

type disabledGateway struct{}

// Disabled is used when no provider key is configured.
func Disabled() Gateway { return disabledGateway{} }

func (disabledGateway) CreateCheckout(context.Context, CheckoutRequest) (*Checkout, error) {
	return nil, ErrProviderDown
}

func (disabledGateway) Capture(context.Context, string) (*Result, error) {
	return nil, ErrProviderDown
}
