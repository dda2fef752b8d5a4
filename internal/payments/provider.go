package payments

import (
	"context"
	"errors"
)

var (
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// InitRequest opens a checkout session with the payment provider
type InitRequest struct {
	Reference   string
	AmountMinor int64
	Currency    string
	Email       string
	CallbackURL string
}

// CheckoutSession is what the client needs to complete payment
type CheckoutSession struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// RefundRequest asks the provider to return funds for a settled charge
type RefundRequest struct {
	Reference   string
	AmountMinor int64
	Reason      string
}

// Provider abstracts the payment gateway. Amounts are always minor
// currency units.
type Provider interface {
	InitCheckout(ctx context.Context, req InitRequest) (*CheckoutSession, error)
	VerifyTransaction(ctx context.Context, reference string) (bool, error)
	RequestRefund(ctx context.Context, req RefundRequest) error
}
