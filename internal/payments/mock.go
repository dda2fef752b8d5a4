package payments

import (
	"context"
	"sync"
)

// mockProvider settles every charge instantly. Used when no gateway
// secret key is configured, and in tests.
type mockProvider struct {
	mu       sync.Mutex
	sessions map[string]int64
	refunds  map[string]int64
}

// NewMockProvider builds an in-memory Provider
func NewMockProvider() Provider {
	return &mockProvider{
		sessions: make(map[string]int64),
		refunds:  make(map[string]int64),
	}
}

func (p *mockProvider) InitCheckout(ctx context.Context, req InitRequest) (*CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sessions[req.Reference] = req.AmountMinor
	return &CheckoutSession{
		AuthorizationURL: "https://checkout.example.test/" + req.Reference,
		AccessCode:       "mock_" + req.Reference,
		Reference:        req.Reference,
	}, nil
}

func (p *mockProvider) VerifyTransaction(ctx context.Context, reference string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.sessions[reference]; !ok {
		return false, ErrTransactionNotFound
	}
	return true, nil
}

func (p *mockProvider) RequestRefund(ctx context.Context, req RefundRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.sessions[req.Reference]; !ok {
		return ErrTransactionNotFound
	}
	p.refunds[req.Reference] += req.AmountMinor
	return nil
}
