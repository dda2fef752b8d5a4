package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"quickride/internal/shared/config"
)

const paystackBaseURL = "https://api.paystack.co"

// paystackProvider talks to the Paystack REST API
type paystackProvider struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

// NewProvider selects the gateway implementation from configuration.
// Without a secret key the in-memory mock settles everything.
func NewProvider(cfg config.PaymentConfig) Provider {
	if cfg.SecretKey == "" {
		return NewMockProvider()
	}
	return NewPaystackProvider(cfg)
}

// NewPaystackProvider builds a Provider backed by Paystack
func NewPaystackProvider(cfg config.PaymentConfig) Provider {
	return &paystackProvider{
		secretKey: cfg.SecretKey,
		baseURL:   paystackBaseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (p *paystackProvider) InitCheckout(ctx context.Context, req InitRequest) (*CheckoutSession, error) {
	payload := map[string]interface{}{
		"email":     req.Email,
		"amount":    req.AmountMinor,
		"currency":  req.Currency,
		"reference": req.Reference,
	}
	if req.CallbackURL != "" {
		payload["callback_url"] = req.CallbackURL
	}

	var session CheckoutSession
	if err := p.do(ctx, http.MethodPost, "/transaction/initialize", payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (p *paystackProvider) VerifyTransaction(ctx context.Context, reference string) (bool, error) {
	var data struct {
		Status string `json:"status"`
	}
	err := p.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &data)
	if err != nil {
		return false, err
	}
	return data.Status == "success", nil
}

func (p *paystackProvider) RequestRefund(ctx context.Context, req RefundRequest) error {
	payload := map[string]interface{}{
		"transaction":   req.Reference,
		"amount":        req.AmountMinor,
		"merchant_note": req.Reason,
	}
	return p.do(ctx, http.MethodPost, "/refund", payload, nil)
}

func (p *paystackProvider) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body *bytes.Buffer
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode paystack request: %w", err)
		}
		body = bytes.NewBuffer(encoded)
	} else {
		body = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build paystack request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrTransactionNotFound
	}

	var envelope paystackEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode paystack response: %w", err)
	}
	if resp.StatusCode >= 400 || !envelope.Status {
		return fmt.Errorf("paystack request failed: %s", envelope.Message)
	}

	if out != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode paystack data: %w", err)
		}
	}
	return nil
}
