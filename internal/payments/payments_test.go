package payments

import (
	"context"
	"regexp"
	"testing"

	"quickride/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReference_format(t *testing.T) {
	pattern := regexp.MustCompile(`^QR_\d+_[0-9a-f]{8}$`)

	ref := NewReference()
	assert.Regexp(t, pattern, ref)

	// References must not collide
	assert.NotEqual(t, ref, NewReference())
}

func TestNewProvider_selectsMockWithoutSecretKey(t *testing.T) {
	provider := NewProvider(config.PaymentConfig{Currency: "GHS"})

	_, ok := provider.(*mockProvider)
	assert.True(t, ok)
}

func TestNewProvider_selectsPaystackWithSecretKey(t *testing.T) {
	provider := NewProvider(config.PaymentConfig{Currency: "GHS", SecretKey: "sk_test_xyz"})

	_, ok := provider.(*paystackProvider)
	assert.True(t, ok)
}

func TestMockProvider_fullFlow(t *testing.T) {
	provider := NewMockProvider()
	ctx := context.Background()

	session, err := provider.InitCheckout(ctx, InitRequest{
		Reference:   "QR_1_abcd1234",
		AmountMinor: 4500,
		Currency:    "GHS",
		Email:       "ama.mensah@gmail.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "QR_1_abcd1234", session.Reference)
	assert.NotEmpty(t, session.AuthorizationURL)

	settled, err := provider.VerifyTransaction(ctx, "QR_1_abcd1234")
	require.NoError(t, err)
	assert.True(t, settled)

	err = provider.RequestRefund(ctx, RefundRequest{Reference: "QR_1_abcd1234", AmountMinor: 4500})
	assert.NoError(t, err)
}

func TestMockProvider_unknownReference(t *testing.T) {
	provider := NewMockProvider()
	ctx := context.Background()

	_, err := provider.VerifyTransaction(ctx, "QR_unknown")
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	err = provider.RequestRefund(ctx, RefundRequest{Reference: "QR_unknown", AmountMinor: 100})
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}
