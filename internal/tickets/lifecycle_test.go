package tickets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		stored    Status
		departure time.Time
		want      Status
	}{
		{"active before departure", StatusActive, now.Add(3 * time.Hour), StatusActive},
		{"completed after departure", StatusActive, now.Add(-1 * time.Hour), StatusCompleted},
		{"still active at exact departure", StatusActive, now, StatusActive},
		{"cancelled is sticky before departure", StatusCancelled, now.Add(3 * time.Hour), StatusCancelled},
		{"cancelled is sticky after departure", StatusCancelled, now.Add(-3 * time.Hour), StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.stored, tt.departure, now))
		})
	}
}

func TestRefundQuote_earlyTier(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// 25 hours out: 90% refund
	refund, err := RefundQuote(5000, now.Add(25*time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, int64(4500), refund)

	// Exactly 24 hours still qualifies
	refund, err = RefundQuote(5000, now.Add(24*time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, int64(4500), refund)
}

func TestRefundQuote_lateTier(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// Just under 24 hours drops to 50%
	refund, err := RefundQuote(5000, now.Add(24*time.Hour-time.Minute), now)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), refund)

	// Exactly 2 hours still qualifies
	refund, err = RefundQuote(5000, now.Add(2*time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), refund)
}

func TestRefundQuote_tooLate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	_, err := RefundQuote(5000, now.Add(2*time.Hour-time.Minute), now)
	assert.ErrorIs(t, err, ErrTooLateToCancel)

	// Departed trips cannot be cancelled either
	_, err = RefundQuote(5000, now.Add(-time.Hour), now)
	assert.ErrorIs(t, err, ErrTooLateToCancel)
}

func TestRefundQuote_roundsDown(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	refund, err := RefundQuote(333, now.Add(48*time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, int64(299), refund)
}

func TestFilterByStatus(t *testing.T) {
	results := []TicketResponse{
		{TicketNumber: "QR0000011", Status: "ACTIVE"},
		{TicketNumber: "QR0000012", Status: "COMPLETED"},
		{TicketNumber: "QR0000013", Status: "CANCELLED"},
	}

	assert.Len(t, filterByStatus(results, ""), 3)
	assert.Len(t, filterByStatus(results, "all"), 3)

	active := filterByStatus(results, "active")
	require.Len(t, active, 1)
	assert.Equal(t, "QR0000011", active[0].TicketNumber)

	cancelled := filterByStatus(results, "CANCELLED")
	require.Len(t, cancelled, 1)
	assert.Equal(t, "QR0000013", cancelled[0].TicketNumber)

	assert.Empty(t, filterByStatus(results, "BOGUS"))
}
