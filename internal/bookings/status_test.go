package bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatusFor(t *testing.T) {
	assert.Equal(t, PaymentPending, PaymentStatusFor(StatusPending))
	assert.Equal(t, PaymentCompleted, PaymentStatusFor(StatusConfirmed))
	assert.Equal(t, PaymentCancelled, PaymentStatusFor(StatusCancelled))
	assert.Equal(t, PaymentRefunded, PaymentStatusFor(StatusFailedAllocation))
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.HoldsInventory())
	assert.True(t, StatusConfirmed.HoldsInventory())
	assert.False(t, StatusCancelled.HoldsInventory())
	assert.False(t, StatusFailedAllocation.HoldsInventory())

	assert.False(t, StatusPending.IsSettled())
	assert.True(t, StatusConfirmed.IsSettled())
	assert.True(t, StatusFailedAllocation.IsSettled())
}
