package tickets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatLabels(t *testing.T) {
	labels := SeatLabels(10)

	require.Len(t, labels, 10)
	assert.Equal(t, []string{"1A", "1B", "1C", "1D", "2A", "2B", "2C", "2D", "3A", "3B"}, labels)
}

func TestSeatLabels_fullRows(t *testing.T) {
	labels := SeatLabels(8)

	require.Len(t, labels, 8)
	assert.Equal(t, "1A", labels[0])
	assert.Equal(t, "2D", labels[7])
}

func TestSeatLabels_zeroCapacity(t *testing.T) {
	assert.Empty(t, SeatLabels(0))
}

func TestAssignSeats_firstFree(t *testing.T) {
	assigned, err := AssignSeats(12, nil, 3)

	require.NoError(t, err)
	assert.Equal(t, []string{"1A", "1B", "1C"}, assigned)
}

func TestAssignSeats_skipsTaken(t *testing.T) {
	assigned, err := AssignSeats(12, []string{"1A", "1C", "2A"}, 3)

	require.NoError(t, err)
	assert.Equal(t, []string{"1B", "1D", "2B"}, assigned)
}

func TestAssignSeats_deterministic(t *testing.T) {
	taken := []string{"1B", "2D"}

	first, err := AssignSeats(20, taken, 4)
	require.NoError(t, err)

	second, err := AssignSeats(20, taken, 4)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAssignSeats_exhausted(t *testing.T) {
	taken := SeatLabels(8)[:6]

	_, err := AssignSeats(8, taken, 3)

	assert.ErrorIs(t, err, ErrSeatsExhausted)
}

func TestAssignSeats_exactFit(t *testing.T) {
	taken := SeatLabels(8)[:6]

	assigned, err := AssignSeats(8, taken, 2)

	require.NoError(t, err)
	assert.Equal(t, []string{"2C", "2D"}, assigned)
}

func TestTicketNumber(t *testing.T) {
	issuedAt := time.UnixMilli(1724918400123)

	first := ticketNumber(issuedAt, 1)
	second := ticketNumber(issuedAt, 2)

	assert.Regexp(t, `^QR4001231-[0-9a-f]{8}$`, first)
	assert.Regexp(t, `^QR4001232-[0-9a-f]{8}$`, second)

	// Same instant and position never collide across bookings
	assert.NotEqual(t, first, ticketNumber(issuedAt, 1))
}
