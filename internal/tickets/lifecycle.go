package tickets

import (
	"errors"
	"time"
)

// Status is the stored ticket state. COMPLETED is never stored; it is
// derived from departure time at read.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCancelled Status = "CANCELLED"
	// StatusCompleted is derived for active tickets whose trip departed
	StatusCompleted Status = "COMPLETED"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Refund tiers relative to departure. Cancellation closes entirely
// inside the final two hours.
const (
	fullRefundWindow = 24 * time.Hour
	cancelCutoff     = 2 * time.Hour

	earlyRefundPercent = 90
	lateRefundPercent  = 50
)

var (
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrNotTicketOwner  = errors.New("ticket belongs to another user")
	ErrNotCancellable  = errors.New("ticket is not cancellable")
	ErrTooLateToCancel = errors.New("too close to departure to cancel")
	ErrSeatsExhausted  = errors.New("no free seats left on this trip")
)

// DeriveStatus resolves the effective status at a point in time.
// CANCELLED is sticky; an active ticket flips to COMPLETED strictly
// after its departure, so at the departure instant it is still active.
func DeriveStatus(stored Status, departure, now time.Time) Status {
	if stored == StatusCancelled {
		return StatusCancelled
	}
	if departure.Before(now) {
		return StatusCompleted
	}
	return StatusActive
}

// RefundQuote computes the refund for cancelling at a point in time,
// in minor currency units. 24h or more before departure refunds 90%,
// between 2h and 24h refunds 50%, closer than 2h is rejected.
func RefundQuote(fareMinor int64, departure, now time.Time) (int64, error) {
	until := departure.Sub(now)
	switch {
	case until >= fullRefundWindow:
		return fareMinor * earlyRefundPercent / 100, nil
	case until >= cancelCutoff:
		return fareMinor * lateRefundPercent / 100, nil
	default:
		return 0, ErrTooLateToCancel
	}
}
