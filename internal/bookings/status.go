package bookings

type Status string

const (
	// StatusPending holds reserved seats while payment is in flight
	StatusPending Status = "PENDING"
	// StatusConfirmed means payment settled and tickets were issued
	StatusConfirmed Status = "CONFIRMED"
	// StatusCancelled covers user aborts, payment failures and expiry
	StatusCancelled Status = "CANCELLED"
	// StatusFailedAllocation means payment settled but no seats could be
	// assigned; the booking is refunded, never retried
	StatusFailedAllocation Status = "FAILED_ALLOCATION"
)

// PaymentStatus tracks the money side of a booking separately from the
// booking lifecycle.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentCancelled PaymentStatus = "CANCELLED"
	// PaymentRefunded means the charge settled but was returned in full
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// String returns the string representation of PaymentStatus
func (p PaymentStatus) String() string {
	return string(p)
}

// PaymentStatusFor gives the payment state that accompanies a booking
// transition: a confirmed booking has a completed payment, a cancelled
// one a cancelled payment, and a failed allocation a refunded one.
func PaymentStatusFor(s Status) PaymentStatus {
	switch s {
	case StatusConfirmed:
		return PaymentCompleted
	case StatusCancelled:
		return PaymentCancelled
	case StatusFailedAllocation:
		return PaymentRefunded
	default:
		return PaymentPending
	}
}

// IsValid checks if the booking status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusFailedAllocation:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsSettled reports whether the booking reached a terminal state
func (s Status) IsSettled() bool {
	return s != StatusPending
}

// HoldsInventory reports whether the booking still holds reserved seats
func (s Status) HoldsInventory() bool {
	return s == StatusPending || s == StatusConfirmed
}
