package tickets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickride/internal/bookings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetTicketByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	GetUserTickets(ctx context.Context, userID uuid.UUID) ([]Ticket, error)
	GetBookingTickets(ctx context.Context, bookingID uuid.UUID) ([]Ticket, error)
	AssignedSeatLabels(ctx context.Context, busID uuid.UUID, travelDate, timeSlot string) ([]string, error)
	IssueForBooking(ctx context.Context, booking *bookings.Booking, capacity int) ([]Ticket, error)
	CancelTicket(ctx context.Context, id uuid.UUID, refundMinor int64, cancelledAt time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetTicketByID(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) GetUserTickets(ctx context.Context, userID uuid.UUID) ([]Ticket, error) {
	var results []Ticket
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error
	return results, err
}

func (r *repository) GetBookingTickets(ctx context.Context, bookingID uuid.UUID) ([]Ticket, error) {
	var results []Ticket
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("seat_label ASC").
		Find(&results).Error
	return results, err
}

// AssignedSeatLabels returns the labels held by live tickets on a trip.
// Cancelled tickets do not free their labels for reassignment.
func (r *repository) AssignedSeatLabels(ctx context.Context, busID uuid.UUID, travelDate, timeSlot string) ([]string, error) {
	var labels []string
	err := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("bus_id = ? AND travel_date = ? AND time_slot = ?", busID, travelDate, timeSlot).
		Pluck("seat_label", &labels).Error
	return labels, err
}

// IssueForBooking confirms the booking and writes one ticket per
// passenger in a single transaction. The booking row is claimed with a
// conditional PENDING -> CONFIRMED update first, so a duplicate payment
// callback finds zero rows and backs off instead of issuing twice; any
// later failure rolls the claim back together with the tickets. The
// trip's inventory row is locked FOR UPDATE so two settling bookings on
// the same trip cannot pick the same labels; the partial unique index
// on live seat labels backstops the lock.
func (r *repository) IssueForBooking(ctx context.Context, booking *bookings.Booking, capacity int) ([]Ticket, error) {
	var issued []Ticket
	confirmedAt := time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claim := tx.Model(&bookings.Booking{}).
			Where("id = ? AND status = ?", booking.ID, bookings.StatusPending).
			Updates(map[string]interface{}{
				"status":         bookings.StatusConfirmed,
				"payment_status": bookings.PaymentStatusFor(bookings.StatusConfirmed),
				"confirmed_at":   confirmedAt,
				"updated_at":     confirmedAt,
			})
		if claim.Error != nil {
			return fmt.Errorf("failed to confirm booking: %w", claim.Error)
		}
		if claim.RowsAffected == 0 {
			return bookings.ErrAlreadySettled
		}

		var inventory bookings.TripInventory
		err := bookings.LockTripInventory(tx, booking.BusID, booking.TravelDate, booking.TimeSlot).
			First(&inventory).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to lock trip inventory: %w", err)
		}

		var taken []string
		err = tx.Model(&Ticket{}).
			Where("bus_id = ? AND travel_date = ? AND time_slot = ?",
				booking.BusID, booking.TravelDate, booking.TimeSlot).
			Pluck("seat_label", &taken).Error
		if err != nil {
			return fmt.Errorf("failed to read assigned seats: %w", err)
		}

		labels, err := AssignSeats(capacity, taken, len(booking.Passengers))
		if err != nil {
			return err
		}

		farePerSeat := booking.AmountMinor / int64(booking.SeatCount)

		issued = make([]Ticket, len(booking.Passengers))
		for i, passenger := range booking.Passengers {
			issued[i] = Ticket{
				TicketNumber:    ticketNumber(confirmedAt, passenger.Position),
				BookingID:       booking.ID,
				UserID:          booking.UserID,
				BusID:           booking.BusID,
				OriginCode:      booking.OriginCode,
				DestCode:        booking.DestCode,
				TravelDate:      booking.TravelDate,
				TimeSlot:        booking.TimeSlot,
				SeatLabel:       labels[i],
				PassengerName:   passenger.Name,
				PassengerAge:    passenger.AgeBracket,
				PassengerGender: passenger.Gender,
				PassengerPhone:  passenger.Phone,
				FareMinor:       farePerSeat,
				Status:          StatusActive,
			}
		}

		if err := tx.Create(&issued).Error; err != nil {
			return fmt.Errorf("failed to create tickets: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	booking.Status = bookings.StatusConfirmed
	booking.PaymentStatus = bookings.PaymentStatusFor(bookings.StatusConfirmed)
	booking.ConfirmedAt = &confirmedAt
	return issued, nil
}

func (r *repository) CancelTicket(ctx context.Context, id uuid.UUID, refundMinor int64, cancelledAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       StatusCancelled,
			"refund_minor": refundMinor,
			"cancelled_at": cancelledAt,
			"updated_at":   time.Now(),
		}).Error
}

// ticketNumber builds a human-readable number from the issue instant
// and the passenger's position on the booking. The uuid fragment keeps
// numbers unique across bookings issued in the same millisecond window.
func ticketNumber(issuedAt time.Time, position int) string {
	return fmt.Sprintf("QR%06d%d-%s",
		issuedAt.UnixMilli()%1000000, position, uuid.New().String()[:8])
}
