package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetBookingByRef(ctx context.Context, paymentRef string) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	ListBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status Status, settledAt *time.Time) error

	// Atomic reservation
	CreateBookingWithCapacityCheck(ctx context.Context, booking *Booking, busCapacity int) error
	ReleaseInventory(ctx context.Context, busID uuid.UUID, travelDate, timeSlot string, seats int) error
	GetReservedCount(ctx context.Context, busID uuid.UUID, travelDate, timeSlot string) (int, error)

	// Pending sweep
	FindPendingBefore(ctx context.Context, cutoff time.Time) ([]Booking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Passengers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetBookingByRef(ctx context.Context, paymentRef string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Passengers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("payment_ref = ?", paymentRef).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	var results []Booking
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&Booking{}).Where("user_id = ?", userID)
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 10
	}
	offset := (query.Page - 1) * query.Limit

	err := db.Preload("Passengers", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&results).Error

	return results, totalCount, err
}

// ListBookings pages through all bookings regardless of owner
func (r *repository) ListBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	var results []Booking
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&Booking{})
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 10
	}
	offset := (query.Page - 1) * query.Limit

	err := db.Preload("Passengers", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&results).Error

	return results, totalCount, err
}

func (r *repository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status Status, settledAt *time.Time) error {
	updates := map[string]interface{}{
		"status":         status,
		"payment_status": PaymentStatusFor(status),
		"updated_at":     time.Now(),
	}
	switch status {
	case StatusConfirmed:
		updates["confirmed_at"] = settledAt
	case StatusCancelled, StatusFailedAllocation:
		updates["cancelled_at"] = settledAt
	}

	return r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// LockTripInventory selects one trip's inventory row FOR UPDATE. Every
// writer that touches reserved seats or seat labels goes through this,
// so concurrent settlements on the same trip serialize.
func LockTripInventory(tx *gorm.DB, busID uuid.UUID, travelDate, timeSlot string) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("bus_id = ? AND travel_date = ? AND time_slot = ?",
			busID, travelDate, timeSlot)
}

// CreateBookingWithCapacityCheck reserves seats atomically. The trip's
// inventory row is locked FOR UPDATE for the whole transaction, so two
// concurrent requests for the last seats serialize and the loser fails.
func (r *repository) CreateBookingWithCapacityCheck(ctx context.Context, booking *Booking, busCapacity int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inventory TripInventory

		err := LockTripInventory(tx, booking.BusID, booking.TravelDate, booking.TimeSlot).
			First(&inventory).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			// First reservation for this trip creates the row. The unique
			// index on (bus_id, travel_date, time_slot) turns a racing
			// insert into a constraint error and rolls us back.
			inventory = TripInventory{
				BusID:      booking.BusID,
				TravelDate: booking.TravelDate,
				TimeSlot:   booking.TimeSlot,
				Capacity:   busCapacity,
			}
			if err := tx.Create(&inventory).Error; err != nil {
				return fmt.Errorf("failed to create trip inventory: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to lock trip inventory: %w", err)
		}

		newReserved := inventory.ReservedCount + booking.SeatCount
		if newReserved > inventory.Capacity {
			available := inventory.Capacity - inventory.ReservedCount
			if available <= 0 {
				return ErrTripSoldOut
			}
			return fmt.Errorf("%w: only %d seats available, requested %d",
				ErrInsufficientCapacity, available, booking.SeatCount)
		}

		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		err = tx.Model(&TripInventory{}).
			Where("id = ?", inventory.ID).
			Update("reserved_count", newReserved).Error
		if err != nil {
			return fmt.Errorf("failed to update reserved count: %w", err)
		}

		return nil
	})
}

// ReleaseInventory returns seats to a trip after a cancellation or an
// expired pending booking. The count never drops below zero.
func (r *repository) ReleaseInventory(ctx context.Context, busID uuid.UUID, travelDate, timeSlot string, seats int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inventory TripInventory

		err := LockTripInventory(tx, busID, travelDate, timeSlot).
			First(&inventory).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to lock trip inventory: %w", err)
		}

		newReserved := inventory.ReservedCount - seats
		if newReserved < 0 {
			newReserved = 0
		}

		return tx.Model(&TripInventory{}).
			Where("id = ?", inventory.ID).
			Update("reserved_count", newReserved).Error
	})
}

func (r *repository) GetReservedCount(ctx context.Context, busID uuid.UUID, travelDate, timeSlot string) (int, error) {
	var inventory TripInventory
	err := r.db.WithContext(ctx).
		Where("bus_id = ? AND travel_date = ? AND time_slot = ?",
			busID, travelDate, timeSlot).
		First(&inventory).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return inventory.ReservedCount, nil
}

func (r *repository) FindPendingBefore(ctx context.Context, cutoff time.Time) ([]Booking, error) {
	var stale []Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", StatusPending, cutoff).
		Find(&stale).Error
	return stale, err
}
