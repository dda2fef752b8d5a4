package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// One inventory row per trip; reservation locks this row FOR UPDATE
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_trip_inventory
		ON trip_inventories (bus_id, travel_date, time_slot);
	`).Error
	if err != nil {
		return err
	}

	// A seat label may be held by at most one live ticket per trip.
	// Cancelled tickets fall out of the constraint so their history stays.
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_live_seat_per_trip
		ON tickets (bus_id, travel_date, time_slot, seat_label)
		WHERE status != 'CANCELLED';
	`).Error
	if err != nil {
		return err
	}

	// Reserved seats stay within 0..capacity even if a write path ever
	// skips the row lock
	err = db.Exec(`
		ALTER TABLE trip_inventories
		DROP CONSTRAINT IF EXISTS chk_reserved_within_capacity;
	`).Error
	if err != nil {
		return err
	}
	err = db.Exec(`
		ALTER TABLE trip_inventories
		ADD CONSTRAINT chk_reserved_within_capacity
		CHECK (reserved_count >= 0 AND reserved_count <= capacity);
	`).Error
	if err != nil {
		return err
	}

	// Availability and the pending sweep both scan bookings by trip
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_trip
		ON bookings (bus_id, travel_date, time_slot);
	`).Error
	if err != nil {
		return err
	}

	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_status_created
		ON bookings (status, created_at);
	`).Error
	if err != nil {
		return err
	}

	// Ticket lookups by trip for assigned-seat enumeration
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tickets_trip
		ON tickets (bus_id, travel_date, time_slot);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
