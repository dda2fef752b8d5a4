package database

import (
	"quickride/internal/bookings"
	"quickride/internal/catalog"
	"quickride/internal/tickets"
	"quickride/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&catalog.City{},
		&catalog.RouteLeg{},
		&catalog.BusOffering{},
		&catalog.Price{},
		&bookings.TripInventory{},
		&bookings.Booking{},
		&bookings.Passenger{},
		&tickets.Ticket{},
	)
}
