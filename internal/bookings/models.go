package bookings

import (
	"time"

	"github.com/google/uuid"
)

// TripInventory tracks reserved seats for one (bus, date, slot) trip.
// The reservation path locks this row FOR UPDATE so ReservedCount can
// never exceed the bus capacity snapshotted at first reservation.
type TripInventory struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BusID         uuid.UUID `gorm:"type:uuid;not null" json:"bus_id"`
	TravelDate    string    `gorm:"type:varchar(10);not null" json:"travel_date"`
	TimeSlot      string    `gorm:"type:varchar(5);not null" json:"time_slot"`
	Capacity      int       `gorm:"not null" json:"capacity"`
	ReservedCount int       `gorm:"not null;default:0" json:"reserved_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Booking defines the main booking structure
type Booking struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID     `gorm:"type:uuid;index;not null" json:"user_id"`
	BusID         uuid.UUID     `gorm:"type:uuid;index;not null" json:"bus_id"`
	RouteLegID    uuid.UUID     `gorm:"type:uuid;not null" json:"route_leg_id"`
	OriginCode    string        `gorm:"type:varchar(50);not null" json:"origin_code"`
	DestCode      string        `gorm:"type:varchar(50);not null" json:"dest_code"`
	TravelDate    string        `gorm:"type:varchar(10);not null" json:"travel_date"`
	TimeSlot      string        `gorm:"type:varchar(5);not null" json:"time_slot"`
	SeatCount     int           `gorm:"not null" json:"seat_count"`
	Email         string        `gorm:"not null" json:"email"`
	AmountMinor   int64         `gorm:"not null" json:"amount_minor"`
	Currency      string        `gorm:"type:varchar(3);not null;default:'GHS'" json:"currency"`
	Status        Status        `gorm:"type:varchar(20);not null;check:status IN ('PENDING', 'CONFIRMED', 'CANCELLED', 'FAILED_ALLOCATION');default:'PENDING'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;check:payment_status IN ('PENDING', 'COMPLETED', 'CANCELLED', 'REFUNDED');default:'PENDING'" json:"payment_status"`
	PaymentRef    string        `gorm:"uniqueIndex;not null" json:"payment_ref"`

	// One emergency contact covers the whole roster
	EmergencyName         string `gorm:"not null" json:"emergency_name"`
	EmergencyPhone        string `gorm:"type:varchar(20);not null" json:"emergency_phone"`
	EmergencyRelationship string `gorm:"type:varchar(50);not null" json:"emergency_relationship"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relationships
	Passengers []Passenger `json:"passengers,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
}

// Passenger is one traveller on a booking. Position fixes the order in
// which seats and ticket numbers are assigned.
type Passenger struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID  uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	Position   int       `gorm:"not null" json:"position"`
	Name       string    `gorm:"not null" json:"name"`
	AgeBracket string    `gorm:"type:varchar(10);not null;check:age_bracket IN ('CHILD', 'ADULT', 'SENIOR')" json:"age_bracket"`
	Gender     string    `gorm:"type:varchar(10);not null;check:gender IN ('MALE', 'FEMALE')" json:"gender"`
	Phone      string    `gorm:"type:varchar(20);not null" json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName sets the table name for TripInventory
func (TripInventory) TableName() string {
	return "trip_inventories"
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// TableName sets the table name for Passenger
func (Passenger) TableName() string {
	return "passengers"
}
