package tickets

import (
	"time"

	"github.com/google/uuid"
)

// Ticket is one passenger's seat on one trip. Trip fields are
// denormalized from the booking so the seat uniqueness constraint and
// trip queries never need a join.
type Ticket struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TicketNumber    string     `gorm:"uniqueIndex;not null" json:"ticket_number"`
	BookingID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"booking_id"`
	UserID          uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	BusID           uuid.UUID  `gorm:"type:uuid;not null" json:"bus_id"`
	OriginCode      string     `gorm:"type:varchar(50);not null" json:"origin_code"`
	DestCode        string     `gorm:"type:varchar(50);not null" json:"dest_code"`
	TravelDate      string     `gorm:"type:varchar(10);not null" json:"travel_date"`
	TimeSlot        string     `gorm:"type:varchar(5);not null" json:"time_slot"`
	SeatLabel       string     `gorm:"type:varchar(4);not null" json:"seat_label"`
	PassengerName   string     `gorm:"not null" json:"passenger_name"`
	PassengerAge    string     `gorm:"type:varchar(10);not null" json:"passenger_age"`
	PassengerGender string     `gorm:"type:varchar(10);not null" json:"passenger_gender"`
	PassengerPhone  string     `gorm:"type:varchar(20);not null" json:"passenger_phone"`
	FareMinor       int64      `gorm:"not null" json:"fare_minor"`
	Status          Status     `gorm:"type:varchar(20);not null;check:status IN ('ACTIVE', 'CANCELLED');default:'ACTIVE'" json:"status"`
	RefundMinor     int64      `gorm:"not null;default:0" json:"refund_minor"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName sets the table name for Ticket
func (Ticket) TableName() string {
	return "tickets"
}
