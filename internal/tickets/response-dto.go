package tickets

import (
	"time"

	"github.com/google/uuid"
)

// TicketResponse is the public view of a ticket. Status is the derived
// status at response time, not the stored one.
type TicketResponse struct {
	ID              uuid.UUID  `json:"id"`
	TicketNumber    string     `json:"ticket_number"`
	BookingID       uuid.UUID  `json:"booking_id"`
	BusID           uuid.UUID  `json:"bus_id"`
	Origin          string     `json:"origin"`
	Destination     string     `json:"destination"`
	TravelDate      string     `json:"travel_date"`
	TimeSlot        string     `json:"time_slot"`
	SeatLabel       string     `json:"seat_label"`
	PassengerName   string     `json:"passenger_name"`
	PassengerAge    string     `json:"passenger_age"`
	PassengerGender string     `json:"passenger_gender"`
	PassengerPhone  string     `json:"passenger_phone"`
	FareMinor       int64      `json:"fare_minor"`
	Status          string     `json:"status"`
	RefundMinor     int64      `json:"refund_minor,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CancelTicketResponse reports the outcome of a cancellation
type CancelTicketResponse struct {
	Ticket      TicketResponse `json:"ticket"`
	RefundMinor int64          `json:"refund_minor"`
	Currency    string         `json:"currency"`
}

func toTicketResponse(ticket *Ticket, derived Status) *TicketResponse {
	return &TicketResponse{
		ID:              ticket.ID,
		TicketNumber:    ticket.TicketNumber,
		BookingID:       ticket.BookingID,
		BusID:           ticket.BusID,
		Origin:          ticket.OriginCode,
		Destination:     ticket.DestCode,
		TravelDate:      ticket.TravelDate,
		TimeSlot:        ticket.TimeSlot,
		SeatLabel:       ticket.SeatLabel,
		PassengerName:   ticket.PassengerName,
		PassengerAge:    ticket.PassengerAge,
		PassengerGender: ticket.PassengerGender,
		PassengerPhone:  ticket.PassengerPhone,
		FareMinor:       ticket.FareMinor,
		Status:          derived.String(),
		RefundMinor:     ticket.RefundMinor,
		CancelledAt:     ticket.CancelledAt,
		CreatedAt:       ticket.CreatedAt,
	}
}
