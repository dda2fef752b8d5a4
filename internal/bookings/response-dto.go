package bookings

import (
	"time"

	"github.com/google/uuid"
)

// PassengerResponse is the public view of a passenger
type PassengerResponse struct {
	Position   int    `json:"position"`
	Name       string `json:"name"`
	AgeBracket string `json:"age_bracket"`
	Gender     string `json:"gender"`
	Phone      string `json:"phone"`
}

// EmergencyContactResponse mirrors the booking's emergency contact
type EmergencyContactResponse struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// BookingResponse is the public view of a booking
type BookingResponse struct {
	ID               uuid.UUID                `json:"id"`
	BusID            uuid.UUID                `json:"bus_id"`
	Origin           string                   `json:"origin"`
	Destination      string                   `json:"destination"`
	TravelDate       string                   `json:"travel_date"`
	TimeSlot         string                   `json:"time_slot"`
	SeatCount        int                      `json:"seat_count"`
	Email            string                   `json:"email"`
	AmountMinor      int64                    `json:"amount_minor"`
	Currency         string                   `json:"currency"`
	Status           string                   `json:"status"`
	PaymentStatus    string                   `json:"payment_status"`
	PaymentRef       string                   `json:"payment_ref"`
	EmergencyContact EmergencyContactResponse `json:"emergency_contact"`
	Passengers       []PassengerResponse      `json:"passengers,omitempty"`
	ConfirmedAt      *time.Time               `json:"confirmed_at,omitempty"`
	CancelledAt      *time.Time               `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
}

// CheckoutResponse wraps a new booking with its payment checkout session
type CheckoutResponse struct {
	Booking          BookingResponse `json:"booking"`
	AuthorizationURL string          `json:"authorization_url"`
	AccessCode       string          `json:"access_code"`
	Reference        string          `json:"reference"`
}

// PaginatedBookings is a page of a user's booking history
type PaginatedBookings struct {
	Bookings   []BookingResponse `json:"bookings"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

func toBookingResponse(booking *Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:            booking.ID,
		BusID:         booking.BusID,
		Origin:        booking.OriginCode,
		Destination:   booking.DestCode,
		TravelDate:    booking.TravelDate,
		TimeSlot:      booking.TimeSlot,
		SeatCount:     booking.SeatCount,
		Email:         booking.Email,
		AmountMinor:   booking.AmountMinor,
		Currency:      booking.Currency,
		Status:        booking.Status.String(),
		PaymentStatus: booking.PaymentStatus.String(),
		PaymentRef:    booking.PaymentRef,
		EmergencyContact: EmergencyContactResponse{
			Name:         booking.EmergencyName,
			Phone:        booking.EmergencyPhone,
			Relationship: booking.EmergencyRelationship,
		},
		ConfirmedAt: booking.ConfirmedAt,
		CancelledAt: booking.CancelledAt,
		CreatedAt:   booking.CreatedAt,
	}
	for _, p := range booking.Passengers {
		resp.Passengers = append(resp.Passengers, PassengerResponse{
			Position:   p.Position,
			Name:       p.Name,
			AgeBracket: p.AgeBracket,
			Gender:     p.Gender,
			Phone:      p.Phone,
		})
	}
	return resp
}
