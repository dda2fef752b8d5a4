package bookings

import "github.com/google/uuid"

// PassengerRequest captures one traveller's details. Age is a coarse
// bracket, not a numeric age.
type PassengerRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	AgeBracket string `json:"age_bracket" validate:"required,oneof=CHILD ADULT SENIOR"`
	Gender     string `json:"gender" validate:"required,oneof=MALE FEMALE"`
	Phone      string `json:"phone" validate:"required,phone_gh"`
}

// EmergencyContactRequest is the single contact for the whole booking
type EmergencyContactRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Phone        string `json:"phone" validate:"required,phone_gh"`
	Relationship string `json:"relationship" validate:"required,min=2,max=50"`
}

// CreateBookingRequest reserves seats on a trip and opens a checkout
type CreateBookingRequest struct {
	BusID            uuid.UUID               `json:"bus_id" validate:"required"`
	Origin           string                  `json:"origin" validate:"required"`
	Destination      string                  `json:"destination" validate:"required"`
	TravelDate       string                  `json:"travel_date" validate:"required,datetime=2006-01-02"`
	TimeSlot         string                  `json:"time_slot" validate:"required"`
	Passengers       []PassengerRequest      `json:"passengers" validate:"required,min=1,dive"`
	EmergencyContact EmergencyContactRequest `json:"emergency_contact" validate:"required"`
	Email            string                  `json:"email" validate:"required,email"`
}

// BookingListQuery filters a user's booking history
type BookingListQuery struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}
