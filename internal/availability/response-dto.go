package availability

import "github.com/google/uuid"

// SlotAvailability is one departure slot's remaining seats on one bus
type SlotAvailability struct {
	TimeSlot       string `json:"time_slot"`
	AvailableSeats int    `json:"available_seats"`
	Status         string `json:"status"`
}

// BusAvailability is one bus's availability across a day's departures
type BusAvailability struct {
	BusID     uuid.UUID          `json:"bus_id"`
	Operator  string             `json:"operator"`
	Tier      string             `json:"tier"`
	Capacity  int                `json:"capacity"`
	Amenities []string           `json:"amenities"`
	FareMinor int64              `json:"fare_minor"`
	Slots     []SlotAvailability `json:"slots"`
}

// AvailabilityResponse is the full search result for one leg and date
type AvailabilityResponse struct {
	Origin        string            `json:"origin"`
	Destination   string            `json:"destination"`
	TravelDate    string            `json:"travel_date"`
	DistanceKm    float64           `json:"distance_km"`
	DurationHours float64           `json:"duration_hours"`
	Buses         []BusAvailability `json:"buses"`
}

// TimeSlotsResponse lists the bookable departures for one leg and date
type TimeSlotsResponse struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	TravelDate  string   `json:"travel_date"`
	TimeSlots   []string `json:"time_slots"`
}
