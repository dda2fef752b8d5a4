package catalog

import (
	"fmt"
	"time"
)

// TimeSlots is the fixed daily departure schedule. Every bus on every
// route departs at each of these times.
var TimeSlots = []string{
	"06:00", "08:00", "10:00", "12:00",
	"14:00", "16:00", "18:00", "20:00",
}

// IsValidTimeSlot reports whether slot is one of the scheduled departures
func IsValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// SlotDeparture resolves a travel date ("2006-01-02") and slot ("15:04")
// into the departure instant in the local timezone.
func SlotDeparture(travelDate, slot string) (time.Time, error) {
	departure, err := time.ParseInLocation("2006-01-02 15:04", travelDate+" "+slot, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid travel date or time slot: %w", err)
	}
	return departure, nil
}
