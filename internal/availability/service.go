package availability

import (
	"context"
	"errors"
	"time"

	"quickride/internal/catalog"

	"github.com/google/uuid"
)

// Seat status thresholds. A slot is "few-seats" once availability
// drops to a fifth of capacity or less.
const (
	StatusAvailable = "available"
	StatusFewSeats  = "few-seats"
	StatusFull      = "full"

	fewSeatsPercent = 20
)

// CatalogService is the slice of the catalog the search needs
type CatalogService interface {
	RouteLegByPair(originCode, destCode string) (*catalog.RouteLeg, error)
	BusesForLeg(ctx context.Context, originCode, destCode string) ([]catalog.BusOffering, error)
	FarePerSeat(bus *catalog.BusOffering, leg *catalog.RouteLeg) int64
}

// BookingInventory reports reserved seats per trip
type BookingInventory interface {
	ReservedSeats(ctx context.Context, busID uuid.UUID, travelDate, timeSlot string) (int, error)
}

type Service interface {
	// ComputeAvailability resolves every bus serving the leg with
	// per-slot remaining seats. An unknown leg yields an empty result.
	ComputeAvailability(ctx context.Context, originCode, destCode, travelDate string) (*AvailabilityResponse, error)
	// AvailableTimeSlots lists future slots with at least one free seat
	// on some bus.
	AvailableTimeSlots(ctx context.Context, originCode, destCode, travelDate string) (*TimeSlotsResponse, error)
}

type service struct {
	catalogService CatalogService
	inventory      BookingInventory
}

func NewService(catalogService CatalogService, inventory BookingInventory) Service {
	return &service{
		catalogService: catalogService,
		inventory:      inventory,
	}
}

func (s *service) ComputeAvailability(ctx context.Context, originCode, destCode, travelDate string) (*AvailabilityResponse, error) {
	resp := &AvailabilityResponse{
		Origin:      originCode,
		Destination: destCode,
		TravelDate:  travelDate,
		Buses:       []BusAvailability{},
	}

	leg, err := s.catalogService.RouteLegByPair(originCode, destCode)
	if err != nil {
		if errors.Is(err, catalog.ErrRouteNotFound) {
			return resp, nil
		}
		return nil, err
	}
	resp.DistanceKm = leg.DistanceKm
	resp.DurationHours = leg.DurationHours

	buses, err := s.catalogService.BusesForLeg(ctx, originCode, destCode)
	if err != nil {
		return nil, err
	}

	slots := BookableSlots(catalog.TimeSlots, travelDate, time.Now())

	for i := range buses {
		bus := &buses[i]
		busAvail := BusAvailability{
			BusID:     bus.ID,
			Operator:  bus.Operator,
			Tier:      bus.Tier.String(),
			Capacity:  bus.Capacity,
			Amenities: bus.Amenities,
			FareMinor: s.catalogService.FarePerSeat(bus, leg),
			Slots:     make([]SlotAvailability, 0, len(slots)),
		}

		for _, slot := range slots {
			reserved, err := s.inventory.ReservedSeats(ctx, bus.ID, travelDate, slot)
			if err != nil {
				return nil, err
			}
			available := bus.Capacity - reserved
			if available < 0 {
				available = 0
			}
			busAvail.Slots = append(busAvail.Slots, SlotAvailability{
				TimeSlot:       slot,
				AvailableSeats: available,
				Status:         SeatStatus(available, bus.Capacity),
			})
		}

		resp.Buses = append(resp.Buses, busAvail)
	}

	return resp, nil
}

func (s *service) AvailableTimeSlots(ctx context.Context, originCode, destCode, travelDate string) (*TimeSlotsResponse, error) {
	resp := &TimeSlotsResponse{
		Origin:      originCode,
		Destination: destCode,
		TravelDate:  travelDate,
		TimeSlots:   []string{},
	}

	availability, err := s.ComputeAvailability(ctx, originCode, destCode, travelDate)
	if err != nil {
		return nil, err
	}

	slots := BookableSlots(catalog.TimeSlots, travelDate, time.Now())
	for _, slot := range slots {
		for _, bus := range availability.Buses {
			if slotHasSeats(bus.Slots, slot) {
				resp.TimeSlots = append(resp.TimeSlots, slot)
				break
			}
		}
	}
	return resp, nil
}

func slotHasSeats(slots []SlotAvailability, slot string) bool {
	for _, s := range slots {
		if s.TimeSlot == slot && s.AvailableSeats > 0 {
			return true
		}
	}
	return false
}

// SeatStatus classifies remaining seats against capacity
func SeatStatus(available, capacity int) string {
	switch {
	case available <= 0:
		return StatusFull
	case available*100 <= capacity*fewSeatsPercent:
		return StatusFewSeats
	default:
		return StatusAvailable
	}
}

// BookableSlots drops departures that have already passed. Dates other
// than today keep the full schedule; an unparseable date keeps nothing.
func BookableSlots(slots []string, travelDate string, now time.Time) []string {
	bookable := make([]string, 0, len(slots))
	for _, slot := range slots {
		departure, err := catalog.SlotDeparture(travelDate, slot)
		if err != nil {
			continue
		}
		if departure.After(now) {
			bookable = append(bookable, slot)
		}
	}
	return bookable
}
