package catalog

import (
	"time"

	"github.com/google/uuid"
)

// RouteLegResponse includes the resolved city names alongside the codes
type RouteLegResponse struct {
	ID            uuid.UUID `json:"id"`
	OriginCode    string    `json:"origin_code"`
	OriginName    string    `json:"origin_name"`
	DestCode      string    `json:"dest_code"`
	DestName      string    `json:"dest_name"`
	DistanceKm    float64   `json:"distance_km"`
	DurationHours float64   `json:"duration_hours"`
}

// BusResponse is the public view of a bus offering
type BusResponse struct {
	ID           uuid.UUID `json:"id"`
	Operator     string    `json:"operator"`
	Tier         string    `json:"tier"`
	Capacity     int       `json:"capacity"`
	Amenities    []string  `json:"amenities"`
	PricePerSeat int64     `json:"price_per_seat"`
	RouteKeys    []string  `json:"route_keys"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PriceResponse is the public view of a fare override
type PriceResponse struct {
	ID           uuid.UUID `json:"id"`
	RouteKey     string    `json:"route_key"`
	Tier         string    `json:"tier"`
	PricePerSeat int64     `json:"price_per_seat"`
}

func toBusResponse(bus *BusOffering) *BusResponse {
	return &BusResponse{
		ID:           bus.ID,
		Operator:     bus.Operator,
		Tier:         bus.Tier.String(),
		Capacity:     bus.Capacity,
		Amenities:    bus.Amenities,
		PricePerSeat: bus.PricePerSeat,
		RouteKeys:    bus.RouteKeys,
		Active:       bus.Active,
		CreatedAt:    bus.CreatedAt,
		UpdatedAt:    bus.UpdatedAt,
	}
}
