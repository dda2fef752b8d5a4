package catalog

import (
	"time"

	"github.com/google/uuid"
)

// ServiceTier classifies a bus offering
type ServiceTier string

const (
	TierEconomy  ServiceTier = "ECONOMY"
	TierBusiness ServiceTier = "BUSINESS"
	TierVIP      ServiceTier = "VIP"
)

// IsValid checks if the service tier is one of the known values
func (t ServiceTier) IsValid() bool {
	switch t {
	case TierEconomy, TierBusiness, TierVIP:
		return true
	}
	return false
}

func (t ServiceTier) String() string {
	return string(t)
}

// City is a bookable origin/destination, keyed by its slug code
type City struct {
	Code      string    `json:"code" gorm:"primaryKey;type:varchar(50)"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// RouteLeg is a directed origin→destination pair with fixed distance and
// duration. Identity is the (origin, destination) pair.
type RouteLeg struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OriginCode    string    `json:"origin_code" gorm:"type:varchar(50);not null;uniqueIndex:idx_route_legs_pair,priority:1"`
	DestCode      string    `json:"dest_code" gorm:"type:varchar(50);not null;uniqueIndex:idx_route_legs_pair,priority:2"`
	DistanceKm    float64   `json:"distance_km" gorm:"not null"`
	DurationHours float64   `json:"duration_hours" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Key returns the canonical route key ("accra-kumasi")
func (r RouteLeg) Key() string {
	return LegKey(r.OriginCode, r.DestCode)
}

// LegKey builds the canonical key for an origin/destination pair
func LegKey(origin, dest string) string {
	return origin + "-" + dest
}

// BusOffering is immutable reference data describing one operator's bus.
// Capacity is an invariant upper bound never mutated by bookings.
type BusOffering struct {
	ID           uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Operator     string      `json:"operator" gorm:"not null"`
	Tier         ServiceTier `json:"tier" gorm:"type:varchar(20);not null;check:tier IN ('ECONOMY', 'BUSINESS', 'VIP')"`
	Capacity     int         `json:"capacity" gorm:"not null;check:capacity > 0"`
	Amenities    StringList  `json:"amenities" gorm:"type:jsonb;serializer:json"`
	PricePerSeat int64       `json:"price_per_seat" gorm:"not null"` // minor currency units (pesewas)
	RouteKeys    StringList  `json:"route_keys" gorm:"type:jsonb;serializer:json"`
	Active       bool        `json:"active" gorm:"not null;default:true"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// ServesLeg reports whether the bus services the given route key
func (b *BusOffering) ServesLeg(legKey string) bool {
	for _, key := range b.RouteKeys {
		if key == legKey {
			return true
		}
	}
	return false
}

// Price overrides the per-seat fare for a (route leg, tier) pair.
// When absent, the bus offering's own price applies.
type Price struct {
	ID           uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	RouteLegID   uuid.UUID   `json:"route_leg_id" gorm:"type:uuid;not null;uniqueIndex:idx_prices_leg_tier,priority:1"`
	Tier         ServiceTier `json:"tier" gorm:"type:varchar(20);not null;uniqueIndex:idx_prices_leg_tier,priority:2"`
	PricePerSeat int64       `json:"price_per_seat" gorm:"not null"` // minor currency units
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	RouteLeg *RouteLeg `json:"route_leg,omitempty" gorm:"foreignKey:RouteLegID;constraint:OnDelete:CASCADE;"`
}

// StringList is stored as a JSONB array column
type StringList []string

// TableName sets the table name for City
func (City) TableName() string {
	return "cities"
}

// TableName sets the table name for RouteLeg
func (RouteLeg) TableName() string {
	return "route_legs"
}

// TableName sets the table name for BusOffering
func (BusOffering) TableName() string {
	return "bus_offerings"
}

// TableName sets the table name for Price
func (Price) TableName() string {
	return "prices"
}
