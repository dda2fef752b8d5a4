package catalog

// CreateCityRequest registers a new bookable city
type CreateCityRequest struct {
	Code string `json:"code" validate:"required,min=2,max=50,lowercase"`
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// CreateRouteLegRequest adds a directed origin→destination leg
type CreateRouteLegRequest struct {
	OriginCode    string  `json:"origin_code" validate:"required"`
	DestCode      string  `json:"dest_code" validate:"required"`
	DistanceKm    float64 `json:"distance_km" validate:"required,gt=0"`
	DurationHours float64 `json:"duration_hours" validate:"required,gt=0"`
}

// UpdateRouteLegRequest updates the mutable fields of a route leg
type UpdateRouteLegRequest struct {
	DistanceKm    *float64 `json:"distance_km,omitempty" validate:"omitempty,gt=0"`
	DurationHours *float64 `json:"duration_hours,omitempty" validate:"omitempty,gt=0"`
}

// CreateBusRequest registers a new bus offering
type CreateBusRequest struct {
	Operator     string   `json:"operator" validate:"required,min=2,max=100"`
	Tier         string   `json:"tier" validate:"required,oneof=ECONOMY BUSINESS VIP"`
	Capacity     int      `json:"capacity" validate:"required,min=1,max=100"`
	Amenities    []string `json:"amenities" validate:"omitempty,dive,min=1"`
	PricePerSeat int64    `json:"price_per_seat" validate:"required,gt=0"`
	RouteKeys    []string `json:"route_keys" validate:"required,min=1,dive,min=3"`
}

// UpdateBusRequest updates the mutable fields of a bus offering
type UpdateBusRequest struct {
	Operator     *string  `json:"operator,omitempty" validate:"omitempty,min=2,max=100"`
	Tier         *string  `json:"tier,omitempty" validate:"omitempty,oneof=ECONOMY BUSINESS VIP"`
	Amenities    []string `json:"amenities,omitempty" validate:"omitempty,dive,min=1"`
	PricePerSeat *int64   `json:"price_per_seat,omitempty" validate:"omitempty,gt=0"`
	RouteKeys    []string `json:"route_keys,omitempty" validate:"omitempty,min=1,dive,min=3"`
	Active       *bool    `json:"active,omitempty"`
}

// SetPriceRequest sets a fare override for a (route leg, tier) pair
type SetPriceRequest struct {
	OriginCode   string `json:"origin_code" validate:"required"`
	DestCode     string `json:"dest_code" validate:"required"`
	Tier         string `json:"tier" validate:"required,oneof=ECONOMY BUSINESS VIP"`
	PricePerSeat int64  `json:"price_per_seat" validate:"required,gt=0"`
}
