package catalog

import (
	"context"
	"errors"
	"time"

	"quickride/internal/shared/constants"
	"quickride/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCityNotFound    = errors.New("city not found")
	ErrCityExists      = errors.New("city code already registered")
	ErrRouteNotFound   = errors.New("route not found")
	ErrRouteExists     = errors.New("route already exists for this city pair")
	ErrBusNotFound     = errors.New("bus not found")
	ErrPriceNotFound   = errors.New("price override not found")
	ErrSameCity        = errors.New("origin and destination must differ")
	ErrUnknownCity     = errors.New("unknown city code")
	ErrInvalidTier     = errors.New("invalid service tier")
	ErrUnknownRouteKey = errors.New("route key does not match any route")
)

const (
	cacheKeyCities = constants.CACHE_KEY_CATALOG_CITIES
	cacheKeyRoutes = constants.CACHE_KEY_CATALOG_ROUTES
	cacheKeyBuses  = constants.CACHE_KEY_CATALOG_BUSES
)

type Service interface {
	SetCacheService(cacheService cache.Service)

	// Cities
	ListCities(ctx context.Context) ([]City, error)
	CreateCity(ctx context.Context, req CreateCityRequest) (*City, error)
	DeleteCity(ctx context.Context, code string) error

	// Route legs
	ListRouteLegs(ctx context.Context) ([]RouteLegResponse, error)
	RouteLegByPair(originCode, destCode string) (*RouteLeg, error)
	CreateRouteLeg(ctx context.Context, req CreateRouteLegRequest) (*RouteLeg, error)
	UpdateRouteLeg(ctx context.Context, id uuid.UUID, req UpdateRouteLegRequest) (*RouteLeg, error)
	DeleteRouteLeg(ctx context.Context, id uuid.UUID) error

	// Bus offerings
	ListBuses(ctx context.Context, includeInactive bool) ([]BusResponse, error)
	GetBus(id uuid.UUID) (*BusOffering, error)
	BusesForLeg(ctx context.Context, originCode, destCode string) ([]BusOffering, error)
	CreateBus(ctx context.Context, req CreateBusRequest) (*BusResponse, error)
	UpdateBus(ctx context.Context, id uuid.UUID, req UpdateBusRequest) (*BusResponse, error)
	DeleteBus(ctx context.Context, id uuid.UUID) error

	// Fares
	FarePerSeat(bus *BusOffering, leg *RouteLeg) int64
	ListPrices(ctx context.Context) ([]PriceResponse, error)
	SetPrice(ctx context.Context, req SetPriceRequest) (*PriceResponse, error)
	DeletePrice(ctx context.Context, originCode, destCode string, tier ServiceTier) error
}

type service struct {
	repo         Repository
	cacheService cache.Service
	cacheTTL     time.Duration
}

func NewService(repo Repository, cacheTTL time.Duration) Service {
	return &service{
		repo:     repo,
		cacheTTL: cacheTTL,
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) getCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cacheService == nil {
		return false
	}
	return s.cacheService.Get(ctx, key, dest) == nil
}

func (s *service) setCache(ctx context.Context, key string, value interface{}) {
	if s.cacheService == nil {
		return
	}
	// Cache write failures never fail the read path
	_ = s.cacheService.Set(ctx, key, value, s.cacheTTL)
}

func (s *service) invalidateCatalogCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	_ = s.cacheService.Delete(ctx, cacheKeyCities)
	_ = s.cacheService.Delete(ctx, cacheKeyRoutes)
	_ = s.cacheService.DeletePattern(ctx, cacheKeyBuses+"*")
}

func (s *service) ListCities(ctx context.Context) ([]City, error) {
	var cities []City
	if s.getCache(ctx, cacheKeyCities, &cities) {
		return cities, nil
	}

	cities, err := s.repo.ListCities()
	if err != nil {
		return nil, err
	}

	s.setCache(ctx, cacheKeyCities, cities)
	return cities, nil
}

func (s *service) CreateCity(ctx context.Context, req CreateCityRequest) (*City, error) {
	if _, err := s.repo.GetCity(req.Code); err == nil {
		return nil, ErrCityExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	city := &City{
		Code: req.Code,
		Name: req.Name,
	}
	if err := s.repo.CreateCity(city); err != nil {
		return nil, err
	}

	s.invalidateCatalogCache(ctx)
	return city, nil
}

func (s *service) DeleteCity(ctx context.Context, code string) error {
	if _, err := s.repo.GetCity(code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCityNotFound
		}
		return err
	}

	if err := s.repo.DeleteCity(code); err != nil {
		return err
	}

	s.invalidateCatalogCache(ctx)
	return nil
}

func (s *service) ListRouteLegs(ctx context.Context) ([]RouteLegResponse, error) {
	var responses []RouteLegResponse
	if s.getCache(ctx, cacheKeyRoutes, &responses) {
		return responses, nil
	}

	legs, err := s.repo.ListRouteLegs()
	if err != nil {
		return nil, err
	}

	cities, err := s.repo.ListCities()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(cities))
	for _, city := range cities {
		names[city.Code] = city.Name
	}

	responses = make([]RouteLegResponse, len(legs))
	for i, leg := range legs {
		responses[i] = RouteLegResponse{
			ID:            leg.ID,
			OriginCode:    leg.OriginCode,
			OriginName:    names[leg.OriginCode],
			DestCode:      leg.DestCode,
			DestName:      names[leg.DestCode],
			DistanceKm:    leg.DistanceKm,
			DurationHours: leg.DurationHours,
		}
	}

	s.setCache(ctx, cacheKeyRoutes, responses)
	return responses, nil
}

func (s *service) RouteLegByPair(originCode, destCode string) (*RouteLeg, error) {
	leg, err := s.repo.GetRouteLegByPair(originCode, destCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	return leg, nil
}

func (s *service) CreateRouteLeg(ctx context.Context, req CreateRouteLegRequest) (*RouteLeg, error) {
	if req.OriginCode == req.DestCode {
		return nil, ErrSameCity
	}
	for _, code := range []string{req.OriginCode, req.DestCode} {
		if _, err := s.repo.GetCity(code); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnknownCity
			}
			return nil, err
		}
	}
	if _, err := s.repo.GetRouteLegByPair(req.OriginCode, req.DestCode); err == nil {
		return nil, ErrRouteExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	leg := &RouteLeg{
		OriginCode:    req.OriginCode,
		DestCode:      req.DestCode,
		DistanceKm:    req.DistanceKm,
		DurationHours: req.DurationHours,
	}
	if err := s.repo.CreateRouteLeg(leg); err != nil {
		return nil, err
	}

	s.invalidateCatalogCache(ctx)
	return leg, nil
}

func (s *service) UpdateRouteLeg(ctx context.Context, id uuid.UUID, req UpdateRouteLegRequest) (*RouteLeg, error) {
	updates := make(map[string]interface{})
	if req.DistanceKm != nil {
		updates["distance_km"] = *req.DistanceKm
	}
	if req.DurationHours != nil {
		updates["duration_hours"] = *req.DurationHours
	}

	leg, err := s.repo.UpdateRouteLeg(id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}

	s.invalidateCatalogCache(ctx)
	return leg, nil
}

func (s *service) DeleteRouteLeg(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetRouteLegByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRouteNotFound
		}
		return err
	}

	if err := s.repo.DeleteRouteLeg(id); err != nil {
		return err
	}

	s.invalidateCatalogCache(ctx)
	return nil
}

func (s *service) ListBuses(ctx context.Context, includeInactive bool) ([]BusResponse, error) {
	buses, err := s.repo.ListBuses(!includeInactive)
	if err != nil {
		return nil, err
	}

	responses := make([]BusResponse, len(buses))
	for i := range buses {
		responses[i] = *toBusResponse(&buses[i])
	}
	return responses, nil
}

func (s *service) GetBus(id uuid.UUID) (*BusOffering, error) {
	bus, err := s.repo.GetBusByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusNotFound
		}
		return nil, err
	}
	return bus, nil
}

// BusesForLeg returns the active buses serving a route key, cached per leg
func (s *service) BusesForLeg(ctx context.Context, originCode, destCode string) ([]BusOffering, error) {
	legKey := LegKey(originCode, destCode)
	cacheKey := constants.BuildBusesForLegKey(legKey)

	var matched []BusOffering
	if s.getCache(ctx, cacheKey, &matched) {
		return matched, nil
	}

	buses, err := s.repo.ListBuses(true)
	if err != nil {
		return nil, err
	}

	matched = make([]BusOffering, 0, len(buses))
	for _, bus := range buses {
		if bus.ServesLeg(legKey) {
			matched = append(matched, bus)
		}
	}

	s.setCache(ctx, cacheKey, matched)
	return matched, nil
}

func (s *service) CreateBus(ctx context.Context, req CreateBusRequest) (*BusResponse, error) {
	tier := ServiceTier(req.Tier)
	if !tier.IsValid() {
		return nil, ErrInvalidTier
	}
	if err := s.validateRouteKeys(req.RouteKeys); err != nil {
		return nil, err
	}

	bus := &BusOffering{
		Operator:     req.Operator,
		Tier:         tier,
		Capacity:     req.Capacity,
		Amenities:    req.Amenities,
		PricePerSeat: req.PricePerSeat,
		RouteKeys:    req.RouteKeys,
		Active:       true,
	}
	if err := s.repo.CreateBus(bus); err != nil {
		return nil, err
	}

	s.invalidateCatalogCache(ctx)
	return toBusResponse(bus), nil
}

func (s *service) UpdateBus(ctx context.Context, id uuid.UUID, req UpdateBusRequest) (*BusResponse, error) {
	updates := make(map[string]interface{})
	if req.Operator != nil {
		updates["operator"] = *req.Operator
	}
	if req.Tier != nil {
		tier := ServiceTier(*req.Tier)
		if !tier.IsValid() {
			return nil, ErrInvalidTier
		}
		updates["tier"] = tier
	}
	if req.Amenities != nil {
		updates["amenities"] = StringList(req.Amenities)
	}
	if req.PricePerSeat != nil {
		updates["price_per_seat"] = *req.PricePerSeat
	}
	if req.RouteKeys != nil {
		if err := s.validateRouteKeys(req.RouteKeys); err != nil {
			return nil, err
		}
		updates["route_keys"] = StringList(req.RouteKeys)
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	bus, err := s.repo.UpdateBus(id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusNotFound
		}
		return nil, err
	}

	s.invalidateCatalogCache(ctx)
	return toBusResponse(bus), nil
}

func (s *service) DeleteBus(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetBusByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBusNotFound
		}
		return err
	}

	if err := s.repo.DeleteBus(id); err != nil {
		return err
	}

	s.invalidateCatalogCache(ctx)
	return nil
}

// FarePerSeat resolves the per-seat fare for a bus on a leg. A fare
// override keyed by (leg, tier) wins over the bus offering's own price.
func (s *service) FarePerSeat(bus *BusOffering, leg *RouteLeg) int64 {
	if leg != nil {
		if price, err := s.repo.GetPrice(leg.ID, bus.Tier); err == nil {
			return price.PricePerSeat
		}
	}
	return bus.PricePerSeat
}

func (s *service) ListPrices(ctx context.Context) ([]PriceResponse, error) {
	prices, err := s.repo.ListPrices()
	if err != nil {
		return nil, err
	}

	responses := make([]PriceResponse, len(prices))
	for i, price := range prices {
		routeKey := ""
		if price.RouteLeg != nil {
			routeKey = price.RouteLeg.Key()
		}
		responses[i] = PriceResponse{
			ID:           price.ID,
			RouteKey:     routeKey,
			Tier:         price.Tier.String(),
			PricePerSeat: price.PricePerSeat,
		}
	}
	return responses, nil
}

func (s *service) SetPrice(ctx context.Context, req SetPriceRequest) (*PriceResponse, error) {
	tier := ServiceTier(req.Tier)
	if !tier.IsValid() {
		return nil, ErrInvalidTier
	}

	leg, err := s.RouteLegByPair(req.OriginCode, req.DestCode)
	if err != nil {
		return nil, err
	}

	price := &Price{
		RouteLegID:   leg.ID,
		Tier:         tier,
		PricePerSeat: req.PricePerSeat,
	}
	if err := s.repo.UpsertPrice(price); err != nil {
		return nil, err
	}

	s.invalidateCatalogCache(ctx)
	return &PriceResponse{
		ID:           price.ID,
		RouteKey:     leg.Key(),
		Tier:         tier.String(),
		PricePerSeat: price.PricePerSeat,
	}, nil
}

func (s *service) DeletePrice(ctx context.Context, originCode, destCode string, tier ServiceTier) error {
	if !tier.IsValid() {
		return ErrInvalidTier
	}

	leg, err := s.RouteLegByPair(originCode, destCode)
	if err != nil {
		return err
	}

	if _, err := s.repo.GetPrice(leg.ID, tier); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPriceNotFound
		}
		return err
	}

	if err := s.repo.DeletePrice(leg.ID, tier); err != nil {
		return err
	}

	s.invalidateCatalogCache(ctx)
	return nil
}

// validateRouteKeys ensures every key resolves to an existing route leg
func (s *service) validateRouteKeys(keys []string) error {
	legs, err := s.repo.ListRouteLegs()
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(legs))
	for _, leg := range legs {
		known[leg.Key()] = struct{}{}
	}
	for _, key := range keys {
		if _, ok := known[key]; !ok {
			return ErrUnknownRouteKey
		}
	}
	return nil
}
