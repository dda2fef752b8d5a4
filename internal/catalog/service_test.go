package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListCities() ([]City, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]City), args.Error(1)
}

func (m *MockRepository) GetCity(code string) (*City, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*City), args.Error(1)
}

func (m *MockRepository) CreateCity(city *City) error {
	args := m.Called(city)
	return args.Error(0)
}

func (m *MockRepository) DeleteCity(code string) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockRepository) ListRouteLegs() ([]RouteLeg, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]RouteLeg), args.Error(1)
}

func (m *MockRepository) GetRouteLegByID(id uuid.UUID) (*RouteLeg, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RouteLeg), args.Error(1)
}

func (m *MockRepository) GetRouteLegByPair(originCode, destCode string) (*RouteLeg, error) {
	args := m.Called(originCode, destCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RouteLeg), args.Error(1)
}

func (m *MockRepository) CreateRouteLeg(leg *RouteLeg) error {
	args := m.Called(leg)
	return args.Error(0)
}

func (m *MockRepository) UpdateRouteLeg(id uuid.UUID, updates map[string]interface{}) (*RouteLeg, error) {
	args := m.Called(id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RouteLeg), args.Error(1)
}

func (m *MockRepository) DeleteRouteLeg(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRepository) ListBuses(activeOnly bool) ([]BusOffering, error) {
	args := m.Called(activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BusOffering), args.Error(1)
}

func (m *MockRepository) GetBusByID(id uuid.UUID) (*BusOffering, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BusOffering), args.Error(1)
}

func (m *MockRepository) CreateBus(bus *BusOffering) error {
	args := m.Called(bus)
	return args.Error(0)
}

func (m *MockRepository) UpdateBus(id uuid.UUID, updates map[string]interface{}) (*BusOffering, error) {
	args := m.Called(id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BusOffering), args.Error(1)
}

func (m *MockRepository) DeleteBus(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRepository) GetPrice(routeLegID uuid.UUID, tier ServiceTier) (*Price, error) {
	args := m.Called(routeLegID, tier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Price), args.Error(1)
}

func (m *MockRepository) ListPrices() ([]Price, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Price), args.Error(1)
}

func (m *MockRepository) UpsertPrice(price *Price) error {
	args := m.Called(price)
	return args.Error(0)
}

func (m *MockRepository) DeletePrice(routeLegID uuid.UUID, tier ServiceTier) error {
	args := m.Called(routeLegID, tier)
	return args.Error(0)
}

func TestFarePerSeat_baseFare(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo, time.Hour)

	leg := &RouteLeg{ID: uuid.New()}
	bus := &BusOffering{Tier: TierBusiness, PricePerSeat: 4500}

	repo.On("GetPrice", leg.ID, TierBusiness).Return(nil, gorm.ErrRecordNotFound)

	assert.Equal(t, int64(4500), svc.FarePerSeat(bus, leg))
}

func TestFarePerSeat_legOverride(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo, time.Hour)

	leg := &RouteLeg{ID: uuid.New()}
	bus := &BusOffering{Tier: TierVIP, PricePerSeat: 6500}

	repo.On("GetPrice", leg.ID, TierVIP).Return(&Price{PricePerSeat: 14000}, nil)

	assert.Equal(t, int64(14000), svc.FarePerSeat(bus, leg))
}

func TestFarePerSeat_nilLeg(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo, time.Hour)

	bus := &BusOffering{Tier: TierEconomy, PricePerSeat: 2500}

	assert.Equal(t, int64(2500), svc.FarePerSeat(bus, nil))
}

func TestCreateCity_duplicate(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo, time.Hour)

	repo.On("GetCity", "accra").Return(&City{Code: "accra", Name: "Accra"}, nil)

	_, err := svc.CreateCity(context.Background(), CreateCityRequest{Code: "accra", Name: "Accra"})

	assert.ErrorIs(t, err, ErrCityExists)
}

func TestCreateRouteLeg_sameCity(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo, time.Hour)

	_, err := svc.CreateRouteLeg(context.Background(), CreateRouteLegRequest{
		OriginCode:    "accra",
		DestCode:      "accra",
		DistanceKm:    250,
		DurationHours: 4,
	})

	assert.ErrorIs(t, err, ErrSameCity)
}

func TestRouteLegByPair_notFound(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo, time.Hour)

	repo.On("GetRouteLegByPair", "accra", "nowhere").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.RouteLegByPair("accra", "nowhere")

	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestBusServesLeg(t *testing.T) {
	bus := &BusOffering{RouteKeys: StringList{"accra-kumasi", "kumasi-accra"}}

	assert.True(t, bus.ServesLeg("accra-kumasi"))
	assert.False(t, bus.ServesLeg("accra-tamale"))
}

func TestLegKey(t *testing.T) {
	assert.Equal(t, "accra-kumasi", LegKey("accra", "kumasi"))
	assert.Equal(t, "cape-coast-takoradi", LegKey("cape-coast", "takoradi"))
}

func TestIsValidTimeSlot(t *testing.T) {
	for _, slot := range TimeSlots {
		assert.True(t, IsValidTimeSlot(slot), slot)
	}

	assert.False(t, IsValidTimeSlot("09:30"))
	assert.False(t, IsValidTimeSlot("22:00"))
	assert.False(t, IsValidTimeSlot(""))
}

func TestSlotDeparture(t *testing.T) {
	departure, err := SlotDeparture("2026-03-10", "14:00")

	require.NoError(t, err)
	assert.Equal(t, 14, departure.Hour())
	assert.Equal(t, time.March, departure.Month())
	assert.Equal(t, 10, departure.Day())

	_, err = SlotDeparture("not-a-date", "14:00")
	assert.Error(t, err)
}
