package availability

import (
	"context"
	"testing"
	"time"

	"quickride/internal/catalog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalogService is a mock implementation of CatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) RouteLegByPair(originCode, destCode string) (*catalog.RouteLeg, error) {
	args := m.Called(originCode, destCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.RouteLeg), args.Error(1)
}

func (m *MockCatalogService) BusesForLeg(ctx context.Context, originCode, destCode string) ([]catalog.BusOffering, error) {
	args := m.Called(ctx, originCode, destCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.BusOffering), args.Error(1)
}

func (m *MockCatalogService) FarePerSeat(bus *catalog.BusOffering, leg *catalog.RouteLeg) int64 {
	args := m.Called(bus, leg)
	return args.Get(0).(int64)
}

// MockBookingInventory is a mock implementation of BookingInventory
type MockBookingInventory struct {
	mock.Mock
}

func (m *MockBookingInventory) ReservedSeats(ctx context.Context, busID uuid.UUID, travelDate, timeSlot string) (int, error) {
	args := m.Called(ctx, busID, travelDate, timeSlot)
	return args.Int(0), args.Error(1)
}

// futureDate returns a travel date far enough out that every slot is bookable
func futureDate() string {
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func TestSeatStatus(t *testing.T) {
	tests := []struct {
		name      string
		available int
		capacity  int
		want      string
	}{
		{"no seats left", 0, 50, StatusFull},
		{"negative clamps to full", -2, 50, StatusFull},
		{"exactly at threshold", 10, 50, StatusFewSeats},
		{"below threshold", 3, 50, StatusFewSeats},
		{"just above threshold", 11, 50, StatusAvailable},
		{"plenty free", 45, 50, StatusAvailable},
		{"small bus threshold", 6, 30, StatusFewSeats},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SeatStatus(tt.available, tt.capacity))
		})
	}
}

func TestBookableSlots_futureDateKeepsAll(t *testing.T) {
	now := time.Now()

	slots := BookableSlots(catalog.TimeSlots, futureDate(), now)

	assert.Equal(t, catalog.TimeSlots, slots)
}

func TestBookableSlots_pastDateKeepsNone(t *testing.T) {
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")

	slots := BookableSlots(catalog.TimeSlots, yesterday, now)

	assert.Empty(t, slots)
}

func TestBookableSlots_todayDropsPassedDepartures(t *testing.T) {
	travelDate := "2026-03-10"
	now, err := catalog.SlotDeparture(travelDate, "12:00")
	require.NoError(t, err)

	slots := BookableSlots(catalog.TimeSlots, travelDate, now.Add(30*time.Minute))

	assert.Equal(t, []string{"14:00", "16:00", "18:00", "20:00"}, slots)
}

func TestBookableSlots_unparseableDate(t *testing.T) {
	slots := BookableSlots(catalog.TimeSlots, "not-a-date", time.Now())

	assert.Empty(t, slots)
}

func TestComputeAvailability_unknownLeg(t *testing.T) {
	mockCatalog := &MockCatalogService{}
	mockInventory := &MockBookingInventory{}
	svc := NewService(mockCatalog, mockInventory)

	mockCatalog.On("RouteLegByPair", "accra", "nowhere").Return(nil, catalog.ErrRouteNotFound)

	resp, err := svc.ComputeAvailability(context.Background(), "accra", "nowhere", futureDate())

	require.NoError(t, err)
	assert.Empty(t, resp.Buses)
	assert.Equal(t, "accra", resp.Origin)

	mockCatalog.AssertExpectations(t)
}

func TestComputeAvailability_perSlotCounts(t *testing.T) {
	mockCatalog := &MockCatalogService{}
	mockInventory := &MockBookingInventory{}
	svc := NewService(mockCatalog, mockInventory)

	travelDate := futureDate()
	busID := uuid.New()
	leg := &catalog.RouteLeg{
		ID:            uuid.New(),
		OriginCode:    "accra",
		DestCode:      "kumasi",
		DistanceKm:    250,
		DurationHours: 4,
	}
	bus := catalog.BusOffering{
		ID:       busID,
		Operator: "STC Intercity",
		Tier:     catalog.TierBusiness,
		Capacity: 45,
	}

	mockCatalog.On("RouteLegByPair", "accra", "kumasi").Return(leg, nil)
	mockCatalog.On("BusesForLeg", mock.Anything, "accra", "kumasi").Return([]catalog.BusOffering{bus}, nil)
	mockCatalog.On("FarePerSeat", mock.Anything, leg).Return(int64(4500))

	// One busy slot, the rest empty
	mockInventory.On("ReservedSeats", mock.Anything, busID, travelDate, "06:00").Return(45, nil)
	for _, slot := range catalog.TimeSlots[1:] {
		mockInventory.On("ReservedSeats", mock.Anything, busID, travelDate, slot).Return(0, nil)
	}

	resp, err := svc.ComputeAvailability(context.Background(), "accra", "kumasi", travelDate)

	require.NoError(t, err)
	require.Len(t, resp.Buses, 1)
	assert.Equal(t, float64(250), resp.DistanceKm)
	assert.Equal(t, int64(4500), resp.Buses[0].FareMinor)
	require.Len(t, resp.Buses[0].Slots, len(catalog.TimeSlots))

	assert.Equal(t, 0, resp.Buses[0].Slots[0].AvailableSeats)
	assert.Equal(t, StatusFull, resp.Buses[0].Slots[0].Status)
	assert.Equal(t, 45, resp.Buses[0].Slots[1].AvailableSeats)
	assert.Equal(t, StatusAvailable, resp.Buses[0].Slots[1].Status)

	mockCatalog.AssertExpectations(t)
	mockInventory.AssertExpectations(t)
}

func TestAvailableTimeSlots_skipsFullSlots(t *testing.T) {
	mockCatalog := &MockCatalogService{}
	mockInventory := &MockBookingInventory{}
	svc := NewService(mockCatalog, mockInventory)

	travelDate := futureDate()
	busID := uuid.New()
	leg := &catalog.RouteLeg{ID: uuid.New(), OriginCode: "accra", DestCode: "kumasi"}
	bus := catalog.BusOffering{ID: busID, Operator: "VIP Transport", Tier: catalog.TierVIP, Capacity: 30}

	mockCatalog.On("RouteLegByPair", "accra", "kumasi").Return(leg, nil)
	mockCatalog.On("BusesForLeg", mock.Anything, "accra", "kumasi").Return([]catalog.BusOffering{bus}, nil)
	mockCatalog.On("FarePerSeat", mock.Anything, leg).Return(int64(6500))

	mockInventory.On("ReservedSeats", mock.Anything, busID, travelDate, "06:00").Return(30, nil)
	for _, slot := range catalog.TimeSlots[1:] {
		mockInventory.On("ReservedSeats", mock.Anything, busID, travelDate, slot).Return(5, nil)
	}

	resp, err := svc.AvailableTimeSlots(context.Background(), "accra", "kumasi", travelDate)

	require.NoError(t, err)
	assert.NotContains(t, resp.TimeSlots, "06:00")
	assert.Equal(t, catalog.TimeSlots[1:], resp.TimeSlots)
}
