package bookings

import (
	"context"
	"testing"
	"time"

	"quickride/internal/catalog"
	"quickride/internal/payments"
	"quickride/internal/shared/config"
	"quickride/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetBookingByRef(ctx context.Context, paymentRef string) (*Booking, error) {
	args := m.Called(ctx, paymentRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ListBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status Status, settledAt *time.Time) error {
	args := m.Called(ctx, id, status, settledAt)
	return args.Error(0)
}

func (m *MockRepository) CreateBookingWithCapacityCheck(ctx context.Context, booking *Booking, busCapacity int) error {
	args := m.Called(ctx, booking, busCapacity)
	return args.Error(0)
}

func (m *MockRepository) ReleaseInventory(ctx context.Context, busID uuid.UUID, travelDate, timeSlot string, seats int) error {
	args := m.Called(ctx, busID, travelDate, timeSlot, seats)
	return args.Error(0)
}

func (m *MockRepository) GetReservedCount(ctx context.Context, busID uuid.UUID, travelDate, timeSlot string) (int, error) {
	args := m.Called(ctx, busID, travelDate, timeSlot)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) FindPendingBefore(ctx context.Context, cutoff time.Time) ([]Booking, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

// MockCatalogService is a mock implementation of CatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) GetBus(id uuid.UUID) (*catalog.BusOffering, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.BusOffering), args.Error(1)
}

func (m *MockCatalogService) RouteLegByPair(originCode, destCode string) (*catalog.RouteLeg, error) {
	args := m.Called(originCode, destCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.RouteLeg), args.Error(1)
}

func (m *MockCatalogService) FarePerSeat(bus *catalog.BusOffering, leg *catalog.RouteLeg) int64 {
	args := m.Called(bus, leg)
	return args.Get(0).(int64)
}

// MockProvider is a mock implementation of payments.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) InitCheckout(ctx context.Context, req payments.InitRequest) (*payments.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.CheckoutSession), args.Error(1)
}

func (m *MockProvider) VerifyTransaction(ctx context.Context, reference string) (bool, error) {
	args := m.Called(ctx, reference)
	return args.Bool(0), args.Error(1)
}

func (m *MockProvider) RequestRefund(ctx context.Context, req payments.RefundRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// MockTicketIssuer is a mock implementation of TicketIssuer
type MockTicketIssuer struct {
	mock.Mock
}

func (m *MockTicketIssuer) IssueForBooking(ctx context.Context, booking *Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

type serviceFixture struct {
	repo     *MockRepository
	catalog  *MockCatalogService
	provider *MockProvider
	issuer   *MockTicketIssuer
	service  Service
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		repo:     &MockRepository{},
		catalog:  &MockCatalogService{},
		provider: &MockProvider{},
		issuer:   &MockTicketIssuer{},
	}

	cfg := &config.Config{
		Payment: config.PaymentConfig{Currency: "GHS"},
		Booking: config.BookingConfig{
			MaxPassengers: 10,
			PendingTTL:    30 * time.Minute,
		},
	}

	f.service = NewService(f.repo, f.catalog, f.provider, cfg, logger.New())
	f.service.SetTicketIssuer(f.issuer)
	return f
}

func validRequest(busID uuid.UUID) CreateBookingRequest {
	return CreateBookingRequest{
		BusID:       busID,
		Origin:      "accra",
		Destination: "kumasi",
		TravelDate:  time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		TimeSlot:    "10:00",
		Email:       "ama.mensah@gmail.com",
		Passengers: []PassengerRequest{
			{
				Name:       "Ama Mensah",
				AgeBracket: "ADULT",
				Gender:     "FEMALE",
				Phone:      "+233244567890",
			},
		},
		EmergencyContact: EmergencyContactRequest{
			Name:         "Kofi Mensah",
			Phone:        "+233209876543",
			Relationship: "Spouse",
		},
	}
}

func catalogFixtures(busID uuid.UUID) (*catalog.BusOffering, *catalog.RouteLeg) {
	leg := &catalog.RouteLeg{
		ID:         uuid.New(),
		OriginCode: "accra",
		DestCode:   "kumasi",
	}
	bus := &catalog.BusOffering{
		ID:        busID,
		Operator:  "STC Intercity",
		Tier:      catalog.TierBusiness,
		Capacity:  45,
		RouteKeys: catalog.StringList{"accra-kumasi", "kumasi-accra"},
		Active:    true,
	}
	return bus, leg
}

func TestCreateBooking_success(t *testing.T) {
	f := newServiceFixture(t)
	userID := uuid.New()
	busID := uuid.New()
	bus, leg := catalogFixtures(busID)

	f.catalog.On("RouteLegByPair", "accra", "kumasi").Return(leg, nil)
	f.catalog.On("GetBus", busID).Return(bus, nil)
	f.catalog.On("FarePerSeat", bus, leg).Return(int64(4500))
	f.repo.On("CreateBookingWithCapacityCheck", mock.Anything, mock.AnythingOfType("*bookings.Booking"), 45).Return(nil)
	f.provider.On("InitCheckout", mock.Anything, mock.AnythingOfType("payments.InitRequest")).Return(&payments.CheckoutSession{
		AuthorizationURL: "https://checkout.paystack.com/abc",
		AccessCode:       "abc",
		Reference:        "QR_123_abcd",
	}, nil)

	resp, err := f.service.CreateBooking(context.Background(), userID, validRequest(busID))

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc", resp.AuthorizationURL)
	assert.Equal(t, int64(4500), resp.Booking.AmountMinor)
	assert.Equal(t, string(StatusPending), resp.Booking.Status)

	f.repo.AssertExpectations(t)
	f.provider.AssertExpectations(t)
}

func TestCreateBooking_sameCity(t *testing.T) {
	f := newServiceFixture(t)

	req := validRequest(uuid.New())
	req.Destination = req.Origin

	_, err := f.service.CreateBooking(context.Background(), uuid.New(), req)

	assert.ErrorIs(t, err, ErrSameCityTrip)
}

func TestCreateBooking_tooManyPassengers(t *testing.T) {
	f := newServiceFixture(t)

	req := validRequest(uuid.New())
	for i := 0; i < 11; i++ {
		req.Passengers = append(req.Passengers, req.Passengers[0])
	}

	_, err := f.service.CreateBooking(context.Background(), uuid.New(), req)

	assert.ErrorIs(t, err, ErrTooManyPassengers)
}

func TestCreateBooking_invalidPhone(t *testing.T) {
	f := newServiceFixture(t)

	req := validRequest(uuid.New())
	req.Passengers[0].Phone = "12345"

	_, err := f.service.CreateBooking(context.Background(), uuid.New(), req)

	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestCreateBooking_invalidAgeBracket(t *testing.T) {
	f := newServiceFixture(t)

	req := validRequest(uuid.New())
	req.Passengers[0].AgeBracket = "TEENAGER"

	_, err := f.service.CreateBooking(context.Background(), uuid.New(), req)

	assert.ErrorIs(t, err, ErrInvalidPassenger)
}

func TestCreateBooking_missingEmergencyRelationship(t *testing.T) {
	f := newServiceFixture(t)

	req := validRequest(uuid.New())
	req.EmergencyContact.Relationship = ""

	_, err := f.service.CreateBooking(context.Background(), uuid.New(), req)

	assert.ErrorIs(t, err, ErrInvalidPassenger)
}

func TestCreateBooking_invalidTimeSlot(t *testing.T) {
	f := newServiceFixture(t)

	req := validRequest(uuid.New())
	req.TimeSlot = "09:30"

	_, err := f.service.CreateBooking(context.Background(), uuid.New(), req)

	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestCreateBooking_departedTrip(t *testing.T) {
	f := newServiceFixture(t)

	req := validRequest(uuid.New())
	req.TravelDate = time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	_, err := f.service.CreateBooking(context.Background(), uuid.New(), req)

	assert.ErrorIs(t, err, ErrTripDeparted)
}

func TestCreateBooking_inactiveBus(t *testing.T) {
	f := newServiceFixture(t)
	busID := uuid.New()
	bus, leg := catalogFixtures(busID)
	bus.Active = false

	f.catalog.On("RouteLegByPair", "accra", "kumasi").Return(leg, nil)
	f.catalog.On("GetBus", busID).Return(bus, nil)

	_, err := f.service.CreateBooking(context.Background(), uuid.New(), validRequest(busID))

	assert.ErrorIs(t, err, ErrBusUnavailable)
}

func TestCreateBooking_routeNotServed(t *testing.T) {
	f := newServiceFixture(t)
	busID := uuid.New()
	bus, leg := catalogFixtures(busID)
	bus.RouteKeys = catalog.StringList{"accra-tamale"}

	f.catalog.On("RouteLegByPair", "accra", "kumasi").Return(leg, nil)
	f.catalog.On("GetBus", busID).Return(bus, nil)

	_, err := f.service.CreateBooking(context.Background(), uuid.New(), validRequest(busID))

	assert.ErrorIs(t, err, ErrRouteNotServed)
}

func TestCreateBooking_soldOut(t *testing.T) {
	f := newServiceFixture(t)
	busID := uuid.New()
	bus, leg := catalogFixtures(busID)

	f.catalog.On("RouteLegByPair", "accra", "kumasi").Return(leg, nil)
	f.catalog.On("GetBus", busID).Return(bus, nil)
	f.catalog.On("FarePerSeat", bus, leg).Return(int64(4500))
	f.repo.On("CreateBookingWithCapacityCheck", mock.Anything, mock.Anything, 45).Return(ErrTripSoldOut)

	_, err := f.service.CreateBooking(context.Background(), uuid.New(), validRequest(busID))

	assert.ErrorIs(t, err, ErrTripSoldOut)
}

func TestCreateBooking_checkoutFailureReleasesHold(t *testing.T) {
	f := newServiceFixture(t)
	busID := uuid.New()
	bus, leg := catalogFixtures(busID)

	f.catalog.On("RouteLegByPair", "accra", "kumasi").Return(leg, nil)
	f.catalog.On("GetBus", busID).Return(bus, nil)
	f.catalog.On("FarePerSeat", bus, leg).Return(int64(4500))
	f.repo.On("CreateBookingWithCapacityCheck", mock.Anything, mock.Anything, 45).Return(nil)
	f.provider.On("InitCheckout", mock.Anything, mock.Anything).Return(nil, payments.ErrProviderUnavailable)
	f.repo.On("UpdateBookingStatus", mock.Anything, mock.Anything, StatusCancelled, mock.Anything).Return(nil)
	f.repo.On("ReleaseInventory", mock.Anything, busID, mock.Anything, "10:00", 1).Return(nil)

	_, err := f.service.CreateBooking(context.Background(), uuid.New(), validRequest(busID))

	require.Error(t, err)
	f.repo.AssertCalled(t, "ReleaseInventory", mock.Anything, busID, mock.Anything, "10:00", 1)
}

func pendingBooking() *Booking {
	return &Booking{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		BusID:       uuid.New(),
		OriginCode:  "accra",
		DestCode:    "kumasi",
		TravelDate:  "2026-03-10",
		TimeSlot:    "10:00",
		SeatCount:   2,
		Email:       "ama.mensah@gmail.com",
		AmountMinor: 9000,
		Currency:    "GHS",
		Status:      StatusPending,
		PaymentRef:  "QR_1234_abcd",
	}
}

func TestConfirmPayment_success(t *testing.T) {
	f := newServiceFixture(t)
	booking := pendingBooking()

	f.repo.On("GetBookingByRef", mock.Anything, booking.PaymentRef).Return(booking, nil)
	f.provider.On("VerifyTransaction", mock.Anything, booking.PaymentRef).Return(true, nil)
	// The issuer flips the booking to CONFIRMED inside its transaction
	f.issuer.On("IssueForBooking", mock.Anything, booking).Run(func(args mock.Arguments) {
		b := args.Get(1).(*Booking)
		b.Status = StatusConfirmed
		b.PaymentStatus = PaymentCompleted
	}).Return(nil)

	resp, err := f.service.ConfirmPayment(context.Background(), booking.PaymentRef)

	require.NoError(t, err)
	assert.Equal(t, string(StatusConfirmed), resp.Status)
	assert.Equal(t, string(PaymentCompleted), resp.PaymentStatus)
	f.repo.AssertNotCalled(t, "UpdateBookingStatus", mock.Anything, mock.Anything, StatusConfirmed, mock.Anything)

	f.issuer.AssertExpectations(t)
}

func TestConfirmPayment_duplicateCallbackBacksOff(t *testing.T) {
	f := newServiceFixture(t)
	booking := pendingBooking()

	f.repo.On("GetBookingByRef", mock.Anything, booking.PaymentRef).Return(booking, nil)
	f.provider.On("VerifyTransaction", mock.Anything, booking.PaymentRef).Return(true, nil)
	// A concurrent callback already claimed the PENDING row
	f.issuer.On("IssueForBooking", mock.Anything, booking).Return(ErrAlreadySettled)

	_, err := f.service.ConfirmPayment(context.Background(), booking.PaymentRef)

	assert.ErrorIs(t, err, ErrAlreadySettled)
	f.provider.AssertNotCalled(t, "RequestRefund", mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "UpdateBookingStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmPayment_alreadySettled(t *testing.T) {
	f := newServiceFixture(t)
	booking := pendingBooking()
	booking.Status = StatusConfirmed

	f.repo.On("GetBookingByRef", mock.Anything, booking.PaymentRef).Return(booking, nil)

	_, err := f.service.ConfirmPayment(context.Background(), booking.PaymentRef)

	assert.ErrorIs(t, err, ErrAlreadySettled)
	f.provider.AssertNotCalled(t, "VerifyTransaction", mock.Anything, mock.Anything)
}

func TestConfirmPayment_verificationFailureCancels(t *testing.T) {
	f := newServiceFixture(t)
	booking := pendingBooking()

	f.repo.On("GetBookingByRef", mock.Anything, booking.PaymentRef).Return(booking, nil)
	f.provider.On("VerifyTransaction", mock.Anything, booking.PaymentRef).Return(false, nil)
	f.repo.On("UpdateBookingStatus", mock.Anything, booking.ID, StatusCancelled, mock.Anything).Return(nil)
	f.repo.On("ReleaseInventory", mock.Anything, booking.BusID, booking.TravelDate, booking.TimeSlot, booking.SeatCount).Return(nil)

	resp, err := f.service.ConfirmPayment(context.Background(), booking.PaymentRef)

	require.NoError(t, err)
	assert.Equal(t, string(StatusCancelled), resp.Status)
	f.issuer.AssertNotCalled(t, "IssueForBooking", mock.Anything, mock.Anything)
}

func TestConfirmPayment_overbookedRefundsInFull(t *testing.T) {
	f := newServiceFixture(t)
	booking := pendingBooking()

	f.repo.On("GetBookingByRef", mock.Anything, booking.PaymentRef).Return(booking, nil)
	f.provider.On("VerifyTransaction", mock.Anything, booking.PaymentRef).Return(true, nil)
	f.issuer.On("IssueForBooking", mock.Anything, booking).Return(ErrOverbooked)
	f.repo.On("UpdateBookingStatus", mock.Anything, booking.ID, StatusFailedAllocation, mock.Anything).Return(nil)
	f.repo.On("ReleaseInventory", mock.Anything, booking.BusID, booking.TravelDate, booking.TimeSlot, booking.SeatCount).Return(nil)
	f.provider.On("RequestRefund", mock.Anything, mock.MatchedBy(func(req payments.RefundRequest) bool {
		return req.Reference == booking.PaymentRef && req.AmountMinor == booking.AmountMinor
	})).Return(nil)

	_, err := f.service.ConfirmPayment(context.Background(), booking.PaymentRef)

	assert.ErrorIs(t, err, ErrOverbooked)
	f.provider.AssertExpectations(t)
	f.repo.AssertCalled(t, "UpdateBookingStatus", mock.Anything, booking.ID, StatusFailedAllocation, mock.Anything)
}

func TestCancelPayment_releasesInventory(t *testing.T) {
	f := newServiceFixture(t)
	booking := pendingBooking()

	f.repo.On("GetBookingByRef", mock.Anything, booking.PaymentRef).Return(booking, nil)
	f.repo.On("UpdateBookingStatus", mock.Anything, booking.ID, StatusCancelled, mock.Anything).Return(nil)
	f.repo.On("ReleaseInventory", mock.Anything, booking.BusID, booking.TravelDate, booking.TimeSlot, booking.SeatCount).Return(nil)

	resp, err := f.service.CancelPayment(context.Background(), booking.PaymentRef)

	require.NoError(t, err)
	assert.Equal(t, string(StatusCancelled), resp.Status)
	f.repo.AssertExpectations(t)
}

func TestGetBooking_ownership(t *testing.T) {
	f := newServiceFixture(t)
	booking := pendingBooking()

	f.repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)

	// Stranger is rejected
	_, err := f.service.GetBooking(context.Background(), uuid.New(), booking.ID, false)
	assert.ErrorIs(t, err, ErrNotBookingOwner)

	// Owner is allowed
	resp, err := f.service.GetBooking(context.Background(), booking.UserID, booking.ID, false)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, resp.ID)

	// Admin may read any booking
	_, err = f.service.GetBooking(context.Background(), uuid.New(), booking.ID, true)
	assert.NoError(t, err)
}

func TestExpirePendingBookings(t *testing.T) {
	f := newServiceFixture(t)
	stale1 := pendingBooking()
	stale2 := pendingBooking()

	f.repo.On("FindPendingBefore", mock.Anything, mock.AnythingOfType("time.Time")).Return([]Booking{*stale1, *stale2}, nil)
	f.repo.On("UpdateBookingStatus", mock.Anything, mock.Anything, StatusCancelled, mock.Anything).Return(nil)
	f.repo.On("ReleaseInventory", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	expired, err := f.service.ExpirePendingBookings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, expired)
	f.repo.AssertNumberOfCalls(t, "ReleaseInventory", 2)
}

func TestReservedSeats_delegatesToRepo(t *testing.T) {
	f := newServiceFixture(t)
	busID := uuid.New()

	f.repo.On("GetReservedCount", mock.Anything, busID, "2026-03-10", "10:00").Return(12, nil)

	reserved, err := f.service.ReservedSeats(context.Background(), busID, "2026-03-10", "10:00")

	require.NoError(t, err)
	assert.Equal(t, 12, reserved)
}
