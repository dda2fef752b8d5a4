package bookings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"quickride/internal/catalog"
	"quickride/internal/payments"
	"quickride/internal/shared/config"
	"quickride/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrTripSoldOut          = errors.New("trip is fully booked")
	ErrInsufficientCapacity = errors.New("not enough seats left on this trip")
	ErrOverbooked           = errors.New("no seats could be assigned for this trip")
	ErrAlreadySettled       = errors.New("booking has already been settled")
	ErrSameCityTrip         = errors.New("origin and destination must differ")
	ErrRouteNotServed       = errors.New("bus does not serve this route")
	ErrBusUnavailable       = errors.New("bus is not available for booking")
	ErrInvalidTimeSlot      = errors.New("invalid departure time slot")
	ErrTripDeparted         = errors.New("trip has already departed")
	ErrTooManyPassengers    = errors.New("too many passengers for one booking")
	ErrInvalidPhone         = errors.New("invalid phone number")
	ErrInvalidPassenger     = errors.New("incomplete passenger details")
	ErrNotBookingOwner      = errors.New("booking belongs to another user")
)

var phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]{10,15}$`)

var ageBrackets = map[string]bool{"CHILD": true, "ADULT": true, "SENIOR": true}

var genders = map[string]bool{"MALE": true, "FEMALE": true}

// CatalogService is the slice of the catalog the booking flow needs
type CatalogService interface {
	GetBus(id uuid.UUID) (*catalog.BusOffering, error)
	RouteLegByPair(originCode, destCode string) (*catalog.RouteLeg, error)
	FarePerSeat(bus *catalog.BusOffering, leg *catalog.RouteLeg) int64
}

// TicketIssuer confirms a PENDING booking and writes its tickets in one
// transaction. Implemented by the tickets package; returns
// ErrAlreadySettled when another caller already confirmed the booking
// and ErrOverbooked when no free seat labels are left.
type TicketIssuer interface {
	IssueForBooking(ctx context.Context, booking *Booking) error
}

// EventPublisher fans booking lifecycle events out to the notification
// pipeline. A nil publisher disables notifications.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, eventType string, bookingID uuid.UUID, email string, payload map[string]interface{}) error
}

type Service interface {
	SetTicketIssuer(issuer TicketIssuer)
	SetEventPublisher(publisher EventPublisher)

	CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*CheckoutResponse, error)
	ConfirmPayment(ctx context.Context, reference string) (*BookingResponse, error)
	CancelPayment(ctx context.Context, reference string) (*BookingResponse, error)

	GetBooking(ctx context.Context, userID uuid.UUID, bookingID uuid.UUID, isAdmin bool) (*BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error)
	ListAllBookings(ctx context.Context, query BookingListQuery) (*PaginatedBookings, error)

	// ReservedSeats feeds the availability computation
	ReservedSeats(ctx context.Context, busID uuid.UUID, travelDate, timeSlot string) (int, error)

	// ExpirePendingBookings cancels PENDING bookings whose payment
	// callback never arrived and returns their seats to inventory.
	ExpirePendingBookings(ctx context.Context) (int, error)
}

type service struct {
	repo           Repository
	catalogService CatalogService
	provider       payments.Provider
	ticketIssuer   TicketIssuer
	publisher      EventPublisher
	cfg            *config.Config
	log            *logger.Logger
}

func NewService(repo Repository, catalogService CatalogService, provider payments.Provider, cfg *config.Config, log *logger.Logger) Service {
	return &service{
		repo:           repo,
		catalogService: catalogService,
		provider:       provider,
		cfg:            cfg,
		log:            log,
	}
}

func (s *service) SetTicketIssuer(issuer TicketIssuer) {
	s.ticketIssuer = issuer
}

func (s *service) SetEventPublisher(publisher EventPublisher) {
	s.publisher = publisher
}

func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*CheckoutResponse, error) {
	if req.Origin == req.Destination {
		return nil, ErrSameCityTrip
	}
	if len(req.Passengers) > s.cfg.Booking.MaxPassengers {
		return nil, ErrTooManyPassengers
	}
	for _, p := range req.Passengers {
		if p.Name == "" || !ageBrackets[p.AgeBracket] || !genders[p.Gender] {
			return nil, ErrInvalidPassenger
		}
		if !phonePattern.MatchString(p.Phone) {
			return nil, ErrInvalidPhone
		}
	}
	if req.EmergencyContact.Name == "" || req.EmergencyContact.Relationship == "" {
		return nil, ErrInvalidPassenger
	}
	if !phonePattern.MatchString(req.EmergencyContact.Phone) {
		return nil, ErrInvalidPhone
	}
	if !catalog.IsValidTimeSlot(req.TimeSlot) {
		return nil, ErrInvalidTimeSlot
	}

	departure, err := catalog.SlotDeparture(req.TravelDate, req.TimeSlot)
	if err != nil {
		return nil, ErrInvalidTimeSlot
	}
	if !departure.After(time.Now()) {
		return nil, ErrTripDeparted
	}

	leg, err := s.catalogService.RouteLegByPair(req.Origin, req.Destination)
	if err != nil {
		return nil, err
	}

	bus, err := s.catalogService.GetBus(req.BusID)
	if err != nil {
		return nil, err
	}
	if !bus.Active {
		return nil, ErrBusUnavailable
	}
	if !bus.ServesLeg(leg.Key()) {
		return nil, ErrRouteNotServed
	}

	seatCount := len(req.Passengers)
	amount := s.catalogService.FarePerSeat(bus, leg) * int64(seatCount)

	booking := &Booking{
		UserID:                userID,
		BusID:                 bus.ID,
		RouteLegID:            leg.ID,
		OriginCode:            req.Origin,
		DestCode:              req.Destination,
		TravelDate:            req.TravelDate,
		TimeSlot:              req.TimeSlot,
		SeatCount:             seatCount,
		Email:                 req.Email,
		AmountMinor:           amount,
		Currency:              s.cfg.Payment.Currency,
		Status:                StatusPending,
		PaymentStatus:         PaymentPending,
		PaymentRef:            payments.NewReference(),
		EmergencyName:         req.EmergencyContact.Name,
		EmergencyPhone:        req.EmergencyContact.Phone,
		EmergencyRelationship: req.EmergencyContact.Relationship,
	}
	for i, p := range req.Passengers {
		booking.Passengers = append(booking.Passengers, Passenger{
			Position:   i + 1,
			Name:       p.Name,
			AgeBracket: p.AgeBracket,
			Gender:     p.Gender,
			Phone:      p.Phone,
		})
	}

	if err := s.repo.CreateBookingWithCapacityCheck(ctx, booking, bus.Capacity); err != nil {
		return nil, err
	}

	session, err := s.provider.InitCheckout(ctx, payments.InitRequest{
		Reference:   booking.PaymentRef,
		AmountMinor: booking.AmountMinor,
		Currency:    booking.Currency,
		Email:       booking.Email,
		CallbackURL: s.cfg.Payment.CallbackURL,
	})
	if err != nil {
		// Checkout never opened, so the hold is released immediately
		// instead of waiting for the sweep.
		now := time.Now()
		if cancelErr := s.repo.UpdateBookingStatus(ctx, booking.ID, StatusCancelled, &now); cancelErr != nil {
			s.log.ErrorWithContext(ctx, "failed to cancel booking after checkout failure", cancelErr, nil)
		}
		if releaseErr := s.repo.ReleaseInventory(ctx, booking.BusID, booking.TravelDate, booking.TimeSlot, booking.SeatCount); releaseErr != nil {
			s.log.ErrorWithContext(ctx, "failed to release inventory after checkout failure", releaseErr, nil)
		}
		return nil, fmt.Errorf("failed to open checkout: %w", err)
	}

	s.log.LogBookingCreated(ctx, booking.ID.String(), booking.BusID.String(), userID.String())

	return &CheckoutResponse{
		Booking:          *toBookingResponse(booking),
		AuthorizationURL: session.AuthorizationURL,
		AccessCode:       session.AccessCode,
		Reference:        session.Reference,
	}, nil
}

func (s *service) ConfirmPayment(ctx context.Context, reference string) (*BookingResponse, error) {
	booking, err := s.repo.GetBookingByRef(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.Status.IsSettled() {
		return nil, ErrAlreadySettled
	}

	settled, err := s.provider.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to verify transaction: %w", err)
	}
	if !settled {
		return s.cancelBooking(ctx, booking)
	}

	// The issuer confirms the booking and writes the tickets in one
	// transaction: a duplicate callback loses the conditional status
	// update and comes back as ErrAlreadySettled, and any issuance
	// failure rolls the confirmation back so the booking stays PENDING.
	if err := s.ticketIssuer.IssueForBooking(ctx, booking); err != nil {
		if errors.Is(err, ErrOverbooked) {
			return nil, s.failAllocation(ctx, booking)
		}
		if errors.Is(err, ErrAlreadySettled) {
			return nil, ErrAlreadySettled
		}
		return nil, fmt.Errorf("failed to issue tickets: %w", err)
	}

	s.publish(ctx, "BOOKING_CONFIRMED", booking, map[string]interface{}{
		"amount_minor": booking.AmountMinor,
		"currency":     booking.Currency,
	})

	return toBookingResponse(booking), nil
}

func (s *service) CancelPayment(ctx context.Context, reference string) (*BookingResponse, error) {
	booking, err := s.repo.GetBookingByRef(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.Status.IsSettled() {
		return nil, ErrAlreadySettled
	}

	return s.cancelBooking(ctx, booking)
}

// cancelBooking moves a PENDING booking to CANCELLED and frees its seats
func (s *service) cancelBooking(ctx context.Context, booking *Booking) (*BookingResponse, error) {
	now := time.Now()
	if err := s.repo.UpdateBookingStatus(ctx, booking.ID, StatusCancelled, &now); err != nil {
		return nil, err
	}
	booking.Status = StatusCancelled
	booking.PaymentStatus = PaymentStatusFor(StatusCancelled)
	booking.CancelledAt = &now

	if err := s.repo.ReleaseInventory(ctx, booking.BusID, booking.TravelDate, booking.TimeSlot, booking.SeatCount); err != nil {
		s.log.ErrorWithContext(ctx, "failed to release inventory for cancelled booking", err, nil)
	}

	s.publish(ctx, "BOOKING_CANCELLED", booking, nil)

	return toBookingResponse(booking), nil
}

// failAllocation handles a paid booking that could not get seats. The
// money goes back in full and the booking is terminal.
func (s *service) failAllocation(ctx context.Context, booking *Booking) error {
	now := time.Now()
	if err := s.repo.UpdateBookingStatus(ctx, booking.ID, StatusFailedAllocation, &now); err != nil {
		return err
	}
	booking.Status = StatusFailedAllocation
	booking.PaymentStatus = PaymentStatusFor(StatusFailedAllocation)

	if err := s.repo.ReleaseInventory(ctx, booking.BusID, booking.TravelDate, booking.TimeSlot, booking.SeatCount); err != nil {
		s.log.ErrorWithContext(ctx, "failed to release inventory after allocation failure", err, nil)
	}

	refund := payments.RefundRequest{
		Reference:   booking.PaymentRef,
		AmountMinor: booking.AmountMinor,
		Reason:      "seat allocation failed",
	}
	if err := s.provider.RequestRefund(ctx, refund); err != nil {
		s.log.ErrorWithContext(ctx, "failed to request refund after allocation failure", err, nil)
	}

	s.publish(ctx, "REFUND_REQUESTED", booking, map[string]interface{}{
		"refund_minor": booking.AmountMinor,
		"currency":     booking.Currency,
		"payment_ref":  booking.PaymentRef,
		"reason":       "seat allocation failed",
	})

	return ErrOverbooked
}

func (s *service) GetBooking(ctx context.Context, userID uuid.UUID, bookingID uuid.UUID, isAdmin bool) (*BookingResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.UserID != userID && !isAdmin {
		return nil, ErrNotBookingOwner
	}
	return toBookingResponse(booking), nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error) {
	results, totalCount, err := s.repo.GetUserBookings(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	return paginate(results, totalCount, query), nil
}

func paginate(results []Booking, totalCount int64, query BookingListQuery) *PaginatedBookings {
	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 10
	}

	page := &PaginatedBookings{
		Bookings:   make([]BookingResponse, len(results)),
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
	}
	for i := range results {
		page.Bookings[i] = *toBookingResponse(&results[i])
	}
	return page
}

// ListAllBookings is the operator view across every customer
func (s *service) ListAllBookings(ctx context.Context, query BookingListQuery) (*PaginatedBookings, error) {
	results, totalCount, err := s.repo.ListBookings(ctx, query)
	if err != nil {
		return nil, err
	}
	return paginate(results, totalCount, query), nil
}

func (s *service) ReservedSeats(ctx context.Context, busID uuid.UUID, travelDate, timeSlot string) (int, error) {
	return s.repo.GetReservedCount(ctx, busID, travelDate, timeSlot)
}

func (s *service) ExpirePendingBookings(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.cfg.Booking.PendingTTL)
	stale, err := s.repo.FindPendingBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		if _, err := s.cancelBooking(ctx, &stale[i]); err != nil {
			s.log.ErrorWithContext(ctx, "failed to expire pending booking", err, nil)
			continue
		}
		expired++
	}
	return expired, nil
}

func (s *service) publish(ctx context.Context, eventType string, booking *Booking, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if payload == nil {
		payload = map[string]interface{}{}
	}
	payload["origin"] = booking.OriginCode
	payload["destination"] = booking.DestCode
	payload["travel_date"] = booking.TravelDate
	payload["time_slot"] = booking.TimeSlot
	payload["seat_count"] = booking.SeatCount
	if err := s.publisher.PublishBookingEvent(ctx, eventType, booking.ID, booking.Email, payload); err != nil {
		s.log.ErrorWithContext(ctx, "failed to publish booking event", err, nil)
	}
}
