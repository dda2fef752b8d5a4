package tickets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickride/internal/bookings"
	"quickride/internal/catalog"
	"quickride/internal/payments"
	"quickride/internal/shared/config"
	"quickride/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService is the slice of the catalog ticket issuance needs
type CatalogService interface {
	GetBus(id uuid.UUID) (*catalog.BusOffering, error)
}

type Service interface {
	SetEventPublisher(publisher bookings.EventPublisher)

	// IssueForBooking satisfies bookings.TicketIssuer
	IssueForBooking(ctx context.Context, booking *bookings.Booking) error

	GetTicket(ctx context.Context, userID, ticketID uuid.UUID, isAdmin bool) (*TicketResponse, error)
	GetMyTickets(ctx context.Context, userID uuid.UUID) ([]TicketResponse, error)
	GetBookingTickets(ctx context.Context, userID, bookingID uuid.UUID, isAdmin bool) ([]TicketResponse, error)
	CancelTicket(ctx context.Context, userID, ticketID uuid.UUID, isAdmin bool) (*CancelTicketResponse, error)
}

type service struct {
	repo           Repository
	bookingRepo    bookings.Repository
	catalogService CatalogService
	provider       payments.Provider
	publisher      bookings.EventPublisher
	cfg            *config.Config
	log            *logger.Logger
}

func NewService(repo Repository, bookingRepo bookings.Repository, catalogService CatalogService, provider payments.Provider, cfg *config.Config, log *logger.Logger) Service {
	return &service{
		repo:           repo,
		bookingRepo:    bookingRepo,
		catalogService: catalogService,
		provider:       provider,
		cfg:            cfg,
		log:            log,
	}
}

func (s *service) SetEventPublisher(publisher bookings.EventPublisher) {
	s.publisher = publisher
}

func (s *service) IssueForBooking(ctx context.Context, booking *bookings.Booking) error {
	bus, err := s.catalogService.GetBus(booking.BusID)
	if err != nil {
		return err
	}

	issued, err := s.repo.IssueForBooking(ctx, booking, bus.Capacity)
	if err != nil {
		if errors.Is(err, ErrSeatsExhausted) {
			return bookings.ErrOverbooked
		}
		return err
	}

	s.log.LogTicketsIssued(ctx, booking.ID.String(), len(issued))

	if s.publisher != nil {
		numbers := make([]string, len(issued))
		labels := make([]string, len(issued))
		for i, ticket := range issued {
			numbers[i] = ticket.TicketNumber
			labels[i] = ticket.SeatLabel
		}
		err := s.publisher.PublishBookingEvent(ctx, "TICKETS_ISSUED", booking.ID, booking.Email, map[string]interface{}{
			"ticket_numbers": numbers,
			"seat_labels":    labels,
			"travel_date":    booking.TravelDate,
			"time_slot":      booking.TimeSlot,
		})
		if err != nil {
			s.log.ErrorWithContext(ctx, "failed to publish tickets issued event", err, nil)
		}
	}
	return nil
}

func (s *service) GetTicket(ctx context.Context, userID, ticketID uuid.UUID, isAdmin bool) (*TicketResponse, error) {
	ticket, err := s.loadOwnedTicket(ctx, userID, ticketID, isAdmin)
	if err != nil {
		return nil, err
	}
	return toTicketResponse(ticket, s.derivedStatus(ticket)), nil
}

func (s *service) GetMyTickets(ctx context.Context, userID uuid.UUID) ([]TicketResponse, error) {
	results, err := s.repo.GetUserTickets(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(results), nil
}

func (s *service) GetBookingTickets(ctx context.Context, userID, bookingID uuid.UUID, isAdmin bool) ([]TicketResponse, error) {
	booking, err := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookings.ErrBookingNotFound
		}
		return nil, err
	}
	if booking.UserID != userID && !isAdmin {
		return nil, bookings.ErrNotBookingOwner
	}

	results, err := s.repo.GetBookingTickets(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(results), nil
}

func (s *service) CancelTicket(ctx context.Context, userID, ticketID uuid.UUID, isAdmin bool) (*CancelTicketResponse, error) {
	ticket, err := s.loadOwnedTicket(ctx, userID, ticketID, isAdmin)
	if err != nil {
		return nil, err
	}

	departure, err := catalog.SlotDeparture(ticket.TravelDate, ticket.TimeSlot)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if DeriveStatus(ticket.Status, departure, now) != StatusActive {
		return nil, ErrNotCancellable
	}

	refund, err := RefundQuote(ticket.FareMinor, departure, now)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CancelTicket(ctx, ticket.ID, refund, now); err != nil {
		return nil, err
	}
	ticket.Status = StatusCancelled
	ticket.RefundMinor = refund
	ticket.CancelledAt = &now

	booking, err := s.bookingRepo.GetBookingByID(ctx, ticket.BookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking for refund: %w", err)
	}

	refundReq := payments.RefundRequest{
		Reference:   booking.PaymentRef,
		AmountMinor: refund,
		Reason:      "ticket cancelled by passenger",
	}
	if err := s.provider.RequestRefund(ctx, refundReq); err != nil {
		s.log.ErrorWithContext(ctx, "failed to request ticket refund", err, nil)
	}

	s.log.LogTicketCancelled(ctx, ticket.ID.String(), refund)

	if s.publisher != nil {
		err := s.publisher.PublishBookingEvent(ctx, "REFUND_REQUESTED", booking.ID, booking.Email, map[string]interface{}{
			"ticket_number": ticket.TicketNumber,
			"refund_minor":  refund,
			"currency":      booking.Currency,
			"payment_ref":   booking.PaymentRef,
		})
		if err != nil {
			s.log.ErrorWithContext(ctx, "failed to publish refund event", err, nil)
		}
	}

	return &CancelTicketResponse{
		Ticket:      *toTicketResponse(ticket, StatusCancelled),
		RefundMinor: refund,
		Currency:    booking.Currency,
	}, nil
}

func (s *service) loadOwnedTicket(ctx context.Context, userID, ticketID uuid.UUID, isAdmin bool) (*Ticket, error) {
	ticket, err := s.repo.GetTicketByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	if ticket.UserID != userID && !isAdmin {
		return nil, ErrNotTicketOwner
	}
	return ticket, nil
}

func (s *service) derivedStatus(ticket *Ticket) Status {
	departure, err := catalog.SlotDeparture(ticket.TravelDate, ticket.TimeSlot)
	if err != nil {
		return ticket.Status
	}
	return DeriveStatus(ticket.Status, departure, time.Now())
}

func (s *service) toResponses(results []Ticket) []TicketResponse {
	responses := make([]TicketResponse, len(results))
	for i := range results {
		responses[i] = *toTicketResponse(&results[i], s.derivedStatus(&results[i]))
	}
	return responses
}
