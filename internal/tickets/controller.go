package tickets

import (
	"errors"
	"net/http"
	"strings"

	"quickride/internal/bookings"
	"quickride/internal/catalog"
	"quickride/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetMyTickets returns the caller's tickets with derived statuses
func (ctrl *Controller) GetMyTickets(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	results, err := ctrl.service.GetMyTickets(c.Request.Context(), userID)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	results = filterByStatus(results, c.Query("status"))
	response.Success(c, http.StatusOK, "Tickets fetched successfully", results)
}

// filterByStatus narrows a ticket list to one derived status. Empty or
// "all" keeps everything; an unknown value matches nothing.
func filterByStatus(results []TicketResponse, status string) []TicketResponse {
	if status == "" || strings.EqualFold(status, "all") {
		return results
	}
	filtered := make([]TicketResponse, 0, len(results))
	for _, ticket := range results {
		if strings.EqualFold(ticket.Status, status) {
			filtered = append(filtered, ticket)
		}
	}
	return filtered
}

// GetTicket returns one ticket; owners and admins only
func (ctrl *Controller) GetTicket(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid ticket ID", nil)
		return
	}

	ticket, err := ctrl.service.GetTicket(c.Request.Context(), userID, ticketID, isAdmin(c))
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Ticket fetched successfully", ticket)
}

// GetBookingTickets returns all tickets on one booking
func (ctrl *Controller) GetBookingTickets(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	results, err := ctrl.service.GetBookingTickets(c.Request.Context(), userID, bookingID, isAdmin(c))
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Tickets fetched successfully", results)
}

// CancelTicket cancels one ticket and requests the tiered refund
func (ctrl *Controller) CancelTicket(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid ticket ID", nil)
		return
	}

	result, err := ctrl.service.CancelTicket(c.Request.Context(), userID, ticketID, isAdmin(c))
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Ticket cancelled successfully", result)
}

func (ctrl *Controller) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTicketNotFound),
		errors.Is(err, bookings.ErrBookingNotFound),
		errors.Is(err, catalog.ErrBusNotFound):
		response.Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrNotTicketOwner), errors.Is(err, bookings.ErrNotBookingOwner):
		response.Error(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, ErrNotCancellable), errors.Is(err, ErrTooLateToCancel):
		response.Error(c, http.StatusUnprocessableEntity, err.Error(), nil)
	default:
		response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(str)
	return userID, err == nil
}

func isAdmin(c *gin.Context) bool {
	role, exists := c.Get("user_role")
	return exists && role == "ADMIN"
}
