package bookings

import (
	"errors"
	"net/http"

	"quickride/internal/catalog"
	"quickride/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service  Service
	validate *validator.Validate
}

func NewController(service Service) *Controller {
	validate := validator.New()
	validate.RegisterValidation("phone_gh", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return &Controller{
		service:  service,
		validate: validate,
	}
}

// CreateBooking reserves seats and opens a payment checkout
func (ctrl *Controller) CreateBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", []string{err.Error()})
		return
	}
	if err := ctrl.validate.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", []string{err.Error()})
		return
	}

	checkout, err := ctrl.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Booking created successfully", checkout)
}

// GetBooking returns one booking; owners and admins only
func (ctrl *Controller) GetBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	booking, err := ctrl.service.GetBooking(c.Request.Context(), userID, bookingID, isAdmin(c))
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Booking fetched successfully", booking)
}

// GetMyBookings returns the caller's booking history
func (ctrl *Controller) GetMyBookings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var query BookingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", []string{err.Error()})
		return
	}

	page, err := ctrl.service.GetUserBookings(c.Request.Context(), userID, query)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Bookings fetched successfully", page)
}

// ListAllBookings returns every customer's bookings; admin only,
// enforced at the route level
func (ctrl *Controller) ListAllBookings(c *gin.Context) {
	var query BookingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", []string{err.Error()})
		return
	}

	page, err := ctrl.service.ListAllBookings(c.Request.Context(), query)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Bookings fetched successfully", page)
}

// PaymentSuccess is the gateway success callback. The transaction is
// re-verified server side before tickets are issued.
func (ctrl *Controller) PaymentSuccess(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		response.Error(c, http.StatusBadRequest, "Missing payment reference", nil)
		return
	}

	booking, err := ctrl.service.ConfirmPayment(c.Request.Context(), reference)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Payment confirmed, tickets issued", booking)
}

// PaymentCancel is the gateway close/abort callback
func (ctrl *Controller) PaymentCancel(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		response.Error(c, http.StatusBadRequest, "Missing payment reference", nil)
		return
	}

	booking, err := ctrl.service.CancelPayment(c.Request.Context(), reference)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Booking cancelled", booking)
}

func (ctrl *Controller) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBookingNotFound),
		errors.Is(err, catalog.ErrRouteNotFound),
		errors.Is(err, catalog.ErrBusNotFound):
		response.Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrTripSoldOut),
		errors.Is(err, ErrInsufficientCapacity),
		errors.Is(err, ErrOverbooked),
		errors.Is(err, ErrAlreadySettled):
		response.Error(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, ErrSameCityTrip),
		errors.Is(err, ErrInvalidTimeSlot),
		errors.Is(err, ErrInvalidPhone),
		errors.Is(err, ErrInvalidPassenger),
		errors.Is(err, ErrTooManyPassengers):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ErrTripDeparted),
		errors.Is(err, ErrRouteNotServed),
		errors.Is(err, ErrBusUnavailable):
		response.Error(c, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, ErrNotBookingOwner):
		response.Error(c, http.StatusForbidden, err.Error(), nil)
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
