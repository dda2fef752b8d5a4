package availability

import (
	"net/http"
	"time"

	"quickride/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// SearchAvailability returns per-bus, per-slot seat availability for a
// leg and travel date
func (ctrl *Controller) SearchAvailability(c *gin.Context) {
	origin := c.Query("origin")
	dest := c.Query("destination")
	travelDate := c.Query("travel_date")

	if origin == "" || dest == "" || travelDate == "" {
		response.Error(c, http.StatusBadRequest, "origin, destination and travel_date are required", nil)
		return
	}
	if origin == dest {
		response.Error(c, http.StatusBadRequest, "origin and destination must differ", nil)
		return
	}
	if _, err := time.Parse("2006-01-02", travelDate); err != nil {
		response.Error(c, http.StatusBadRequest, "travel_date must be YYYY-MM-DD", nil)
		return
	}

	result, err := ctrl.service.ComputeAvailability(c.Request.Context(), origin, dest, travelDate)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to compute availability", nil)
		return
	}
	response.Success(c, http.StatusOK, "Availability computed successfully", result)
}

// GetTimeSlots returns the bookable departure slots for a leg and date
func (ctrl *Controller) GetTimeSlots(c *gin.Context) {
	origin := c.Query("origin")
	dest := c.Query("destination")
	travelDate := c.Query("travel_date")

	if origin == "" || dest == "" || travelDate == "" {
		response.Error(c, http.StatusBadRequest, "origin, destination and travel_date are required", nil)
		return
	}
	if _, err := time.Parse("2006-01-02", travelDate); err != nil {
		response.Error(c, http.StatusBadRequest, "travel_date must be YYYY-MM-DD", nil)
		return
	}

	result, err := ctrl.service.AvailableTimeSlots(c.Request.Context(), origin, dest, travelDate)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch time slots", nil)
		return
	}
	response.Success(c, http.StatusOK, "Time slots fetched successfully", result)
}
