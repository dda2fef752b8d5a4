package catalog

import (
	"errors"
	"net/http"

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
	return &Controller{
		service:  service,
		validate: validator.New(),
	}
}

// ListCities returns every bookable city
func (ctrl *Controller) ListCities(c *gin.Context) {
	cities, err := ctrl.service.ListCities(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch cities", nil)
		return
	}
	response.Success(c, http.StatusOK, "Cities fetched successfully", cities)
}

// CreateCity registers a new city (admin only)
func (ctrl *Controller) CreateCity(c *gin.Context) {
	var req CreateCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", []string{err.Error()})
		return
	}
	if err := ctrl.validate.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", []string{err.Error()})
		return
	}

	city, err := ctrl.service.CreateCity(c.Request.Context(), req)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "City created successfully", city)
}

// DeleteCity removes a city (admin only)
func (ctrl *Controller) DeleteCity(c *gin.Context) {
	code := c.Param("code")
	if err := ctrl.service.DeleteCity(c.Request.Context(), code); err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "City deleted successfully", nil)
}

// ListRoutes returns every route leg with resolved city names
func (ctrl *Controller) ListRoutes(c *gin.Context) {
	routes, err := ctrl.service.ListRouteLegs(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch routes", nil)
		return
	}
	response.Success(c, http.StatusOK, "Routes fetched successfully", routes)
}

// CreateRoute adds a route leg (admin only)
func (ctrl *Controller) CreateRoute(c *gin.Context) {
	var req CreateRouteLegRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", []string{err.Error()})
		return
	}
	if err := ctrl.validate.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", []string{err.Error()})
		return
	}

	leg, err := ctrl.service.CreateRouteLeg(c.Request.Context(), req)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Route created successfully", leg)
}

// UpdateRoute updates a route leg (admin only)
func (ctrl *Controller) UpdateRoute(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid route ID", nil)
		return
	}

	var req UpdateRouteLegRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", []string{err.Error()})
		return
	}
	if err := ctrl.validate.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", []string{err.Error()})
		return
	}

	leg, err := ctrl.service.UpdateRouteLeg(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Route updated successfully", leg)
}

// DeleteRoute removes a route leg and its fare overrides (admin only)
func (ctrl *Controller) DeleteRoute(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid route ID", nil)
		return
	}
	if err := ctrl.service.DeleteRouteLeg(c.Request.Context(), id); err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Route deleted successfully", nil)
}

// ListBuses returns bus offerings. Admins can pass ?include_inactive=true.
func (ctrl *Controller) ListBuses(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true" && isAdmin(c)

	buses, err := ctrl.service.ListBuses(c.Request.Context(), includeInactive)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch buses", nil)
		return
	}
	response.Success(c, http.StatusOK, "Buses fetched successfully", buses)
}

// GetBus returns a single bus offering
func (ctrl *Controller) GetBus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid bus ID", nil)
		return
	}

	bus, err := ctrl.service.GetBus(id)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Bus fetched successfully", toBusResponse(bus))
}

// CreateBus registers a bus offering (admin only)
func (ctrl *Controller) CreateBus(c *gin.Context) {
	var req CreateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", []string{err.Error()})
		return
	}
	if err := ctrl.validate.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", []string{err.Error()})
		return
	}

	bus, err := ctrl.service.CreateBus(c.Request.Context(), req)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Bus created successfully", bus)
}

// UpdateBus updates a bus offering (admin only)
func (ctrl *Controller) UpdateBus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid bus ID", nil)
		return
	}

	var req UpdateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", []string{err.Error()})
		return
	}
	if err := ctrl.validate.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", []string{err.Error()})
		return
	}

	bus, err := ctrl.service.UpdateBus(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Bus updated successfully", bus)
}

// DeleteBus removes a bus offering (admin only)
func (ctrl *Controller) DeleteBus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid bus ID", nil)
		return
	}
	if err := ctrl.service.DeleteBus(c.Request.Context(), id); err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Bus deleted successfully", nil)
}

// ListPrices returns every fare override (admin only)
func (ctrl *Controller) ListPrices(c *gin.Context) {
	prices, err := ctrl.service.ListPrices(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch prices", nil)
		return
	}
	response.Success(c, http.StatusOK, "Prices fetched successfully", prices)
}

// SetPrice creates or replaces a fare override (admin only)
func (ctrl *Controller) SetPrice(c *gin.Context) {
	var req SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", []string{err.Error()})
		return
	}
	if err := ctrl.validate.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", []string{err.Error()})
		return
	}

	price, err := ctrl.service.SetPrice(c.Request.Context(), req)
	if err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Price set successfully", price)
}

// DeletePrice removes a fare override (admin only)
func (ctrl *Controller) DeletePrice(c *gin.Context) {
	tier := ServiceTier(c.Query("tier"))
	origin := c.Query("origin")
	dest := c.Query("destination")

	if err := ctrl.service.DeletePrice(c.Request.Context(), origin, dest, tier); err != nil {
		ctrl.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Price deleted successfully", nil)
}

func (ctrl *Controller) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCityNotFound),
		errors.Is(err, ErrRouteNotFound),
		errors.Is(err, ErrBusNotFound),
		errors.Is(err, ErrPriceNotFound):
		response.Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrCityExists), errors.Is(err, ErrRouteExists):
		response.Error(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, ErrSameCity),
		errors.Is(err, ErrUnknownCity),
		errors.Is(err, ErrInvalidTier),
		errors.Is(err, ErrUnknownRouteKey):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	default:
		response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}

func isAdmin(c *gin.Context) bool {
	role, exists := c.Get("user_role")
	return exists && role == "ADMIN"
}
