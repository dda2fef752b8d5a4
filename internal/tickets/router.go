package tickets

import (
	"quickride/internal/shared/config"
	"quickride/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles ticket routes
type Router struct {
	controller *Controller
	config     *config.Config
}

// NewRouter creates a new tickets router
func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers ticket routes, all authenticated
func (ticketRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	protected := rg.Group("/tickets")
	protected.Use(middleware.JWTAuthWithConfig(ticketRouter.config))
	{
		protected.GET("", ticketRouter.controller.GetMyTickets)
		protected.GET("/:id", ticketRouter.controller.GetTicket)
		protected.POST("/:id/cancel", ticketRouter.controller.CancelTicket)
		protected.GET("/booking/:bookingId", ticketRouter.controller.GetBookingTickets)
	}
}
