package bookings

import (
	"quickride/internal/shared/config"
	"quickride/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles booking and payment callback routes
type Router struct {
	controller *Controller
	config     *config.Config
}

// NewRouter creates a new bookings router
func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers booking routes and the payment gateway callbacks
func (bookingRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	protected := rg.Group("/bookings")
	protected.Use(middleware.JWTAuthWithConfig(bookingRouter.config))
	{
		protected.POST("", bookingRouter.controller.CreateBooking)
		protected.GET("", bookingRouter.controller.GetMyBookings)
		protected.GET("/:id", bookingRouter.controller.GetBooking)
	}

	admin := rg.Group("/admin/bookings")
	admin.Use(middleware.JWTAuthWithConfig(bookingRouter.config), middleware.RequireAdmin())
	{
		admin.GET("", bookingRouter.controller.ListAllBookings)
	}

	// Gateway callbacks carry the payment reference, not a session
	payments := rg.Group("/payments")
	{
		payments.POST("/callback/success", bookingRouter.controller.PaymentSuccess)
		payments.POST("/callback/cancel", bookingRouter.controller.PaymentCancel)
	}
}
