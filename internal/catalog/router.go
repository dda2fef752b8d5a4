package catalog

import (
	"quickride/internal/shared/config"
	"quickride/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles catalog routes
type Router struct {
	controller *Controller
	config     *config.Config
}

// NewRouter creates a new catalog router
func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers public browse routes and admin management routes
func (catalogRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	// Public routes - anyone can browse the catalog
	rg.GET("/cities", catalogRouter.controller.ListCities)
	rg.GET("/routes", catalogRouter.controller.ListRoutes)

	buses := rg.Group("/buses")
	{
		buses.GET("", catalogRouter.controller.ListBuses)
		buses.GET("/:id", catalogRouter.controller.GetBus)
	}

	// Admin routes - catalog management
	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuthWithConfig(catalogRouter.config), middleware.RequireAdmin())
	{
		admin.POST("/cities", catalogRouter.controller.CreateCity)
		admin.DELETE("/cities/:code", catalogRouter.controller.DeleteCity)

		admin.POST("/routes", catalogRouter.controller.CreateRoute)
		admin.PUT("/routes/:id", catalogRouter.controller.UpdateRoute)
		admin.DELETE("/routes/:id", catalogRouter.controller.DeleteRoute)

		admin.POST("/buses", catalogRouter.controller.CreateBus)
		admin.PUT("/buses/:id", catalogRouter.controller.UpdateBus)
		admin.DELETE("/buses/:id", catalogRouter.controller.DeleteBus)

		admin.GET("/prices", catalogRouter.controller.ListPrices)
		admin.PUT("/prices", catalogRouter.controller.SetPrice)
		admin.DELETE("/prices", catalogRouter.controller.DeletePrice)
	}
}
