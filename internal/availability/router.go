package availability

import (
	"github.com/gin-gonic/gin"
)

// Router handles availability search routes
type Router struct {
	controller *Controller
}

// NewRouter creates a new availability router
func NewRouter(controller *Controller) *Router {
	return &Router{controller: controller}
}

// SetupRoutes registers the public search routes
func (availRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	avail := rg.Group("/availability")
	{
		avail.GET("", availRouter.controller.SearchAvailability)
		avail.GET("/slots", availRouter.controller.GetTimeSlots)
	}
}
