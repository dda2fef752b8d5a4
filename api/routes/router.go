// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"quickride/internal/auth"
	"quickride/internal/availability"
	"quickride/internal/bookings"
	"quickride/internal/catalog"
	"quickride/internal/payments"
	"quickride/internal/shared/config"
	"quickride/internal/shared/database"
	"quickride/internal/tickets"
	"quickride/pkg/cache"
	"quickride/pkg/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	provider  payments.Provider
	logger    *logger.Logger
	publisher bookings.EventPublisher

	// Cross-service wiring built during setup
	catalogService catalog.Service
	bookingService bookings.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, provider payments.Provider,
	log *logger.Logger, publisher bookings.EventPublisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		provider:  provider,
		logger:    log,
		publisher: publisher,
	}
}

// BookingService exposes the booking service for background jobs
func (r *Router) BookingService() bookings.Service {
	return r.bookingService
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API docs
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Auth first, then catalog (bookings and availability depend on it)
		r.setupAuthRoutes(api)
		r.setupCatalogRoutes(api)
		r.setupBookingRoutes(api)
		r.setupAvailabilityRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "quickride-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "quickride-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController, r.config)

	authRouter.SetupRoutes(rg)
}

// setupCatalogRoutes configures city, route and bus management routes
func (r *Router) setupCatalogRoutes(rg *gin.RouterGroup) {
	catalogRepo := catalog.NewRepository(r.db.GetPostgreSQL())
	catalogService := catalog.NewService(catalogRepo, r.config.Redis.CatalogCacheTTL)

	// Redis-backed caching is optional
	if redisClient := r.db.GetRedisClient(); redisClient != nil {
		catalogService.SetCacheService(cache.NewService(redisClient))
	}

	// Store catalog service for dependency injection
	r.catalogService = catalogService

	catalogController := catalog.NewController(catalogService)
	catalogRouter := catalog.NewRouter(catalogController, r.config)

	catalogRouter.SetupRoutes(rg)
}

// setupBookingRoutes configures booking, payment callback and ticket routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(bookingRepo, r.catalogService, r.provider, r.config, r.logger)

	ticketRepo := tickets.NewRepository(r.db.GetPostgreSQL())
	ticketService := tickets.NewService(ticketRepo, bookingRepo, r.catalogService, r.provider, r.config, r.logger)

	// Ticket issuance runs inside payment confirmation
	bookingService.SetTicketIssuer(ticketService)

	if r.publisher != nil {
		bookingService.SetEventPublisher(r.publisher)
		ticketService.SetEventPublisher(r.publisher)
	}

	// Store booking service for availability wiring and background jobs
	r.bookingService = bookingService

	bookingController := bookings.NewController(bookingService)
	bookingRouter := bookings.NewRouter(bookingController, r.config)
	bookingRouter.SetupRoutes(rg)

	ticketController := tickets.NewController(ticketService)
	ticketRouter := tickets.NewRouter(ticketController, r.config)
	ticketRouter.SetupRoutes(rg)
}

// setupAvailabilityRoutes configures seat availability search routes
func (r *Router) setupAvailabilityRoutes(rg *gin.RouterGroup) {
	availabilityService := availability.NewService(r.catalogService, r.bookingService)
	availabilityController := availability.NewController(availabilityService)
	availabilityRouter := availability.NewRouter(availabilityController)

	availabilityRouter.SetupRoutes(rg)
}
