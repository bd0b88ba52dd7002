package app

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"rideshare/internal/handler"
	"rideshare/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	DriverHandler    *handler.DriverHandler
	PassengerHandler *handler.PassengerHandler
	TripHandler      *handler.TripHandler
	ResponseCache    middleware.ResponseCache // Optional; nil disables idempotency keys
	NewRelicApp      *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Idempotency-Key"},
	}))

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.ResponseCache))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		drivers := v1.Group("/drivers")
		{
			drivers.GET("", deps.DriverHandler.GetAll)
			drivers.GET("/:id", deps.DriverHandler.GetDriver)
			drivers.PUT("/:id/status", deps.DriverHandler.UpdateStatus)
		}

		passengers := v1.Group("/passengers")
		{
			passengers.GET("", deps.PassengerHandler.GetAll)
			passengers.GET("/:id", deps.PassengerHandler.GetPassenger)
		}

		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.RequestTrip)
			trips.GET("", deps.TripHandler.GetAll)
			trips.GET("/:id", deps.TripHandler.GetTrip)
		}
	}

	return router
}
