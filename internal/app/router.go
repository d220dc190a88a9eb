package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"rideshare/internal/handler"
	"rideshare/internal/metrics"
	"rideshare/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	HomeHandler      *handler.HomeHandler
	DriverHandler    *handler.DriverHandler
	PassengerHandler *handler.PassengerHandler
	TripHandler      *handler.TripHandler

	// Optional.
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
	AllowedOrigins []string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())
	router.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient, deps.Logger))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/", deps.HomeHandler.Index)

	drivers := router.Group("/drivers")
	{
		drivers.GET("", deps.DriverHandler.Index)
		drivers.GET("/new", deps.DriverHandler.New)
		drivers.POST("", deps.DriverHandler.Create)
		drivers.GET("/:id", deps.DriverHandler.Show)
		drivers.GET("/:id/edit", deps.DriverHandler.Edit)
		drivers.PATCH("/:id", deps.DriverHandler.Update)
		drivers.PUT("/:id", deps.DriverHandler.Update)
		drivers.DELETE("/:id", deps.DriverHandler.Destroy)
	}

	passengers := router.Group("/passengers")
	{
		passengers.GET("", deps.PassengerHandler.Index)
		passengers.GET("/new", deps.PassengerHandler.New)
		passengers.POST("", deps.PassengerHandler.Create)
		passengers.GET("/:id", deps.PassengerHandler.Show)
		passengers.GET("/:id/edit", deps.PassengerHandler.Edit)
		passengers.PATCH("/:id", deps.PassengerHandler.Update)
		passengers.PUT("/:id", deps.PassengerHandler.Update)
		passengers.DELETE("/:id", deps.PassengerHandler.Destroy)

		// Trips are booked through their passenger.
		passengers.POST("/:id/trips", deps.TripHandler.Create)
	}

	trips := router.Group("/trips")
	{
		trips.GET("/:id", deps.TripHandler.Show)
		trips.GET("/:id/edit", deps.TripHandler.Edit)
		trips.PATCH("/:id", deps.TripHandler.Update)
		trips.PUT("/:id", deps.TripHandler.Update)
		trips.DELETE("/:id", deps.TripHandler.Destroy)
		trips.POST("/:id/complete", deps.TripHandler.Complete)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Idempotency-Key", "X-Request-ID"},
		ExposeHeaders: []string{"Location", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
