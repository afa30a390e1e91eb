// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"seatify/internal/assets"
	"seatify/internal/attendance"
	"seatify/internal/bookings"
	"seatify/internal/events"
	"seatify/internal/seats"
	"seatify/internal/shared/config"
	"seatify/internal/shared/database"
	"seatify/internal/users"
	"seatify/pkg/cache"
	"seatify/pkg/logger"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	log      *logger.Logger
	notifier bookings.Notifier
}

// NewRouter creates a new router instance. The notifier may be nil when
// the notification pipeline is disabled.
func NewRouter(cfg *config.Config, db *database.DB, log *logger.Logger, notifier bookings.Notifier) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		log:      log,
		notifier: notifier,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupEventRoutes(api)
		r.setupSeatRoutes(api)
		r.setupBookingRoutes(api)
		r.setupAttendanceRoutes(api)
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
				"service":   "seatify-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "seatify-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupEventRoutes configures event browsing routes
func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	cacheService := cache.NewService(r.db.GetRedisClient())
	eventService := events.NewService(eventRepo, cacheService)
	eventController := events.NewController(eventService)

	events.SetupEventRoutes(rg, eventController)
}

// setupSeatRoutes configures seat map routes
func (r *Router) setupSeatRoutes(rg *gin.RouterGroup) {
	seatRepo := seats.NewRepository(r.db.GetPostgreSQL())
	seatController := seats.NewController(seatRepo)

	seats.SetupSeatRoutes(rg, seatController)
}

// setupBookingRoutes configures booking routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	seatRepo := seats.NewRepository(r.db.GetPostgreSQL())
	directory := users.NewDirectory(r.db.GetPostgreSQL())

	bookingService := bookings.NewService(bookings.Config{
		Repo:      bookingRepo,
		EventRepo: eventRepo,
		SeatRepo:  seatRepo,
		Directory: directory,
		Uploader:  r.buildUploader(),
		Notifier:  r.notifier,
		BaseURL:   r.config.BaseURL,
		Logger:    r.log,
	})
	bookingController := bookings.NewController(bookingService)

	bookings.SetupBookingRoutes(rg, bookingController, r.config)
}

// setupAttendanceRoutes configures scan routes
func (r *Router) setupAttendanceRoutes(rg *gin.RouterGroup) {
	attendanceRepo := attendance.NewRepository(r.db.GetPostgreSQL())
	attendanceService := attendance.NewService(attendanceRepo, r.log, nil)
	attendanceController := attendance.NewController(attendanceService)

	attendance.SetupAttendanceRoutes(rg, attendanceController, r.config)
}

func (r *Router) buildUploader() assets.Uploader {
	if r.config.Assets.UploadEndpoint == "" {
		return nil
	}
	return assets.NewHTTPUploader(&assets.HTTPUploaderConfig{
		Endpoint: r.config.Assets.UploadEndpoint,
		APIKey:   r.config.Assets.APIKey,
		Timeout:  r.config.Assets.UploadTimeout,
	})
}
