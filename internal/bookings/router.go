package bookings

import (
	"github.com/gin-gonic/gin"

	"seatify/internal/shared/config"
	"seatify/internal/shared/middleware"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuth(cfg), middleware.RequireRoles("USER", "ADMIN"))
	{
		bookings.POST("", controller.CreateBooking)            // POST /api/v1/bookings
		bookings.GET("/:id", controller.GetBooking)            // GET /api/v1/bookings/:id
		bookings.POST("/:id/cancel", controller.CancelBooking) // POST /api/v1/bookings/:id/cancel
	}

	users := rg.Group("/users")
	users.Use(middleware.JWTAuth(cfg), middleware.RequireRoles("USER", "ADMIN"))
	{
		users.GET("/bookings", controller.GetUserBookings)                 // GET /api/v1/users/bookings
		users.GET("/attendance-stats", controller.GetUserAttendanceStats) // GET /api/v1/users/attendance-stats
	}
}
