package attendance

import (
	"github.com/gin-gonic/gin"

	"seatify/internal/shared/config"
	"seatify/internal/shared/middleware"
)

// SetupAttendanceRoutes registers the scan endpoints. The JSON scan routes
// are operated by event staff; auto-checkin stays public because the QR
// image embeds it for attendees' phone browsers.
func SetupAttendanceRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	attendance := rg.Group("/attendance")

	attendance.GET("/auto-checkin", controller.AutoCheckIn)

	staff := attendance.Group("")
	staff.Use(middleware.JWTAuth(cfg))
	staff.Use(middleware.RequireRoles("ADMIN"))
	{
		staff.POST("/check-in", controller.CheckIn)
		staff.POST("/checkout", controller.Checkout)
	}

	logs := attendance.Group("")
	logs.Use(middleware.JWTAuth(cfg))
	logs.Use(middleware.RequireRoles("USER", "ADMIN"))
	{
		logs.GET("/bookings/:id/log", controller.GetBookingLog)
	}
}
