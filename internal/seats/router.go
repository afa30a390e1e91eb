package seats

import (
	"github.com/gin-gonic/gin"
)

// SetupSeatRoutes configures seat browsing routes under the events group.
func SetupSeatRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.GET("/events/:id/seats", controller.GetEventSeats) // GET /api/v1/events/:id/seats
}
