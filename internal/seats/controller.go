package seats

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seatify/internal/shared/apperrors"
	"seatify/internal/shared/utils/response"
)

type Controller struct {
	repo Repository
}

func NewController(repo Repository) *Controller {
	return &Controller{repo: repo}
}

// GetEventSeats handles GET /api/v1/events/:id/seats
func (c *Controller) GetEventSeats(ctx *gin.Context) {
	eventID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, apperrors.NotFound("event not found"))
		return
	}

	seats, err := c.repo.GetSeatsByEventID(ctx.Request.Context(), uint(eventID))
	if err != nil {
		response.Error(ctx, err)
		return
	}

	available := 0
	responses := make([]SeatResponse, 0, len(seats))
	for i := range seats {
		if seats[i].IsAvailable {
			available++
		}
		responses = append(responses, seats[i].ToResponse())
	}

	response.Success(ctx, http.StatusOK, "Seats retrieved successfully", gin.H{
		"seats":           responses,
		"total_seats":     len(responses),
		"available_seats": available,
	})
}
