package events

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seatify/internal/shared/apperrors"
	"seatify/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetEvent handles GET /api/v1/events/:id
func (c *Controller) GetEvent(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, apperrors.NotFound("event not found"))
		return
	}

	event, err := c.service.GetEvent(ctx.Request.Context(), uint(id))
	if err != nil {
		response.Error(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Event retrieved successfully", event)
}

// ListEvents handles GET /api/v1/events
func (c *Controller) ListEvents(ctx *gin.Context) {
	var query EventListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.BadRequest(ctx, "Invalid query parameters", err.Error())
		return
	}

	events, total, err := c.service.ListEvents(ctx.Request.Context(), query)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Events retrieved successfully", gin.H{
		"events":      events,
		"total_count": total,
	})
}
