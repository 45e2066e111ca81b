package handler

import (
	"github.com/bazarpos/ventas-api/internal/application/service"
	"github.com/bazarpos/ventas-api/internal/domain/enum"
	"github.com/bazarpos/ventas-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// DayHandler handles day gate HTTP requests
type DayHandler struct {
	dayService *service.DayService
}

// NewDayHandler creates a new day handler
func NewDayHandler(dayService *service.DayService) *DayHandler {
	return &DayHandler{dayService: dayService}
}

// Current handles reading today's day state. A date without a record
// reports as closed.
func (h *DayHandler) Current(c *gin.Context) {
	record, err := h.dayService.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	if record == nil {
		response.OK(c, "Day state retrieved successfully", gin.H{
			"state":  enum.DayStateClosed,
			"opened": false,
		})
		return
	}

	response.OK(c, "Day state retrieved successfully", gin.H{
		"state":  record.State,
		"opened": true,
		"record": record,
	})
}

// Toggle handles flipping today's day state
func (h *DayHandler) Toggle(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	record, err := h.dayService.Toggle(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Day is now "+record.State.String(), record)
}
