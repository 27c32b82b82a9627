package stats

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"slotplanner/internal/pkg/response"
	"slotplanner/internal/timeutil"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.ForDay)
}

func (h *Handler) ForDay(c *gin.Context) {
	day := c.Query("day")
	if day == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "day query parameter is required")
		return
	}

	stats, err := h.service.ForDay(day)
	if err != nil {
		if errors.Is(err, timeutil.ErrInvalidFormat) {
			response.Error(c, http.StatusBadRequest, "INVALID_FORMAT", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute stats")
		return
	}

	response.Success(c, http.StatusOK, stats)
}
