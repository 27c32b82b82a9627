package autofill

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"slotplanner/internal/pkg/response"
	"slotplanner/internal/schedule"
	"slotplanner/internal/timeutil"
)

type FillRequest struct {
	Day           string `json:"day" binding:"required"`
	MaxIterations int    `json:"max_iterations"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/autofill", h.Fill)
}

func (h *Handler) Fill(c *gin.Context) {
	var req FillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	created, err := h.service.Fill(req.Day, req.MaxIterations)
	if err != nil {
		switch {
		case errors.Is(err, timeutil.ErrInvalidFormat):
			response.Error(c, http.StatusBadRequest, "INVALID_FORMAT", err.Error())
		case errors.Is(err, schedule.ErrPersistence):
			// The placements are committed in memory; report them with the
			// save failure attached.
			response.SuccessWithWarning(c, http.StatusOK, gin.H{"created": created},
				"PERSISTENCE_FAILURE", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Auto-fill failed")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"created": created})
}
