package catalog

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"slotplanner/internal/pkg/response"
	"slotplanner/internal/schedule"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/slot-types", h.List)
	rg.PUT("/slot-types", h.Update)
}

func (h *Handler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"slot_types": h.service.List()})
}

// Update accepts the raw text-area format, one "name, minutes, weight" per
// line, as the request body.
func (h *Handler) Update(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cannot read request body")
		return
	}

	types, warnings, err := h.service.Update(string(body))
	if err != nil {
		if errors.Is(err, schedule.ErrPersistence) {
			response.ErrorWithDetails(c, http.StatusInternalServerError, "PERSISTENCE_FAILURE",
				"Slot types updated in memory but could not be saved", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update slot types")
		return
	}

	response.Success(c, http.StatusOK, UpdateSlotTypesResponse{SlotTypes: types, Warnings: warnings})
}
