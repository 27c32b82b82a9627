package crew

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"slotplanner/internal/pkg/response"
	"slotplanner/internal/schedule"
	"slotplanner/internal/timeutil"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/crews", h.List)
	rg.POST("/crews", h.Create)
	rg.PUT("/crews/:name/hours", h.SetHours)
	rg.PUT("/crews/:name/rename", h.Rename)
	rg.DELETE("/crews/:name", h.Remove)
}

func (h *Handler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"crews": h.service.List()})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	crew, err := h.service.Ensure(req.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"crew": crew})
}

func (h *Handler) SetHours(c *gin.Context) {
	var req UpdateHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	crew, err := h.service.SetHours(c.Param("name"), req.WorkStart, req.WorkEnd)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"crew": crew})
}

func (h *Handler) Rename(c *gin.Context) {
	var req RenameCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	crew, err := h.service.Rename(c.Param("name"), req.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"crew": crew})
}

func (h *Handler) Remove(c *gin.Context) {
	if err := h.service.Remove(c.Param("name")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, timeutil.ErrInvalidFormat):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, schedule.ErrCrewNotFound):
		response.Error(c, http.StatusNotFound, "CREW_NOT_FOUND", "Crew does not exist")
	case errors.Is(err, schedule.ErrCrewExists):
		response.Error(c, http.StatusConflict, "CREW_EXISTS", "A crew with that name already exists")
	case errors.Is(err, schedule.ErrCrewHasBookings):
		response.Error(c, http.StatusConflict, "CREW_HAS_BOOKINGS", "Crew still has bookings; remove them first")
	case errors.Is(err, schedule.ErrPersistence):
		response.ErrorWithDetails(c, http.StatusInternalServerError, "PERSISTENCE_FAILURE",
			"Change applied in memory but could not be saved", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
