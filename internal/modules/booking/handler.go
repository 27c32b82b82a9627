package booking

import (
	"errors"
	"net/http"
	"strconv"

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
	rg.GET("/availability", h.Availability)
	rg.POST("/bookings", h.CreateBooking)
	rg.DELETE("/bookings", h.RemoveBooking)
	rg.GET("/schedule", h.Schedule)
}

func (h *Handler) Availability(c *gin.Context) {
	day := c.Query("day")
	if day == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "day query parameter is required")
		return
	}

	durationMin := intQuery(c, "duration_min", 0)
	stepMin := intQuery(c, "step_min", 0)

	candidates, err := h.service.FindFreeSlots(day, c.Query("slot_type"), durationMin, stepMin)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"day":        day,
		"candidates": candidates,
	})
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(req)
	if err != nil {
		// A persistence failure still carries the committed booking: report
		// 201 with a warning, the in-memory state already has it.
		if b != nil && errors.Is(err, schedule.ErrPersistence) {
			response.SuccessWithWarning(c, http.StatusCreated, gin.H{"booking": b},
				"PERSISTENCE_FAILURE", err.Error())
			return
		}
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) RemoveBooking(c *gin.Context) {
	var req RemoveBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	removed, err := h.service.RemoveBooking(req)
	if err != nil && !errors.Is(err, schedule.ErrPersistence) {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": removed})
}

func (h *Handler) Schedule(c *gin.Context) {
	day := c.Query("day")
	if day == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "day query parameter is required")
		return
	}
	days := intQuery(c, "days", 1)

	bookings, err := h.service.Schedule(c.Query("crew"), day, days)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ScheduleResponse{From: day, Days: days, Bookings: bookings})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, timeutil.ErrInvalidFormat):
		response.Error(c, http.StatusBadRequest, "INVALID_FORMAT", err.Error())
	case errors.Is(err, ErrInvalidDuration), errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrUnknownSlotType):
		response.Error(c, http.StatusNotFound, "UNKNOWN_SLOT_TYPE", err.Error())
	case errors.Is(err, schedule.ErrCrewNotFound):
		response.Error(c, http.StatusNotFound, "CREW_NOT_FOUND", "Crew does not exist")
	case errors.Is(err, ErrNotAvailable):
		response.Error(c, http.StatusConflict, "SLOT_NO_LONGER_AVAILABLE",
			"The slot was taken in the meantime; re-query availability and retry")
	case errors.Is(err, schedule.ErrPersistence):
		response.ErrorWithDetails(c, http.StatusInternalServerError, "PERSISTENCE_FAILURE",
			"State could not be saved", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
