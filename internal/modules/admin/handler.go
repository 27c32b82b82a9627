package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"slotplanner/internal/pkg/response"
	"slotplanner/internal/schedule"
)

// Handler hosts the maintenance surface: resetting the stored state back to
// defaults, the API equivalent of the original's "delete the JSON" button.
type Handler struct {
	store *schedule.Store
}

func NewHandler(store *schedule.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.DELETE("/state", h.Reset)
}

func (h *Handler) Reset(c *gin.Context) {
	if err := h.store.Reset(); err != nil {
		if errors.Is(err, schedule.ErrPersistence) {
			response.ErrorWithDetails(c, http.StatusInternalServerError, "PERSISTENCE_FAILURE",
				"State reset in memory but could not be saved", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to reset state")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reset": true})
}
