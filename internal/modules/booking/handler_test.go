package booking

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"slotplanner/internal/domain"
	"slotplanner/internal/schedule"
)

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBookingHandler_PersistenceWarning(t *testing.T) {
	gin.SetMode(gin.TestMode)

	persister := new(MockPersister)
	persister.On("Load").Return(singleCrewState("A", "08:00", "16:00"), true, nil)
	persister.On("Save", mock.Anything).Return(assert.AnError)

	store, err := schedule.NewStore(persister)
	require.NoError(t, err)

	r := gin.New()
	NewHandler(NewService(store, nil, Config{})).RegisterRoutes(r.Group("/api/v1"))

	w := postJSON(t, r, "/api/v1/bookings", CreateBookingRequest{
		Crew: "A", Day: "2026-03-02", Start: "2026-03-02T08:00:00Z", SlotType: "Standard",
	})

	// the booking is committed in memory, so the reply is a 201 that carries
	// both the booking and the save failure
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Booking domain.Booking `json:"booking"`
		} `json:"data"`
		Warning struct {
			Code string `json:"code"`
		} `json:"warning"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, "PERSISTENCE_FAILURE", resp.Warning.Code)
	assert.Equal(t, "Klient 1", resp.Data.Booking.Client)
	assert.Len(t, store.BookingsFor("A", "2026-03-02"), 1)
}

func TestCreateBookingHandler_UnknownCrewIs404(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc, _, _ := newTestService(t, singleCrewState("A", "08:00", "16:00"), Config{})
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))

	w := postJSON(t, r, "/api/v1/bookings", CreateBookingRequest{
		Crew: "Ghost", Day: "2026-03-02", Start: "2026-03-02T08:00:00Z", SlotType: "Standard",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "CREW_NOT_FOUND", resp.Error.Code)
}
