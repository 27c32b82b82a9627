package booking

import (
	"time"

	"slotplanner/internal/domain"
)

type CreateBookingRequest struct {
	Crew        string `json:"crew" binding:"required"`
	Day         string `json:"day" binding:"required"`
	Start       string `json:"start" binding:"required"`
	SlotType    string `json:"slot_type"`
	DurationMin int    `json:"duration_min"`
	Client      string `json:"client"`

	// Label tags auto-fill placements with their preferred range; manual
	// bookings leave it empty.
	Label string `json:"label,omitempty"`
}

type RemoveBookingRequest struct {
	Crew  string `json:"crew" binding:"required"`
	Day   string `json:"day" binding:"required"`
	Start string `json:"start" binding:"required"`
}

// Candidate is a provisional free start time for one crew, not yet
// committed.
type Candidate struct {
	Crew  string    `json:"crew"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type ScheduleResponse struct {
	From     string           `json:"from"`
	Days     int              `json:"days"`
	Bookings []domain.Booking `json:"bookings"`
}
