package domain

import "time"

// ArrivalWindow is the interval in which the crew is expected to arrive,
// clipped to the crew's working hours for the day.
type ArrivalWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Booking struct {
	ID          string         `json:"id"`
	Crew        string         `json:"crew"`
	Day         string         `json:"day"` // YYYY-MM-DD, the day the slot was placed in
	Start       time.Time      `json:"start"`
	End         time.Time      `json:"end"`
	SlotType    string         `json:"slot_type"`
	DurationMin int            `json:"duration_min"`
	Client      string         `json:"client"`
	Arrival     *ArrivalWindow `json:"arrival_window,omitempty"`

	// Label is the preferred-range tag set by the auto-fill planner
	// (morning/midday/afternoon/evening); empty for manual bookings.
	Label string `json:"label,omitempty"`
}

// Overlaps reports whether the booking's [start, end) interval intersects
// the given one. Touching endpoints do not count as overlap.
func (b Booking) Overlaps(start, end time.Time) bool {
	return start.Before(b.End) && b.Start.Before(end)
}
