package booking

import (
	"time"

	"slotplanner/internal/domain"
)

// Notifier pushes schedule changes to interested listeners (the websocket
// feed). A nil Notifier is allowed and means no notifications.
type Notifier interface {
	BookingCreated(b domain.Booking)
	BookingRemoved(crew, day string, start time.Time, count int)
}
