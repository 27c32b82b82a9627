package feed

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"slotplanner/internal/domain"
)

// Event is one schedule change pushed to every connected listener.
type Event struct {
	Type    string          `json:"type"` // booking_created | booking_removed
	Crew    string          `json:"crew"`
	Day     string          `json:"day"`
	Booking *domain.Booking `json:"booking,omitempty"`
	Start   *time.Time      `json:"start,omitempty"`
	Removed int             `json:"removed,omitempty"`
}

// subscriber wraps one connection with its own write lock. gorilla/websocket
// allows at most one concurrent writer per connection, and broadcasts arrive
// from whichever request goroutine committed the change.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) write(event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(event)
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.Close()
}

// Hub fans schedule events out to websocket subscribers. It satisfies
// booking.Notifier.
type Hub struct {
	subscribers map[string]*subscriber
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]*subscriber),
	}
}

func (h *Hub) Register(id string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.subscribers[id]; exists {
		old.close()
	}
	h.subscribers[id] = &subscriber{conn: conn}
}

func (h *Hub) Unregister(id string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if sub, exists := h.subscribers[id]; exists {
		sub.close()
		delete(h.subscribers, id)
	}
}

func (h *Hub) SubscriberCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.subscribers)
}

func (h *Hub) broadcast(event Event) {
	h.mutex.RLock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mutex.RUnlock()

	for id, sub := range subs {
		if err := sub.write(event); err != nil {
			h.Unregister(id)
		}
	}
}

// BookingCreated implements booking.Notifier.
func (h *Hub) BookingCreated(b domain.Booking) {
	h.broadcast(Event{Type: "booking_created", Crew: b.Crew, Day: b.Day, Booking: &b})
}

// BookingRemoved implements booking.Notifier.
func (h *Hub) BookingRemoved(crew, day string, start time.Time, count int) {
	h.broadcast(Event{Type: "booking_removed", Crew: crew, Day: day, Start: &start, Removed: count})
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, sub := range h.subscribers {
		sub.close()
		delete(h.subscribers, id)
	}
}
