package feed

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotplanner/internal/domain"
)

func dialTestFeed(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(hub).RegisterRoutes(r.Group("/api/v1"))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		return hub.SubscriberCount() == 1
	}, time.Second, 10*time.Millisecond)
	return conn
}

func TestBroadcast_ConcurrentWritersOneConnection(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	conn := dialTestFeed(t, hub)

	// many request goroutines broadcasting to the same subscriber at once;
	// writes must be serialized per connection
	const events = 64
	var wg sync.WaitGroup
	for i := 0; i < events; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.BookingCreated(domain.Booking{
				ID: "b", Crew: "Brygada A", Day: "2026-03-02",
			})
		}()
	}
	wg.Wait()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for i := 0; i < events; i++ {
		var ev Event
		require.NoError(t, conn.ReadJSON(&ev))
		assert.Equal(t, "booking_created", ev.Type)
		assert.Equal(t, "Brygada A", ev.Crew)
	}
}

func TestBroadcast_BookingRemovedEvent(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	conn := dialTestFeed(t, hub)

	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	hub.BookingRemoved("Brygada A", "2026-03-02", start, 1)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "booking_removed", ev.Type)
	assert.Equal(t, 1, ev.Removed)
	require.NotNil(t, ev.Start)
	assert.True(t, ev.Start.Equal(start))
}

func TestUnregister_DropsSubscriber(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	_ = dialTestFeed(t, hub)
	require.Equal(t, 1, hub.SubscriberCount())

	hub.Close()
	assert.Zero(t, hub.SubscriberCount())
}
