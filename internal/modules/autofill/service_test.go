package autofill

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotplanner/internal/domain"
	"slotplanner/internal/modules/booking"
	"slotplanner/internal/modules/catalog"
	"slotplanner/internal/schedule"
)

type memPersister struct {
	state *domain.State
	saves int
}

func (m *memPersister) Load() (*domain.State, bool, error) {
	if m.state == nil {
		return nil, false, nil
	}
	return m.state, true, nil
}

func (m *memPersister) Save(s *domain.State) error {
	m.saves++
	m.state = s
	return nil
}

func newFixture(t *testing.T, catalogue string) (*Service, *schedule.Store, *memPersister) {
	t.Helper()

	p := &memPersister{}
	store, err := schedule.NewStore(p)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	catalogService := catalog.NewService(store, rng)
	if catalogue != "" {
		_, _, err := catalogService.Update(catalogue)
		require.NoError(t, err)
	}
	p.saves = 0

	bookingService := booking.NewService(store, nil, booking.Config{StepMinutes: 15})
	svc := NewService(store, bookingService, catalogService, rng, 15, 0)
	return svc, store, p
}

func TestFill_PlacesValidBookings(t *testing.T) {
	svc, store, p := newFixture(t, "Standard, 60, 1.0\nExpress, 30, 2.0")
	day := "2026-03-02"

	created, err := svc.Fill(day, 0)
	require.NoError(t, err)
	require.Positive(t, created)

	total := 0
	labels := map[string]bool{}
	for _, l := range Labels() {
		labels[l] = true
	}

	for _, crew := range store.Crews() {
		bookings := store.BookingsFor(crew, day)
		total += len(bookings)

		for i, b := range bookings {
			// inside the crew's working window
			winMin := store.BookedMinutes(crew, day)
			assert.LessOrEqual(t, winMin, 480, "crew %s overbooked", crew)

			assert.True(t, labels[b.Label], "unknown band label %q", b.Label)
			assert.Contains(t, []string{"Standard", "Express"}, b.SlotType)

			// sorted, no overlaps
			if i > 0 {
				prev := bookings[i-1]
				assert.False(t, b.Start.Before(prev.End), "overlap within crew %s", crew)
			}
		}
	}
	assert.Equal(t, created, total)

	// one deferred save for the whole run
	assert.Equal(t, 1, p.saves)
}

func TestFill_EmptyCatalogueAddsNothing(t *testing.T) {
	svc, store, p := newFixture(t, "")
	store.SetSlotTypes(nil)

	created, err := svc.Fill("2026-03-02", 0)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Zero(t, p.saves)
}

func TestFill_InvalidDay(t *testing.T) {
	svc, _, _ := newFixture(t, "Standard, 60, 1.0")

	_, err := svc.Fill("tomorrow", 0)
	assert.Error(t, err)
}

func TestFill_SingleIterationBoundsPlacements(t *testing.T) {
	svc, store, _ := newFixture(t, "Express, 30, 1.0")
	day := "2026-03-02"

	created, err := svc.Fill(day, 1)
	require.NoError(t, err)

	// one round means at most one placement per crew
	assert.LessOrEqual(t, created, len(store.Crews()))
}

func TestFill_SkipsNothingToSave(t *testing.T) {
	svc, store, p := newFixture(t, "Marathon, 600, 1.0")
	day := "2026-03-02"

	// a 10h slot never fits an 8h window; nothing is created, nothing saved
	created, err := svc.Fill(day, 0)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Zero(t, p.saves)
	for _, crew := range store.Crews() {
		assert.Empty(t, store.BookingsFor(crew, day))
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, []string{"morning", "midday", "afternoon", "evening"}, Labels())
}
