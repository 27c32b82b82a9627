package crew

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotplanner/internal/domain"
	"slotplanner/internal/schedule"
	"slotplanner/internal/timeutil"
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

func newTestService(t *testing.T) (*Service, *schedule.Store, *memPersister) {
	t.Helper()
	p := &memPersister{}
	store, err := schedule.NewStore(p)
	require.NoError(t, err)
	return NewService(store), store, p
}

func TestList_DefaultCrews(t *testing.T) {
	svc, _, _ := newTestService(t)

	crews := svc.List()
	require.Len(t, crews, 2)
	assert.Equal(t, "Brygada A", crews[0].Name)
	assert.Equal(t, "08:00", crews[0].WorkStart)
	assert.Equal(t, "16:00", crews[0].WorkEnd)
	assert.False(t, crews[0].Overnight)
}

func TestEnsure(t *testing.T) {
	svc, _, p := newTestService(t)

	resp, err := svc.Ensure("  Brygada C  ")
	require.NoError(t, err)
	assert.Equal(t, "Brygada C", resp.Name)
	assert.Equal(t, domain.DefaultWorkStart, resp.WorkStart)
	assert.Equal(t, 1, p.saves)

	// registering again is a no-op, not a failure
	_, err = svc.Ensure("Brygada C")
	require.NoError(t, err)
	assert.Len(t, svc.List(), 3)

	_, err = svc.Ensure("   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSetHours(t *testing.T) {
	svc, _, _ := newTestService(t)

	resp, err := svc.SetHours("Brygada A", "22:00", "06:00")
	require.NoError(t, err)
	assert.True(t, resp.Overnight)

	_, err = svc.SetHours("Brygada A", "25:00", "06:00")
	assert.ErrorIs(t, err, timeutil.ErrInvalidFormat)

	_, err = svc.SetHours("Brygada X", "08:00", "16:00")
	assert.ErrorIs(t, err, schedule.ErrCrewNotFound)
}

func TestRenameAndRemove_BookingGuards(t *testing.T) {
	svc, store, _ := newTestService(t)
	day := "2026-03-02"
	start, _ := time.Parse(time.RFC3339, "2026-03-02T08:00:00Z")

	_, err := store.Commit(domain.Booking{
		ID: "x", Crew: "Brygada A", Day: day,
		Start: start, End: start.Add(time.Hour),
		SlotType: "Standard", DurationMin: 60, Client: "test",
	})
	require.NoError(t, err)

	_, err = svc.Rename("Brygada A", "Brygada Z")
	assert.ErrorIs(t, err, schedule.ErrCrewHasBookings)
	assert.ErrorIs(t, svc.Remove("Brygada A"), schedule.ErrCrewHasBookings)

	_, err = svc.Rename("Brygada B", "  ")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Rename("Brygada B", "Brygada A")
	assert.ErrorIs(t, err, schedule.ErrCrewExists)

	resp, err := svc.Rename("Brygada B", "Brygada Nocna")
	require.NoError(t, err)
	assert.Equal(t, "Brygada Nocna", resp.Name)

	require.NoError(t, svc.Remove("Brygada Nocna"))
	assert.Len(t, svc.List(), 1)
}
