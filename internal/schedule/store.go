package schedule

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"slotplanner/internal/domain"
	"slotplanner/internal/timeutil"
)

var (
	// ErrOverlap means the requested interval collides with a committed
	// booking for the same crew and day.
	ErrOverlap = errors.New("interval overlaps an existing booking")

	ErrCrewNotFound    = errors.New("crew not found")
	ErrCrewExists      = errors.New("crew already exists")
	ErrCrewHasBookings = errors.New("crew still has bookings")

	// ErrPersistence wraps a failed durable save. The in-memory state is
	// still valid and already includes the mutation.
	ErrPersistence = errors.New("persistence failure")
)

// Persister is the durable-storage collaborator. Load reports found=false
// when no saved state exists yet.
type Persister interface {
	Load() (state *domain.State, found bool, err error)
	Save(state *domain.State) error
}

// Store owns the scheduling state. Every read and mutation goes through it,
// serialized by one RW mutex, so the no-overlap invariant can be enforced at
// commit time against the live state. It is the only component that talks to
// the Persister.
type Store struct {
	mu        sync.RWMutex
	state     *domain.State
	persister Persister
}

// NewStore loads the persisted state, falling back to defaults when nothing
// was saved yet. A load error is returned as-is; the caller decides whether
// to start empty anyway.
func NewStore(p Persister) (*Store, error) {
	state, found, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if !found {
		state = domain.DefaultState()
	}
	normalize(state)
	return &Store{state: state, persister: p}, nil
}

// normalize repairs what a hand-edited or older state file may lack: missing
// maps, missing working hours for a listed crew, unsorted day lists.
func normalize(s *domain.State) {
	if s.WorkingHours == nil {
		s.WorkingHours = map[string]domain.WorkingHours{}
	}
	if s.Schedules == nil {
		s.Schedules = map[string]domain.DaySchedules{}
	}
	for _, crew := range s.Crews {
		if _, ok := s.WorkingHours[crew]; !ok {
			s.WorkingHours[crew] = domain.WorkingHours{Start: domain.DefaultWorkStart, End: domain.DefaultWorkEnd}
		}
		if _, ok := s.Schedules[crew]; !ok {
			s.Schedules[crew] = domain.DaySchedules{}
		}
	}
	for _, days := range s.Schedules {
		for day := range days {
			sortByStart(days[day])
		}
	}
}

func sortByStart(bookings []domain.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].Start.Before(bookings[j].Start)
	})
}

/* ---------- slot catalogue ---------- */

func (st *Store) SlotTypes() []domain.SlotType {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return append([]domain.SlotType(nil), st.state.SlotTypes...)
}

func (st *Store) SetSlotTypes(types []domain.SlotType) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state.SlotTypes = append([]domain.SlotType(nil), types...)
}

// SlotType looks a type up by name. Deleting a type does not invalidate past
// bookings, which keep the name only.
func (st *Store) SlotType(name string) (domain.SlotType, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, t := range st.state.SlotTypes {
		if t.Name == name {
			return t, true
		}
	}
	return domain.SlotType{}, false
}

/* ---------- crew registry ---------- */

func (st *Store) Crews() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return append([]string(nil), st.state.Crews...)
}

// EnsureCrew is idempotent: an absent crew is created with the default
// working hours and an empty day map.
func (st *Store) EnsureCrew(name string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.ensureCrewLocked(name)
}

func (st *Store) ensureCrewLocked(name string) {
	for _, c := range st.state.Crews {
		if c == name {
			return
		}
	}
	st.state.Crews = append(st.state.Crews, name)
	st.state.WorkingHours[name] = domain.WorkingHours{Start: domain.DefaultWorkStart, End: domain.DefaultWorkEnd}
	st.state.Schedules[name] = domain.DaySchedules{}
}

func (st *Store) hasCrewLocked(name string) bool {
	for _, c := range st.state.Crews {
		if c == name {
			return true
		}
	}
	return false
}

func (st *Store) hasBookingsLocked(name string) bool {
	for _, bookings := range st.state.Schedules[name] {
		if len(bookings) > 0 {
			return true
		}
	}
	return false
}

// RemoveCrew deletes a crew from the registry. A crew that still has
// bookings is rejected, so schedule entries never orphan.
func (st *Store) RemoveCrew(name string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.hasCrewLocked(name) {
		return ErrCrewNotFound
	}
	if st.hasBookingsLocked(name) {
		return ErrCrewHasBookings
	}

	crews := st.state.Crews[:0]
	for _, c := range st.state.Crews {
		if c != name {
			crews = append(crews, c)
		}
	}
	st.state.Crews = crews
	delete(st.state.WorkingHours, name)
	delete(st.state.Schedules, name)
	return nil
}

// RenameCrew is a delete+add on the registry. Like RemoveCrew it is rejected
// while the crew has bookings, because bookings reference the crew by name.
func (st *Store) RenameCrew(oldName, newName string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.hasCrewLocked(oldName) {
		return ErrCrewNotFound
	}
	if st.hasCrewLocked(newName) {
		return ErrCrewExists
	}
	if st.hasBookingsLocked(oldName) {
		return ErrCrewHasBookings
	}

	for i, c := range st.state.Crews {
		if c == oldName {
			st.state.Crews[i] = newName
		}
	}
	st.state.WorkingHours[newName] = st.state.WorkingHours[oldName]
	delete(st.state.WorkingHours, oldName)
	st.state.Schedules[newName] = st.state.Schedules[oldName]
	delete(st.state.Schedules, oldName)
	return nil
}

func (st *Store) WorkingHoursFor(crew string) (domain.WorkingHours, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	wh, ok := st.state.WorkingHours[crew]
	return wh, ok
}

func (st *Store) SetWorkingHours(crew string, wh domain.WorkingHours) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.hasCrewLocked(crew) {
		return ErrCrewNotFound
	}
	st.state.WorkingHours[crew] = wh
	return nil
}

/* ---------- booking store ---------- */

// BookingsFor returns a copy of the day's bookings sorted by start
// ascending; an empty slice when there are none.
func (st *Store) BookingsFor(crew, day string) []domain.Booking {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return append([]domain.Booking(nil), st.state.Schedules[crew][day]...)
}

// Commit re-checks the booking's interval against the live day list and
// inserts it, keeping the list sorted. The check and the insert happen under
// one write lock: a candidate that went stale since enumeration fails with
// ErrOverlap and bumps the not-found counter. Crews are created only through
// the registry; a booking for an unknown crew is rejected. A booking without
// a client name gets the next "Klient N" default, numbered after the checks
// pass so a rejected attempt never burns a number.
func (st *Store) Commit(b domain.Booking) (domain.Booking, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.hasCrewLocked(b.Crew) {
		return domain.Booking{}, fmt.Errorf("%w: %q", ErrCrewNotFound, b.Crew)
	}

	days := st.state.Schedules[b.Crew]
	for _, existing := range days[b.Day] {
		if existing.Overlaps(b.Start, b.End) {
			st.state.NotFoundCounter++
			return domain.Booking{}, fmt.Errorf("%w: %s %s %s", ErrOverlap, b.Crew, b.Day, b.Start.Format(time.RFC3339))
		}
	}

	if b.Client == "" {
		st.state.ClientCounter++
		b.Client = fmt.Sprintf("Klient %d", st.state.ClientCounter)
	}

	days[b.Day] = append(days[b.Day], b)
	sortByStart(days[b.Day])
	return b, nil
}

// Remove deletes every booking for the crew/day whose start equals
// matchStart exactly and returns how many were removed. Zero is not an
// error.
func (st *Store) Remove(crew, day string, matchStart time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	bookings := st.state.Schedules[crew][day]
	if len(bookings) == 0 {
		return 0
	}

	kept := bookings[:0]
	removed := 0
	for _, b := range bookings {
		if b.Start.Equal(matchStart) {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	if removed > 0 {
		st.state.Schedules[crew][day] = kept
	}
	return removed
}

// BookedMinutes sums the day's booked durations for one crew.
func (st *Store) BookedMinutes(crew, day string) int {
	st.mu.RLock()
	defer st.mu.RUnlock()

	total := 0
	for _, b := range st.state.Schedules[crew][day] {
		total += timeutil.MinutesBetween(b.Start, b.End)
	}
	return total
}

/* ---------- counters ---------- */

func (st *Store) Counters() (clients, notFound int) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.state.ClientCounter, st.state.NotFoundCounter
}

/* ---------- persistence ---------- */

// Snapshot returns a deep copy of the current state.
func (st *Store) Snapshot() *domain.State {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.state.Clone()
}

// Save persists a snapshot. On failure the in-memory state stays the source
// of truth for the session; the error is reported so the caller can retry or
// alert, and the next successful save reconciles everything.
func (st *Store) Save() error {
	snap := st.Snapshot()
	if err := st.persister.Save(snap); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// Reset reinstates the default state and persists it.
func (st *Store) Reset() error {
	st.mu.Lock()
	st.state = domain.DefaultState()
	st.mu.Unlock()
	return st.Save()
}
