package booking

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"slotplanner/internal/domain"
	"slotplanner/internal/schedule"
	"slotplanner/internal/timeutil"
)

// Config carries the scan granularity and the arrival-buffer sizes. Step
// granularity only affects which start times get offered, never correctness:
// a slot between step boundaries is simply not enumerated.
type Config struct {
	StepMinutes     int
	BufferBeforeMin int
	BufferAfterMin  int
}

const DefaultStepMinutes = 15

type Service struct {
	store  *schedule.Store
	notifs Notifier
	cfg    Config
}

func NewService(store *schedule.Store, notifs Notifier, cfg Config) *Service {
	if cfg.StepMinutes <= 0 {
		cfg.StepMinutes = DefaultStepMinutes
	}
	return &Service{store: store, notifs: notifs, cfg: cfg}
}

/* ---------- availability engine ---------- */

// FindFreeSlots enumerates free candidate start times for the day across all
// crews. durationMin wins over slotType when both are given; slotType alone
// resolves to the type's duration. Candidates come back sorted by
// (start, crew): global arrival-time order, crew name as tie-break.
func (s *Service) FindFreeSlots(day, slotType string, durationMin, stepMin int) ([]Candidate, error) {
	if durationMin == 0 && slotType != "" {
		t, ok := s.store.SlotType(slotType)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSlotType, slotType)
		}
		durationMin = t.Minutes
	}
	if durationMin <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDuration, durationMin)
	}
	if stepMin <= 0 {
		stepMin = s.cfg.StepMinutes
	}

	dayT, err := timeutil.ParseDay(day)
	if err != nil {
		return nil, err
	}

	candidates := []Candidate{}
	for _, crew := range s.store.Crews() {
		window, ok := s.crewWindow(crew, dayT)
		if !ok {
			continue
		}
		booked := s.store.BookingsFor(crew, day)
		candidates = append(candidates, scanWindow(crew, window, booked, durationMin, stepMin)...)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].Start.Equal(candidates[j].Start) {
			return candidates[i].Start.Before(candidates[j].Start)
		}
		return candidates[i].Crew < candidates[j].Crew
	})
	return candidates, nil
}

type window struct {
	start time.Time
	end   time.Time
}

func (s *Service) crewWindow(crew string, day time.Time) (window, bool) {
	wh, ok := s.store.WorkingHoursFor(crew)
	if !ok {
		return window{}, false
	}
	start, err := timeutil.ParseClock(wh.Start)
	if err != nil {
		return window{}, false
	}
	end, err := timeutil.ParseClock(wh.End)
	if err != nil {
		return window{}, false
	}
	from, to := timeutil.WorkingWindow(day, start, end)
	return window{start: from, end: to}, true
}

// scanWindow advances through the window at step granularity and keeps every
// start whose [start, start+duration) does not overlap an existing booking.
// Half-open semantics: touching endpoints are not a conflict.
func scanWindow(crew string, w window, booked []domain.Booking, durationMin, stepMin int) []Candidate {
	duration := time.Duration(durationMin) * time.Minute
	step := time.Duration(stepMin) * time.Minute

	var out []Candidate
	for cur := w.start; !cur.Add(duration).After(w.end); cur = cur.Add(step) {
		end := cur.Add(duration)
		free := true
		for _, b := range booked {
			if b.Overlaps(cur, end) {
				free = false
				break
			}
		}
		if free {
			out = append(out, Candidate{Crew: crew, Start: cur, End: end})
		}
	}
	return out
}

/* ---------- booking transaction ---------- */

// CreateBooking validates, commits and persists one booking. The overlap
// check runs again inside the store's write lock, so a candidate that went
// stale between enumeration and commit fails with ErrNotAvailable instead of
// corrupting the day.
func (s *Service) CreateBooking(req CreateBookingRequest) (*domain.Booking, error) {
	b, err := s.PlaceBooking(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(); err != nil {
		// The booking is committed in memory; report the save failure
		// alongside it so the caller can retry the persist.
		return b, err
	}
	return b, nil
}

// PlaceBooking is CreateBooking without the persistence step, for callers
// that batch many placements and save once at the end.
func (s *Service) PlaceBooking(req CreateBookingRequest) (*domain.Booking, error) {
	day, err := timeutil.ParseDay(req.Day)
	if err != nil {
		return nil, err
	}
	start, err := timeutil.ParseDateTime(req.Start)
	if err != nil {
		return nil, err
	}

	durationMin := req.DurationMin
	if durationMin == 0 && req.SlotType != "" {
		t, ok := s.store.SlotType(req.SlotType)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSlotType, req.SlotType)
		}
		durationMin = t.Minutes
	}
	if durationMin <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDuration, durationMin)
	}

	b := domain.Booking{
		ID:          uuid.New().String(),
		Crew:        req.Crew,
		Day:         req.Day,
		Start:       start,
		End:         start.Add(time.Duration(durationMin) * time.Minute),
		SlotType:    req.SlotType,
		DurationMin: durationMin,
		Client:      req.Client,
		Label:       req.Label,
	}

	if w, ok := s.crewWindow(req.Crew, day); ok {
		b.Arrival = arrivalWindow(start, w, s.cfg.BufferBeforeMin, s.cfg.BufferAfterMin)
	}

	// The store assigns the "Klient N" default name at commit, so a rejected
	// attempt never advances the client counter.
	committed, err := s.store.Commit(b)
	if err != nil {
		if errors.Is(err, schedule.ErrOverlap) {
			return nil, fmt.Errorf("%w: %v", ErrNotAvailable, err)
		}
		return nil, err
	}

	if s.notifs != nil {
		s.notifs.BookingCreated(committed)
	}
	return &committed, nil
}

// arrivalWindow builds [start-before, start+after] and clips it to the
// working window by shifting: a window poking out past either edge slides
// whole, keeping its length, until the edge is met.
func arrivalWindow(start time.Time, w window, beforeMin, afterMin int) *domain.ArrivalWindow {
	if beforeMin <= 0 && afterMin <= 0 {
		return nil
	}

	from := start.Add(-time.Duration(beforeMin) * time.Minute)
	to := start.Add(time.Duration(afterMin) * time.Minute)

	if from.Before(w.start) {
		shift := w.start.Sub(from)
		from = from.Add(shift)
		to = to.Add(shift)
	}
	if to.After(w.end) {
		shift := to.Sub(w.end)
		from = from.Add(-shift)
		to = to.Add(-shift)
	}
	return &domain.ArrivalWindow{Start: from, End: to}
}

/* ---------- removal and schedule queries ---------- */

// RemoveBooking deletes every booking matching the exact start timestamp for
// the crew/day. Zero matches is not an error; the count says what happened.
func (s *Service) RemoveBooking(req RemoveBookingRequest) (int, error) {
	if _, err := timeutil.ParseDay(req.Day); err != nil {
		return 0, err
	}
	start, err := timeutil.ParseDateTime(req.Start)
	if err != nil {
		return 0, err
	}

	removed := s.store.Remove(req.Crew, req.Day, start)
	if removed == 0 {
		return 0, nil
	}

	if s.notifs != nil {
		s.notifs.BookingRemoved(req.Crew, req.Day, start, removed)
	}
	if err := s.store.Save(); err != nil {
		return removed, err
	}
	return removed, nil
}

// Schedule returns the bookings for a date range, optionally restricted to
// one crew, sorted by (start, crew). The week table and the Gantt view both
// consume this.
func (s *Service) Schedule(crew, from string, days int) ([]domain.Booking, error) {
	fromT, err := timeutil.ParseDay(from)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 1
	}

	crews := s.store.Crews()
	if crew != "" {
		crews = []string{crew}
	}

	out := []domain.Booking{}
	for i := 0; i < days; i++ {
		day := fromT.AddDate(0, 0, i).Format(timeutil.DayLayout)
		for _, c := range crews {
			out = append(out, s.store.BookingsFor(c, day)...)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].Crew < out[j].Crew
	})
	return out, nil
}

// CrewWindowMinutes reports the total working minutes of a crew's daily
// window; zero when the crew or its hours are unusable.
func (s *Service) CrewWindowMinutes(crew string, day time.Time) int {
	w, ok := s.crewWindow(crew, day)
	if !ok {
		return 0
	}
	return timeutil.MinutesBetween(w.start, w.end)
}

// CrewWindow exposes the crew's working window for a day to collaborating
// planners.
func (s *Service) CrewWindow(crew string, day time.Time) (start, end time.Time, ok bool) {
	w, found := s.crewWindow(crew, day)
	return w.start, w.end, found
}
