package autofill

import (
	"math/rand"
	"time"

	"slotplanner/internal/modules/booking"
	"slotplanner/internal/modules/catalog"
	"slotplanner/internal/schedule"
	"slotplanner/internal/timeutil"
)

// preferredRange is one of the fixed arrival bands the planner draws from
// uniformly. Bookings it places carry the band label.
type preferredRange struct {
	Label string
	Start string
	End   string
}

var preferredRanges = []preferredRange{
	{Label: "morning", Start: "06:00", End: "11:00"},
	{Label: "midday", Start: "11:00", End: "14:00"},
	{Label: "afternoon", Start: "14:00", End: "17:00"},
	{Label: "evening", Start: "17:00", End: "22:00"},
}

const DefaultMaxIterations = 50

type Service struct {
	store         *schedule.Store
	bookings      *booking.Service
	catalog       *catalog.Service
	rng           *rand.Rand
	stepMinutes   int
	maxIterations int
}

func NewService(store *schedule.Store, bookings *booking.Service, cat *catalog.Service, rng *rand.Rand, stepMinutes, maxIterations int) *Service {
	if stepMinutes <= 0 {
		stepMinutes = booking.DefaultStepMinutes
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Service{
		store:         store,
		bookings:      bookings,
		catalog:       cat,
		rng:           rng,
		stepMinutes:   stepMinutes,
		maxIterations: maxIterations,
	}
}

// Fill books weighted-random slot types into every crew's remaining capacity
// for one day. Rounds repeat until a full pass over all crews adds nothing
// (fixed point) or maxIterations is hit, which bounds pathological
// catalogues. Persistence is deferred to one save at the end of the run.
func (s *Service) Fill(day string, maxIterations int) (int, error) {
	dayT, err := timeutil.ParseDay(day)
	if err != nil {
		return 0, err
	}
	if maxIterations <= 0 {
		maxIterations = s.maxIterations
	}

	created := 0
	for round := 0; round < maxIterations; round++ {
		added := 0
		for _, crew := range s.store.Crews() {
			if s.fillCrewOnce(crew, day, dayT) {
				created++
				added++
			}
		}
		if added == 0 {
			break
		}
	}

	if created > 0 {
		if err := s.store.Save(); err != nil {
			return created, err
		}
	}
	return created, nil
}

// fillCrewOnce makes one placement attempt for one crew. False means the
// crew is full, the dice gave an unplaceable combination, or the catalogue
// is empty; each of those just ends this attempt.
func (s *Service) fillCrewOnce(crew, day string, dayT time.Time) bool {
	winStart, winEnd, ok := s.bookings.CrewWindow(crew, dayT)
	if !ok {
		return false
	}

	capacity := timeutil.MinutesBetween(winStart, winEnd)
	if capacity <= 0 || s.store.BookedMinutes(crew, day) >= capacity {
		return false
	}

	slot, err := s.catalog.Pick()
	if err != nil {
		return false
	}

	band := preferredRanges[s.rng.Intn(len(preferredRanges))]
	lo, hi, ok := intersectBand(dayT, band, winStart, winEnd)
	if !ok {
		return false
	}

	start, found := s.findStart(crew, day, lo, hi, slot.Minutes)
	if !found {
		return false
	}

	// A lost race on the interval surfaces as ErrNotAvailable; any failed
	// placement is a miss for this attempt, not a failure of the whole run.
	_, err = s.bookings.PlaceBooking(booking.CreateBookingRequest{
		Crew:        crew,
		Day:         day,
		Start:       start.Format(time.RFC3339),
		SlotType:    slot.Name,
		DurationMin: slot.Minutes,
		Label:       band.Label,
	})
	return err == nil
}

// intersectBand clips the preferred band to the crew's working window:
// combine the band's clock pair with the day (same overnight rule as crew
// hours), then take max(start) .. min(end).
func intersectBand(day time.Time, band preferredRange, winStart, winEnd time.Time) (time.Time, time.Time, bool) {
	startClock, err := timeutil.ParseClock(band.Start)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	endClock, err := timeutil.ParseClock(band.End)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	bandStart, bandEnd := timeutil.WorkingWindow(day, startClock, endClock)

	lo := bandStart
	if winStart.After(lo) {
		lo = winStart
	}
	hi := bandEnd
	if winEnd.Before(hi) {
		hi = winEnd
	}
	if !hi.After(lo) {
		return time.Time{}, time.Time{}, false
	}
	return lo, hi, true
}

// findStart scans the intersected window at step granularity for the first
// start whose interval is free; the commit re-validates anyway.
func (s *Service) findStart(crew, day string, lo, hi time.Time, durationMin int) (time.Time, bool) {
	duration := time.Duration(durationMin) * time.Minute
	step := time.Duration(s.stepMinutes) * time.Minute
	booked := s.store.BookingsFor(crew, day)

	for cur := lo; !cur.Add(duration).After(hi); cur = cur.Add(step) {
		end := cur.Add(duration)
		free := true
		for _, b := range booked {
			if b.Overlaps(cur, end) {
				free = false
				break
			}
		}
		if free {
			return cur, true
		}
	}
	return time.Time{}, false
}

// Labels exposes the fixed band labels, for clients that want to filter the
// schedule by them.
func Labels() []string {
	out := make([]string, len(preferredRanges))
	for i, r := range preferredRanges {
		out[i] = r.Label
	}
	return out
}
