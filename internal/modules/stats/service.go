package stats

import (
	"math"

	"slotplanner/internal/modules/booking"
	"slotplanner/internal/schedule"
	"slotplanner/internal/timeutil"
)

type CrewUtilization struct {
	Crew           string  `json:"crew"`
	Bookings       int     `json:"bookings"`
	BookedMinutes  int     `json:"booked_minutes"`
	WorkingMinutes int     `json:"working_minutes"`
	Utilization    float64 `json:"utilization"`
}

type DayStats struct {
	Day             string            `json:"day"`
	Crews           []CrewUtilization `json:"crews"`
	ClientCounter   int               `json:"client_counter"`
	NotFoundCounter int               `json:"not_found_counter"`
}

type Service struct {
	store    *schedule.Store
	bookings *booking.Service
}

func NewService(store *schedule.Store, bookings *booking.Service) *Service {
	return &Service{store: store, bookings: bookings}
}

// ForDay reports per-crew load for one day: booked minutes against the
// working window, as the utilization share the charts plot.
func (s *Service) ForDay(day string) (*DayStats, error) {
	dayT, err := timeutil.ParseDay(day)
	if err != nil {
		return nil, err
	}

	clients, notFound := s.store.Counters()
	out := &DayStats{
		Day:             day,
		Crews:           []CrewUtilization{},
		ClientCounter:   clients,
		NotFoundCounter: notFound,
	}

	for _, crew := range s.store.Crews() {
		working := s.bookings.CrewWindowMinutes(crew, dayT)
		booked := s.store.BookedMinutes(crew, day)

		util := 0.0
		if working > 0 {
			util = math.Round(float64(booked)/float64(working)*1000) / 1000
		}

		out.Crews = append(out.Crews, CrewUtilization{
			Crew:           crew,
			Bookings:       len(s.store.BookingsFor(crew, day)),
			BookedMinutes:  booked,
			WorkingMinutes: working,
			Utilization:    util,
		})
	}
	return out, nil
}
