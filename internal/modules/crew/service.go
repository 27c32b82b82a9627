package crew

import (
	"fmt"
	"strings"

	"slotplanner/internal/domain"
	"slotplanner/internal/schedule"
	"slotplanner/internal/timeutil"
)

type Service struct {
	store *schedule.Store
}

func NewService(store *schedule.Store) *Service {
	return &Service{store: store}
}

func (s *Service) List() []CrewResponse {
	crews := s.store.Crews()
	out := make([]CrewResponse, 0, len(crews))
	for _, name := range crews {
		wh, _ := s.store.WorkingHoursFor(name)
		out = append(out, toResponse(name, wh))
	}
	return out
}

func toResponse(name string, wh domain.WorkingHours) CrewResponse {
	overnight := false
	if start, err := timeutil.ParseClock(wh.Start); err == nil {
		if end, err := timeutil.ParseClock(wh.End); err == nil {
			overnight = end.Minutes() <= start.Minutes()
		}
	}
	return CrewResponse{Name: name, WorkStart: wh.Start, WorkEnd: wh.End, Overnight: overnight}
}

// Ensure registers the crew if absent; already-present crews are untouched.
func (s *Service) Ensure(name string) (CrewResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CrewResponse{}, fmt.Errorf("%w: crew name is empty", ErrValidation)
	}

	s.store.EnsureCrew(name)
	if err := s.store.Save(); err != nil {
		return CrewResponse{}, err
	}

	wh, _ := s.store.WorkingHoursFor(name)
	return toResponse(name, wh), nil
}

// SetHours validates both clock strings before touching the store, so a bad
// request cannot leave a half-updated window behind.
func (s *Service) SetHours(name, workStart, workEnd string) (CrewResponse, error) {
	if _, err := timeutil.ParseClock(workStart); err != nil {
		return CrewResponse{}, err
	}
	if _, err := timeutil.ParseClock(workEnd); err != nil {
		return CrewResponse{}, err
	}

	wh := domain.WorkingHours{Start: workStart, End: workEnd}
	if err := s.store.SetWorkingHours(name, wh); err != nil {
		return CrewResponse{}, err
	}
	if err := s.store.Save(); err != nil {
		return CrewResponse{}, err
	}
	return toResponse(name, wh), nil
}

// Rename moves the crew's registry entry to a new name. Rejected while the
// crew has bookings: bookings reference crews by name and would orphan.
func (s *Service) Rename(oldName, newName string) (CrewResponse, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return CrewResponse{}, fmt.Errorf("%w: new crew name is empty", ErrValidation)
	}

	if err := s.store.RenameCrew(oldName, newName); err != nil {
		return CrewResponse{}, err
	}
	if err := s.store.Save(); err != nil {
		return CrewResponse{}, err
	}

	wh, _ := s.store.WorkingHoursFor(newName)
	return toResponse(newName, wh), nil
}

// Remove deletes the crew; same booking guard as Rename.
func (s *Service) Remove(name string) error {
	if err := s.store.RemoveCrew(name); err != nil {
		return err
	}
	return s.store.Save()
}
