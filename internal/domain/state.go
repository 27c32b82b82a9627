package domain

import (
	"encoding/json"
	"fmt"
)

// WorkingHours is a crew's daily window as clock strings ("08:00", "16:00").
// End <= Start denotes an overnight shift wrapping to the next day.
// On the wire it is a two-element array, matching the persisted schema.
type WorkingHours struct {
	Start string
	End   string
}

func (w WorkingHours) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{w.Start, w.End})
}

func (w *WorkingHours) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("working hours: want [start, end], got %d elements", len(pair))
	}
	w.Start, w.End = pair[0], pair[1]
	return nil
}

// DaySchedules maps ISO day ("2006-01-02") to that day's bookings,
// kept sorted by start ascending.
type DaySchedules map[string][]Booking

// State is the whole persisted scheduling state. It is owned by a single
// schedule.Store; nothing else mutates it.
type State struct {
	SlotTypes       []SlotType              `json:"slot_types"`
	Crews           []string                `json:"crews"`
	WorkingHours    map[string]WorkingHours `json:"working_hours"`
	Schedules       map[string]DaySchedules `json:"schedules"`
	ClientCounter   int                     `json:"client_counter"`
	NotFoundCounter int                     `json:"not_found_counter"`
}

const (
	DefaultWorkStart = "08:00"
	DefaultWorkEnd   = "16:00"
)

// DefaultState is the state a fresh install starts from: one standard slot
// type and two crews on the default hours.
func DefaultState() *State {
	s := &State{
		SlotTypes: []SlotType{
			{Name: "Standard", Minutes: 60, Weight: 1.0},
		},
		Crews:        []string{"Brygada A", "Brygada B"},
		WorkingHours: map[string]WorkingHours{},
		Schedules:    map[string]DaySchedules{},
	}
	for _, c := range s.Crews {
		s.WorkingHours[c] = WorkingHours{Start: DefaultWorkStart, End: DefaultWorkEnd}
		s.Schedules[c] = DaySchedules{}
	}
	return s
}

// Clone returns a deep copy, so a snapshot can be persisted without holding
// the store lock for the duration of the write.
func (s *State) Clone() *State {
	out := &State{
		SlotTypes:       append([]SlotType(nil), s.SlotTypes...),
		Crews:           append([]string(nil), s.Crews...),
		WorkingHours:    make(map[string]WorkingHours, len(s.WorkingHours)),
		Schedules:       make(map[string]DaySchedules, len(s.Schedules)),
		ClientCounter:   s.ClientCounter,
		NotFoundCounter: s.NotFoundCounter,
	}
	for name, wh := range s.WorkingHours {
		out.WorkingHours[name] = wh
	}
	for crew, days := range s.Schedules {
		copied := make(DaySchedules, len(days))
		for day, bookings := range days {
			copied[day] = append([]Booking(nil), bookings...)
		}
		out.Schedules[crew] = copied
	}
	return out
}
