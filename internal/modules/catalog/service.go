package catalog

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"slotplanner/internal/domain"
	"slotplanner/internal/schedule"
)

type Service struct {
	store *schedule.Store
	rng   *rand.Rand
}

func NewService(store *schedule.Store, rng *rand.Rand) *Service {
	return &Service{store: store, rng: rng}
}

// ParseSlotTypes parses one slot type per line: "name, minutes[, weight]".
// Weight defaults to 1.0. Malformed lines are dropped and reported as
// warnings rather than failing the whole parse.
func ParseSlotTypes(text string) ([]domain.SlotType, []string) {
	var (
		types    []domain.SlotType
		warnings []string
	)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		t, err := parseLine(line)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		types = append(types, t)
	}
	return types, warnings
}

func parseLine(line string) (domain.SlotType, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 2 {
		return domain.SlotType{}, fmt.Errorf("%w: %q", ErrInvalidLine, line)
	}

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return domain.SlotType{}, fmt.Errorf("%w: empty name in %q", ErrInvalidLine, line)
	}

	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minutes <= 0 {
		return domain.SlotType{}, fmt.Errorf("%w: minutes must be a positive integer in %q", ErrInvalidLine, line)
	}

	weight := 1.0
	if len(parts) >= 3 {
		weight, err = strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil || weight < 0 {
			return domain.SlotType{}, fmt.Errorf("%w: weight must be a non-negative number in %q", ErrInvalidLine, line)
		}
	}

	return domain.SlotType{Name: name, Minutes: minutes, Weight: weight}, nil
}

// WeightedPick selects a slot type name with probability proportional to its
// weight, via a linear cumulative scan. Returns "" for an empty catalogue or
// when every weight is zero.
func WeightedPick(types []domain.SlotType, rng *rand.Rand) string {
	total := 0.0
	for _, t := range types {
		if t.Weight > 0 {
			total += t.Weight
		}
	}
	if total == 0 {
		return ""
	}

	target := rng.Float64() * total
	cum := 0.0
	for _, t := range types {
		if t.Weight <= 0 {
			continue
		}
		cum += t.Weight
		if target < cum {
			return t.Name
		}
	}
	// float rounding can leave target == total; fall back to the last
	// positive-weight entry.
	for i := len(types) - 1; i >= 0; i-- {
		if types[i].Weight > 0 {
			return types[i].Name
		}
	}
	return ""
}

func (s *Service) List() []domain.SlotType {
	return s.store.SlotTypes()
}

// Update replaces the catalogue from raw text-area input and persists.
// Warnings for dropped lines come back to the caller; they are not an error.
func (s *Service) Update(text string) ([]domain.SlotType, []string, error) {
	types, warnings := ParseSlotTypes(text)
	s.store.SetSlotTypes(types)
	if err := s.store.Save(); err != nil {
		return types, warnings, err
	}
	return types, warnings, nil
}

// Pick draws a weighted-random slot type from the current catalogue.
func (s *Service) Pick() (domain.SlotType, error) {
	types := s.store.SlotTypes()
	name := WeightedPick(types, s.rng)
	if name == "" {
		return domain.SlotType{}, ErrEmptyCatalogue
	}
	t, _ := s.store.SlotType(name)
	return t, nil
}
