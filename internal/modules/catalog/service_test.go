package catalog

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotplanner/internal/domain"
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

func TestParseSlotTypes(t *testing.T) {
	types, warnings := ParseSlotTypes("Standard, 60, 1.0\nExpress, 30, 2.0\n\n  Rozszerzony , 120 , 0.5  ")
	require.Empty(t, warnings)
	require.Len(t, types, 3)

	assert.Equal(t, domain.SlotType{Name: "Standard", Minutes: 60, Weight: 1.0}, types[0])
	assert.Equal(t, domain.SlotType{Name: "Express", Minutes: 30, Weight: 2.0}, types[1])
	assert.Equal(t, domain.SlotType{Name: "Rozszerzony", Minutes: 120, Weight: 0.5}, types[2])
}

func TestParseSlotTypes_WeightDefaultsToOne(t *testing.T) {
	types, warnings := ParseSlotTypes("Standard, 45")
	require.Empty(t, warnings)
	require.Len(t, types, 1)
	assert.Equal(t, 1.0, types[0].Weight)
}

func TestParseSlotTypes_MalformedLinesBecomeWarnings(t *testing.T) {
	text := "Standard, 60\n" +
		"no-minutes\n" + // missing comma
		", 30\n" + // empty name
		"Bad, zero, 1\n" + // minutes not a number
		"Neg, -10\n" + // minutes not positive
		"BadWeight, 30, -1\n" // negative weight

	types, warnings := ParseSlotTypes(text)
	require.Len(t, types, 1)
	assert.Equal(t, "Standard", types[0].Name)
	assert.Len(t, warnings, 5)
}

func TestWeightedPick(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	// zero-weight entries are never drawn
	types := []domain.SlotType{
		{Name: "Never", Minutes: 30, Weight: 0},
		{Name: "Always", Minutes: 60, Weight: 1},
	}
	for i := 0; i < 100; i++ {
		assert.Equal(t, "Always", WeightedPick(types, rng))
	}

	// both positive weights show up over enough draws
	types = []domain.SlotType{
		{Name: "A", Minutes: 30, Weight: 1},
		{Name: "B", Minutes: 60, Weight: 3},
	}
	seen := map[string]int{}
	for i := 0; i < 200; i++ {
		seen[WeightedPick(types, rng)]++
	}
	assert.Positive(t, seen["A"])
	assert.Positive(t, seen["B"])
	assert.Greater(t, seen["B"], seen["A"])
}

func TestWeightedPick_EmptyOrZeroWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	assert.Equal(t, "", WeightedPick(nil, rng))
	assert.Equal(t, "", WeightedPick([]domain.SlotType{
		{Name: "A", Minutes: 30, Weight: 0},
	}, rng))
}

func TestService_UpdateAndPick(t *testing.T) {
	p := &memPersister{}
	store, err := schedule.NewStore(p)
	require.NoError(t, err)

	svc := NewService(store, rand.New(rand.NewSource(1)))

	types, warnings, err := svc.Update("Express, 30, 2.0\nbroken line")
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
	require.Len(t, types, 1)
	assert.Equal(t, 1, p.saves)

	picked, err := svc.Pick()
	require.NoError(t, err)
	assert.Equal(t, "Express", picked.Name)
	assert.Equal(t, 30, picked.Minutes)
}

func TestService_PickEmptyCatalogue(t *testing.T) {
	store, err := schedule.NewStore(&memPersister{})
	require.NoError(t, err)

	svc := NewService(store, rand.New(rand.NewSource(1)))
	_, _, err = svc.Update("")
	require.NoError(t, err)

	_, err = svc.Pick()
	assert.ErrorIs(t, err, ErrEmptyCatalogue)
}
