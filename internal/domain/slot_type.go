package domain

// SlotType is a named booking template: how long a slot of this type takes
// and how likely the auto-fill planner is to pick it.
type SlotType struct {
	Name    string  `json:"name"`
	Minutes int     `json:"minutes"`
	Weight  float64 `json:"weight"`
}
