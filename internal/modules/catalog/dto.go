package catalog

import "slotplanner/internal/domain"

type UpdateSlotTypesResponse struct {
	SlotTypes []domain.SlotType `json:"slot_types"`
	Warnings  []string          `json:"warnings,omitempty"`
}
