package crew

type CreateCrewRequest struct {
	Name string `json:"name" binding:"required"`
}

type RenameCrewRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateHoursRequest struct {
	WorkStart string `json:"work_start" binding:"required"`
	WorkEnd   string `json:"work_end" binding:"required"`
}

type CrewResponse struct {
	Name      string `json:"name"`
	WorkStart string `json:"work_start"`
	WorkEnd   string `json:"work_end"`
	Overnight bool   `json:"overnight"`
}
