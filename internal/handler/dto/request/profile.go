package request

import "slotbook/internal/usecase/commands"

type UpsertProfileRequest struct {
	DisplayName string `json:"display_name" binding:"max=100"`
	Specialty   string `json:"specialty" binding:"omitempty,max=100"`
}

func (r *UpsertProfileRequest) ToInput() commands.UpsertProfileInput {
	return commands.UpsertProfileInput{
		DisplayName: r.DisplayName,
		Specialty:   r.Specialty,
	}
}
