package request

import (
	"time"

	"slotbook/internal/usecase/commands"
)

type CreateSlotRequest struct {
	StartTime    time.Time `json:"start_time" binding:"required"`
	ProviderName string    `json:"provider_name" binding:"omitempty,max=100"`
	Specialty    string    `json:"specialty" binding:"omitempty,max=100"`
}

func (r *CreateSlotRequest) ToInput() commands.CreateSlotInput {
	return commands.CreateSlotInput{
		StartTime:    r.StartTime,
		ProviderName: r.ProviderName,
		Specialty:    r.Specialty,
	}
}

type ViewQuery struct {
	View string `form:"view" binding:"required"`
}
