package response

import (
	"time"

	"slotbook/internal/domain/slot"
	"slotbook/internal/usecase/queries"
)

type SlotResponse struct {
	ID           string     `json:"id"`
	ProviderID   string     `json:"provider_id"`
	ProviderName string     `json:"provider_name"`
	Specialty    string     `json:"specialty"`
	StartTime    time.Time  `json:"start_time"`
	Status       string     `json:"status"`
	SeekerID     *string    `json:"seeker_id,omitempty"`
	SeekerName   *string    `json:"seeker_name,omitempty"`
	BookedAt     *time.Time `json:"booked_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func FromSlotView(v *queries.SlotView) *SlotResponse {
	res := &SlotResponse{
		ID:           v.ID.String(),
		ProviderID:   v.ProviderID.String(),
		ProviderName: v.ProviderName,
		Specialty:    v.Specialty,
		StartTime:    v.StartTime,
		Status:       v.Status,
		SeekerName:   v.SeekerName,
		BookedAt:     v.BookedAt,
		CreatedAt:    v.CreatedAt,
	}
	if v.SeekerID != nil {
		id := v.SeekerID.String()
		res.SeekerID = &id
	}
	return res
}

func FromSlot(s *slot.Slot) *SlotResponse {
	return FromSlotView(queries.NewSlotView(s))
}

type AgendaResponse struct {
	Mode        string          `json:"mode"`
	Version     uint64          `json:"version"`
	GeneratedAt time.Time       `json:"generated_at"`
	Slots       []*SlotResponse `json:"slots"`
}

func FromAgendaSnapshot(s *queries.AgendaSnapshot) *AgendaResponse {
	slots := make([]*SlotResponse, len(s.Slots))
	for i, v := range s.Slots {
		slots[i] = FromSlotView(v)
	}
	return &AgendaResponse{
		Mode:        s.Mode.String(),
		Version:     s.Version,
		GeneratedAt: s.GeneratedAt,
		Slots:       slots,
	}
}
