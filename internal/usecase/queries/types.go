package queries

import (
	"time"

	"slotbook/internal/domain/profile"
	"slotbook/internal/domain/slot"

	"github.com/google/uuid"
)

// SlotView represents read-optimized slot data
type SlotView struct {
	ID           uuid.UUID  `json:"id"`
	ProviderID   uuid.UUID  `json:"provider_id"`
	ProviderName string     `json:"provider_name"`
	Specialty    string     `json:"specialty"`
	StartTime    time.Time  `json:"start_time"`
	Status       string     `json:"status"`
	SeekerID     *uuid.UUID `json:"seeker_id,omitempty"`
	SeekerName   *string    `json:"seeker_name,omitempty"`
	BookedAt     *time.Time `json:"booked_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// AgendaSnapshot is one immutable, fully ordered view of an agenda.
// Version increases by one for every snapshot delivered on a subscription.
type AgendaSnapshot struct {
	Mode        slot.ViewMode `json:"mode"`
	Slots       []*SlotView   `json:"slots"`
	GeneratedAt time.Time     `json:"generated_at"`
	Version     uint64        `json:"version"`
}

// ProviderStatsView represents dashboard counters for one provider
type ProviderStatsView struct {
	ProviderID        uuid.UUID `json:"provider_id"`
	Booked            int       `json:"booked"`
	AvailableUpcoming int       `json:"available_upcoming"`
	DistinctSeekers   int       `json:"distinct_seekers"`
}

// ProfileView represents read-optimized profile data
type ProfileView struct {
	ID          uuid.UUID `json:"id"`
	Role        string    `json:"role"`
	DisplayName string    `json:"display_name"`
	Specialty   string    `json:"specialty"`
	StampedName string    `json:"stamped_name"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewSlotView(s *slot.Slot) *SlotView {
	return &SlotView{
		ID:           s.ID(),
		ProviderID:   s.ProviderID(),
		ProviderName: s.ProviderName(),
		Specialty:    s.Specialty(),
		StartTime:    s.StartTime(),
		Status:       s.Status().String(),
		SeekerID:     s.SeekerID(),
		SeekerName:   s.SeekerName(),
		BookedAt:     s.BookedAt(),
		CreatedAt:    s.CreatedAt(),
	}
}

func newSlotViews(slots []*slot.Slot) []*SlotView {
	views := make([]*SlotView, len(slots))
	for i, s := range slots {
		views[i] = NewSlotView(s)
	}
	return views
}

func NewProfileView(p *profile.Profile) *ProfileView {
	spec := ""
	if p.Role() == profile.RoleProvider {
		spec = p.Specialty().String()
	}
	return &ProfileView{
		ID:          p.ID(),
		Role:        p.Role().String(),
		DisplayName: p.DisplayName().String(),
		Specialty:   spec,
		StampedName: p.StampedName(),
		UpdatedAt:   p.UpdatedAt(),
	}
}
