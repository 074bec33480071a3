//go:build unit || e2e

package builder

import (
	"time"

	"slotbook/internal/domain/slot"
	reqdto "slotbook/internal/handler/dto/request"
	"slotbook/internal/pkg/clock"
	"slotbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotBuilder struct {
	ProviderID   uuid.UUID
	ProviderName string
	Specialty    string
	StartTime    time.Time
	Now          time.Time
}

func NewSlotBuilder() *SlotBuilder {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &SlotBuilder{
		ProviderID:   uuid.New(),
		ProviderName: "Dr. Ada Lovelace",
		Specialty:    "Cardiology",
		StartTime:    now.Add(24 * time.Hour),
		Now:          now,
	}
}

func (b *SlotBuilder) With(mutate func(*SlotBuilder)) *SlotBuilder {
	mutate(b)
	return b
}

func (b *SlotBuilder) WithProvider(id uuid.UUID) *SlotBuilder {
	b.ProviderID = id
	return b
}

func (b *SlotBuilder) WithStartTime(t time.Time) *SlotBuilder {
	b.StartTime = t
	return b
}

// StartingIn places the slot d after the builder's clock.
func (b *SlotBuilder) StartingIn(d time.Duration) *SlotBuilder {
	b.StartTime = b.Now.Add(d)
	return b
}

func (b *SlotBuilder) WithNow(now time.Time) *SlotBuilder {
	b.Now = now
	return b
}

func (b *SlotBuilder) Clock() *clock.MockClock {
	return clock.NewMockClock(b.Now)
}

// Build methods
func (b *SlotBuilder) BuildDomain() (*slot.Slot, error) {
	return slot.NewSlot(&slot.Services{Clock: b.Clock()}, b.ProviderID, b.ProviderName, b.Specialty, b.StartTime)
}

func (b *SlotBuilder) MustBuildDomain() *slot.Slot {
	s, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return s
}

func (b *SlotBuilder) BuildBooked(seekerID uuid.UUID, seekerName string) *slot.Slot {
	return b.MustBuildDomain().Booked(slot.Claim{SeekerID: seekerID, SeekerName: seekerName, At: b.Now})
}

func (b *SlotBuilder) BuildView() *queries.SlotView {
	return queries.NewSlotView(b.MustBuildDomain())
}

func (b *SlotBuilder) BuildCreateRequestDTO() reqdto.CreateSlotRequest {
	return reqdto.CreateSlotRequest{
		StartTime:    b.StartTime,
		ProviderName: b.ProviderName,
		Specialty:    b.Specialty,
	}
}
