package shared

import (
	"context"
	"time"

	"slotbook/internal/domain/profile"
	"slotbook/internal/domain/slot"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=../../../tests/mock/shared/mock_ports.go -package=sharedmock slotbook/internal/usecase/shared ProfileRepository,SlotRepository

// SlotRepository is the storage contract for slots. Every mutating method is
// a single conditional statement so that concurrent callers cannot
// interleave a read and a write.
type SlotRepository interface {
	// Insert persists a new available slot.
	Insert(ctx context.Context, s *slot.Slot) error
	// DeleteAvailable removes the slot only while it is available and owned by
	// providerID. It reports false when no row matched.
	DeleteAvailable(ctx context.Context, id, providerID uuid.UUID) (bool, error)
	// ClaimAvailable books the slot iff it is still available and starts after
	// c.At. It returns slot.ErrSlotNoLongerAvailable when the condition fails.
	ClaimAvailable(ctx context.Context, c slot.Claim) (*slot.Slot, error)
	// Find returns slots matching q ordered by start time.
	Find(ctx context.Context, q slot.Query) ([]*slot.Slot, error)
	// Watch streams slot changes until ctx is done.
	Watch(ctx context.Context) (<-chan slot.Change, error)

	FindByID(ctx context.Context, id uuid.UUID) (*slot.Slot, error)
	ProviderStats(ctx context.Context, providerID uuid.UUID, now time.Time) (slot.ProviderStats, error)
}

type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
	Upsert(ctx context.Context, p *profile.Profile) error
}
