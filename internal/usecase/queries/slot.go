package queries

import (
	"context"
	"errors"

	"slotbook/internal/domain/slot"
	"slotbook/internal/pkg/clock"
	"slotbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type SlotQueries interface {
	GetSlot(ctx context.Context, viewer shared.Actor, id uuid.UUID) (*SlotView, error)
	ProviderStats(ctx context.Context, viewer shared.Actor) (*ProviderStatsView, error)
}

type slotQueriesImpl struct {
	slots shared.SlotRepository
	clock clock.Clock
}

func NewSlotQueries(slots shared.SlotRepository, clk clock.Clock) SlotQueries {
	return &slotQueriesImpl{slots: slots, clock: clk}
}

// GetSlot hides booked slots from anyone but their provider and seeker.
func (q *slotQueriesImpl) GetSlot(ctx context.Context, viewer shared.Actor, id uuid.UUID) (*SlotView, error) {
	s, err := q.slots.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, slot.ErrSlotNotFound) {
			return nil, slot.ErrSlotNotFound
		}
		return nil, shared.TransportFailure(err, "find slot")
	}
	if !s.VisibleTo(viewer.ID) {
		return nil, slot.ErrSlotNotFound
	}
	return NewSlotView(s), nil
}

func (q *slotQueriesImpl) ProviderStats(ctx context.Context, viewer shared.Actor) (*ProviderStatsView, error) {
	if !viewer.IsProvider() {
		return nil, slot.ErrViewNotPermitted
	}
	stats, err := q.slots.ProviderStats(ctx, viewer.ID, q.clock.Now())
	if err != nil {
		return nil, shared.TransportFailure(err, "provider stats")
	}
	return &ProviderStatsView{
		ProviderID:        viewer.ID,
		Booked:            stats.Booked,
		AvailableUpcoming: stats.AvailableUpcoming,
		DistinctSeekers:   stats.DistinctSeekers,
	}, nil
}
