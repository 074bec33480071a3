package queries

import (
	"context"
	"log/slog"
	"time"

	"slotbook/internal/domain/slot"
	"slotbook/internal/pkg/clock"
	"slotbook/internal/pkg/config"
	"slotbook/internal/pkg/telemetry"
	"slotbook/internal/usecase/shared"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -destination=../../../tests/mock/queries/mock_queries.go -package=queriesmock slotbook/internal/usecase/queries AgendaQueries,ProfileQueries,SlotQueries

var tracer = telemetry.Tracer("slotbook/usecase/queries")

type AgendaQueries interface {
	Snapshot(ctx context.Context, viewer shared.Actor, mode slot.ViewMode) (*AgendaSnapshot, error)
	Subscribe(ctx context.Context, viewer shared.Actor, mode slot.ViewMode) (*Subscription, error)
}

type agendaQueriesImpl struct {
	slots   shared.SlotRepository
	clock   clock.Clock
	refresh time.Duration
	logger  *slog.Logger
}

func NewAgendaQueries(slots shared.SlotRepository, clk clock.Clock, cfg config.Config, logger *slog.Logger) AgendaQueries {
	return &agendaQueriesImpl{
		slots:   slots,
		clock:   clk,
		refresh: cfg.Agenda.RefreshInterval,
		logger:  logger,
	}
}

// AuthorizeView checks that the role may open the view mode.
func AuthorizeView(viewer shared.Actor, mode slot.ViewMode) error {
	switch mode {
	case slot.ViewProviderAgenda, slot.ViewProviderSlots:
		if !viewer.IsProvider() {
			return slot.ErrViewNotPermitted
		}
	case slot.ViewMarketplace, slot.ViewMyBookings:
		if !viewer.IsSeeker() {
			return slot.ErrViewNotPermitted
		}
	default:
		return slot.ErrInvalidViewMode
	}
	return nil
}

func (q *agendaQueriesImpl) Snapshot(ctx context.Context, viewer shared.Actor, mode slot.ViewMode) (_ *AgendaSnapshot, err error) {
	ctx, span := tracer.Start(ctx, "AgendaQueries.Snapshot", trace.WithAttributes(
		attribute.String("view.mode", mode.String()),
		attribute.String("viewer.id", viewer.ID.String()),
	))
	defer func() { telemetry.Finish(span, err, slot.ErrViewNotPermitted, slot.ErrInvalidViewMode) }()

	if err := AuthorizeView(viewer, mode); err != nil {
		return nil, err
	}
	snap, err := q.compute(ctx, viewer, mode)
	if err != nil {
		return nil, err
	}
	snap.Version = 1
	return snap, nil
}

// Subscribe opens a live view. The store watch is opened before the first
// read so no change between the two is lost.
func (q *agendaQueriesImpl) Subscribe(ctx context.Context, viewer shared.Actor, mode slot.ViewMode) (*Subscription, error) {
	if err := AuthorizeView(viewer, mode); err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	changes, err := q.slots.Watch(subCtx)
	if err != nil {
		cancel()
		return nil, shared.TransportFailure(err, "watch slots")
	}

	first, err := q.compute(subCtx, viewer, mode)
	if err != nil {
		cancel()
		return nil, err
	}
	first.Version = 1

	out := make(chan AgendaSnapshot, 1)
	out <- *first
	done := make(chan struct{})

	go q.run(subCtx, viewer, mode, changes, out, done)

	q.logger.DebugContext(ctx, "agenda subscription opened",
		slog.String("viewer_id", viewer.ID.String()),
		slog.String("mode", mode.String()),
	)
	return &Subscription{updates: out, cancel: cancel, done: done}, nil
}

func (q *agendaQueriesImpl) run(
	ctx context.Context,
	viewer shared.Actor,
	mode slot.ViewMode,
	changes <-chan slot.Change,
	out chan AgendaSnapshot,
	done chan struct{},
) {
	defer close(done)
	defer close(out)

	// Relevance only depends on the store query, which is time independent.
	filter, _ := slot.FilterFor(mode, viewer.ID, q.clock.Now())

	// Only time-filtered views go stale without a write.
	var tick <-chan time.Time
	if filter.NotBefore != nil && q.refresh > 0 {
		ticker := time.NewTicker(q.refresh)
		defer ticker.Stop()
		tick = ticker.C
	}

	version := uint64(1)
	var last *AgendaSnapshot
	for {
		fromTick := false
		select {
		case <-ctx.Done():
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			if !filter.Relevant(c) {
				continue
			}
		case <-tick:
			fromTick = true
		}

		snap, err := q.compute(ctx, viewer, mode)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			q.logger.WarnContext(ctx, "agenda recompute failed",
				slog.String("viewer_id", viewer.ID.String()),
				slog.String("mode", mode.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		if fromTick && last != nil && sameSlots(last.Slots, snap.Slots) {
			continue
		}
		version++
		snap.Version = version
		last = snap
		offerLatest(out, *snap)
	}
}

func (q *agendaQueriesImpl) compute(ctx context.Context, viewer shared.Actor, mode slot.ViewMode) (*AgendaSnapshot, error) {
	now := q.clock.Now()
	filter, err := slot.FilterFor(mode, viewer.ID, now)
	if err != nil {
		return nil, err
	}
	rows, err := q.slots.Find(ctx, filter.Query)
	if err != nil {
		return nil, shared.TransportFailure(err, "find slots")
	}
	return &AgendaSnapshot{
		Mode:        mode,
		Slots:       newSlotViews(filter.Apply(rows)),
		GeneratedAt: now,
	}, nil
}

func sameSlots(a, b []*SlotView) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Status != b[i].Status {
			return false
		}
	}
	return true
}
