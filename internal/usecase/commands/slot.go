package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"slotbook/internal/domain/profile"
	"slotbook/internal/domain/slot"
	"slotbook/internal/pkg/clock"
	"slotbook/internal/pkg/telemetry"
	"slotbook/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -destination=../../../tests/mock/commands/mock_commands.go -package=commandsmock slotbook/internal/usecase/commands ProfileCommands,SlotCommands

var tracer = telemetry.Tracer("slotbook/usecase/commands")

type CreateSlotInput struct {
	StartTime time.Time
	// Optional overrides; empty values are stamped from the provider profile.
	ProviderName string
	Specialty    string
}

type SlotCommands interface {
	CreateSlot(ctx context.Context, actor shared.Actor, in CreateSlotInput) (*slot.Slot, error)
	CancelSlot(ctx context.Context, actor shared.Actor, slotID uuid.UUID) error
	ClaimSlot(ctx context.Context, actor shared.Actor, slotID uuid.UUID) (*slot.Slot, error)
}

type slotCommandsImpl struct {
	slots    shared.SlotRepository
	profiles shared.ProfileRepository
	services *slot.Services
	clock    clock.Clock
	logger   *slog.Logger
}

func NewSlotCommands(
	slots shared.SlotRepository,
	profiles shared.ProfileRepository,
	clk clock.Clock,
	logger *slog.Logger,
) SlotCommands {
	return &slotCommandsImpl{
		slots:    slots,
		profiles: profiles,
		services: &slot.Services{Clock: clk},
		clock:    clk,
		logger:   logger,
	}
}

func (uc *slotCommandsImpl) CreateSlot(ctx context.Context, actor shared.Actor, in CreateSlotInput) (_ *slot.Slot, err error) {
	ctx, span := tracer.Start(ctx, "SlotCommands.CreateSlot", trace.WithAttributes(
		attribute.String("actor.id", actor.ID.String()),
	))
	defer func() { telemetry.Finish(span, err, slot.ErrInvalidSlotTime, slot.ErrUnauthorized) }()

	if !actor.IsProvider() {
		return nil, slot.ErrUnauthorized
	}

	name, specialty, err := uc.providerStamp(ctx, actor, in)
	if err != nil {
		return nil, err
	}

	s, err := slot.NewSlot(uc.services, actor.ID, name, specialty, in.StartTime)
	if err != nil {
		return nil, err
	}

	if err := uc.slots.Insert(ctx, s); err != nil {
		return nil, shared.TransportFailure(err, "insert slot")
	}

	uc.logger.InfoContext(ctx, "slot created",
		slog.String("slot_id", s.ID().String()),
		slog.String("provider_id", actor.ID.String()),
		slog.Time("start_time", s.StartTime()),
	)
	return s, nil
}

func (uc *slotCommandsImpl) CancelSlot(ctx context.Context, actor shared.Actor, slotID uuid.UUID) (err error) {
	ctx, span := tracer.Start(ctx, "SlotCommands.CancelSlot", trace.WithAttributes(
		attribute.String("slot.id", slotID.String()),
		attribute.String("actor.id", actor.ID.String()),
	))
	defer func() {
		telemetry.Finish(span, err, slot.ErrSlotNotFound, slot.ErrUnauthorized, slot.ErrSlotAlreadyBooked)
	}()

	deleted, err := uc.slots.DeleteAvailable(ctx, slotID, actor.ID)
	if err != nil {
		return shared.TransportFailure(err, "delete slot")
	}
	if deleted {
		uc.logger.InfoContext(ctx, "slot cancelled",
			slog.String("slot_id", slotID.String()),
			slog.String("provider_id", actor.ID.String()),
		)
		return nil
	}

	// Nothing matched: read the row only to explain why.
	current, err := uc.slots.FindByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slot.ErrSlotNotFound) {
			return slot.ErrSlotNotFound
		}
		return shared.TransportFailure(err, "load slot after failed delete")
	}
	if err := current.CheckCancellableBy(actor.ID); err != nil {
		return err
	}
	// Owned and available now, so it changed between the two statements.
	return slot.ErrSlotNoLongerAvailable
}

func (uc *slotCommandsImpl) ClaimSlot(ctx context.Context, actor shared.Actor, slotID uuid.UUID) (_ *slot.Slot, err error) {
	ctx, span := tracer.Start(ctx, "SlotCommands.ClaimSlot", trace.WithAttributes(
		attribute.String("slot.id", slotID.String()),
		attribute.String("actor.id", actor.ID.String()),
	))
	defer func() { telemetry.Finish(span, err, slot.ErrSlotNoLongerAvailable, slot.ErrUnauthorized) }()

	if !actor.IsSeeker() {
		return nil, slot.ErrUnauthorized
	}

	seekerName, err := uc.seekerStamp(ctx, actor)
	if err != nil {
		return nil, err
	}

	booked, err := uc.slots.ClaimAvailable(ctx, slot.Claim{
		SlotID:     slotID,
		SeekerID:   actor.ID,
		SeekerName: seekerName,
		At:         uc.clock.Now(),
	})
	if err != nil {
		if errors.Is(err, slot.ErrSlotNoLongerAvailable) {
			uc.logger.InfoContext(ctx, "slot claim lost",
				slog.String("slot_id", slotID.String()),
				slog.String("seeker_id", actor.ID.String()),
			)
			return nil, slot.ErrSlotNoLongerAvailable
		}
		return nil, shared.TransportFailure(err, "claim slot")
	}

	uc.logger.InfoContext(ctx, "slot booked",
		slog.String("slot_id", slotID.String()),
		slog.String("seeker_id", actor.ID.String()),
	)
	return booked, nil
}

func (uc *slotCommandsImpl) providerStamp(ctx context.Context, actor shared.Actor, in CreateSlotInput) (name, specialty string, err error) {
	name, specialty = in.ProviderName, in.Specialty
	if name != "" && specialty != "" {
		return profile.ProviderDisplayName(name), specialty, nil
	}

	p, err := uc.lookupProfile(ctx, actor.ID)
	if err != nil {
		return "", "", err
	}
	if name == "" {
		name = actor.DisplayName
		if p != nil && !p.DisplayName().IsEmpty() {
			name = p.DisplayName().String()
		}
	}
	if specialty == "" {
		specialty = profile.DefaultSpecialty
		if p != nil {
			specialty = p.Specialty().String()
		}
	}
	return profile.ProviderDisplayName(name), specialty, nil
}

func (uc *slotCommandsImpl) seekerStamp(ctx context.Context, actor shared.Actor) (string, error) {
	p, err := uc.lookupProfile(ctx, actor.ID)
	if err != nil {
		return "", err
	}
	if p != nil && !p.DisplayName().IsEmpty() {
		return profile.SeekerDisplayName(p.DisplayName().String()), nil
	}
	return profile.SeekerDisplayName(actor.DisplayName), nil
}

// lookupProfile returns nil without error when the principal has no profile yet.
func (uc *slotCommandsImpl) lookupProfile(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	p, err := uc.profiles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, nil
		}
		return nil, shared.TransportFailure(err, "load profile")
	}
	return p, nil
}
