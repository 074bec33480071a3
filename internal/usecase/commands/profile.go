package commands

import (
	"context"
	"log/slog"

	"slotbook/internal/domain/profile"
	"slotbook/internal/pkg/clock"
	"slotbook/internal/usecase/shared"
)

type UpsertProfileInput struct {
	DisplayName string
	Specialty   string
}

type ProfileCommands interface {
	UpsertMyProfile(ctx context.Context, actor shared.Actor, in UpsertProfileInput) (*profile.Profile, error)
}

type profileCommandsImpl struct {
	profiles shared.ProfileRepository
	clock    clock.Clock
	logger   *slog.Logger
}

func NewProfileCommands(profiles shared.ProfileRepository, clk clock.Clock, logger *slog.Logger) ProfileCommands {
	return &profileCommandsImpl{profiles: profiles, clock: clk, logger: logger}
}

// UpsertMyProfile stores the caller's profile. The role always comes from the
// identity token. Slots created earlier keep the name they were stamped with.
func (uc *profileCommandsImpl) UpsertMyProfile(ctx context.Context, actor shared.Actor, in UpsertProfileInput) (*profile.Profile, error) {
	p, err := profile.NewProfile(actor.ID, actor.Role, in.DisplayName, in.Specialty, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.profiles.Upsert(ctx, p); err != nil {
		return nil, shared.TransportFailure(err, "upsert profile")
	}
	uc.logger.InfoContext(ctx, "profile saved", slog.String("profile_id", actor.ID.String()), slog.String("role", actor.Role.String()))
	return p, nil
}
