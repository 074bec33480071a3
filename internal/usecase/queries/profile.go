package queries

import (
	"context"
	"errors"

	"slotbook/internal/domain/profile"
	"slotbook/internal/usecase/shared"
)

type ProfileQueries interface {
	GetMyProfile(ctx context.Context, actor shared.Actor) (*ProfileView, error)
}

type profileQueriesImpl struct {
	profiles shared.ProfileRepository
}

func NewProfileQueries(profiles shared.ProfileRepository) ProfileQueries {
	return &profileQueriesImpl{profiles: profiles}
}

func (q *profileQueriesImpl) GetMyProfile(ctx context.Context, actor shared.Actor) (*ProfileView, error) {
	p, err := q.profiles.FindByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, shared.TransportFailure(err, "find profile")
	}
	return NewProfileView(p), nil
}
