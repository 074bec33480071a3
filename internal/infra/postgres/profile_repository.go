package postgres

import (
	"context"
	"log/slog"

	"slotbook/internal/domain/profile"
	"slotbook/internal/infra"
	"slotbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ProfileRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewProfileRepository(db DBTX, logger *slog.Logger) *ProfileRepository {
	return &ProfileRepository{db: db, logger: logger}
}

func (r *ProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	var (
		role, displayName, specialty string
		updatedAt                    pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx,
		`SELECT role, display_name, specialty, updated_at FROM profiles WHERE id = $1`, id,
	).Scan(&role, &displayName, &specialty, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "profile not found", profile.ErrProfileNotFound)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to load profile", err)
	}
	return profile.ReconstructProfile(id, profile.Role(role), displayName, specialty, pgconv.TimeFromPgtype(updatedAt)), nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, p *profile.Profile) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO profiles (id, role, display_name, specialty, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE
		    SET role = EXCLUDED.role,
		        display_name = EXCLUDED.display_name,
		        specialty = EXCLUDED.specialty,
		        updated_at = EXCLUDED.updated_at`,
		p.ID(), p.Role().String(), p.DisplayName().String(), p.Specialty().Raw(), p.UpdatedAt().UTC(),
	)
	if err != nil {
		if pgCode(err) == pgCheckViolation {
			return infra.WrapRepoErr(r.logger, infra.KindConflict, "profile violates constraints", err)
		}
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to upsert profile", err)
	}
	return nil
}
