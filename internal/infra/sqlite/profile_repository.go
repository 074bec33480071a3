package sqlite

import (
	"context"
	"database/sql"
	"log/slog"

	"slotbook/internal/domain/profile"
	"slotbook/internal/infra"
	"slotbook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ProfileRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewProfileRepository(db *sql.DB, logger *slog.Logger) *ProfileRepository {
	return &ProfileRepository{db: db, logger: logger}
}

func (r *ProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	var (
		role, displayName, specialty string
		updatedAt                    int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT role, display_name, specialty, updated_at FROM profiles WHERE id = ?`, id.String(),
	).Scan(&role, &displayName, &specialty, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "profile not found", profile.ErrProfileNotFound)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to load profile", err)
	}
	return profile.ReconstructProfile(id, profile.Role(role), displayName, specialty, fromMicros(updatedAt)), nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, p *profile.Profile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, role, display_name, specialty, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE
		    SET role = excluded.role,
		        display_name = excluded.display_name,
		        specialty = excluded.specialty,
		        updated_at = excluded.updated_at`,
		p.ID().String(), p.Role().String(), p.DisplayName().String(), p.Specialty().Raw(), toMicros(p.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to upsert profile", err)
	}
	return nil
}
