package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"slotbook/internal/domain/slot"
	"slotbook/internal/infra"
	"slotbook/internal/infra/changefeed"
	"slotbook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const slotColumns = `id, provider_id, provider_name, specialty, start_time, status, seeker_id, seeker_name, booked_at, created_at`

type SlotRepository struct {
	db     DBTX
	hub    *changefeed.Hub
	logger *slog.Logger
}

// NewSlotRepository builds the store. hub is fed by a Listener on the
// slot_changes channel.
func NewSlotRepository(db DBTX, hub *changefeed.Hub, logger *slog.Logger) *SlotRepository {
	return &SlotRepository{db: db, hub: hub, logger: logger}
}

func (r *SlotRepository) Insert(ctx context.Context, s *slot.Slot) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO slots (`+slotColumns+`) VALUES ($1, $2, $3, $4, $5, $6, NULL, NULL, NULL, $7)`,
		s.ID(), s.ProviderID(), s.ProviderName(), s.Specialty(), s.StartTime(), s.Status().String(), s.CreatedAt(),
	)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return infra.WrapRepoErr(r.logger, infra.KindDuplicateKey, "slot already exists", err)
		}
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to insert slot", err)
	}
	return nil
}

func (r *SlotRepository) DeleteAvailable(ctx context.Context, id, providerID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM slots WHERE id = $1 AND provider_id = $2 AND status = 'available'`,
		id, providerID,
	)
	if err != nil {
		return false, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to delete slot", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *SlotRepository) ClaimAvailable(ctx context.Context, c slot.Claim) (*slot.Slot, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE slots
		    SET status = 'booked', seeker_id = $2, seeker_name = $3, booked_at = $4
		  WHERE id = $1 AND status = 'available' AND start_time > $4
		RETURNING `+slotColumns,
		c.SlotID, c.SeekerID, c.SeekerName, pgconv.TimeToPgtype(c.At),
	)
	s, err := scanSlot(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindConflict, "slot claim condition failed", slot.ErrSlotNoLongerAvailable)
		}
		return nil, r.wrapScanErr("failed to claim slot", err)
	}
	return s, nil
}

func (r *SlotRepository) Find(ctx context.Context, q slot.Query) ([]*slot.Slot, error) {
	var (
		where []string
		args  []any
	)
	if q.ProviderID != nil {
		args = append(args, *q.ProviderID)
		where = append(where, fmt.Sprintf("provider_id = $%d", len(args)))
	}
	if q.SeekerID != nil {
		args = append(args, *q.SeekerID)
		where = append(where, fmt.Sprintf("seeker_id = $%d", len(args)))
	}
	if q.Status != nil {
		args = append(args, q.Status.String())
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	sql := `SELECT ` + slotColumns + ` FROM slots`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, " AND ")
	}
	sql += ` ORDER BY start_time ASC, id ASC`

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to query slots", err)
	}
	defer rows.Close()

	var out []*slot.Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, r.wrapScanErr("failed to scan slot", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate slots", err)
	}
	return out, nil
}

func (r *SlotRepository) Watch(ctx context.Context) (<-chan slot.Change, error) {
	return r.hub.Subscribe(ctx), nil
}

func (r *SlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*slot.Slot, error) {
	row := r.db.QueryRow(ctx, `SELECT `+slotColumns+` FROM slots WHERE id = $1`, id)
	s, err := scanSlot(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "slot not found", slot.ErrSlotNotFound)
		}
		return nil, r.wrapScanErr("failed to load slot", err)
	}
	return s, nil
}

func (r *SlotRepository) ProviderStats(ctx context.Context, providerID uuid.UUID, now time.Time) (slot.ProviderStats, error) {
	var booked, upcoming, seekers int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE status = 'booked'),
		        COUNT(*) FILTER (WHERE status = 'available' AND start_time > $2),
		        COUNT(DISTINCT seeker_id)
		   FROM slots
		  WHERE provider_id = $1`,
		providerID, now.UTC(),
	).Scan(&booked, &upcoming, &seekers)
	if err != nil {
		return slot.ProviderStats{}, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to count provider slots", err)
	}
	return slot.ProviderStats{
		Booked:            int(booked),
		AvailableUpcoming: int(upcoming),
		DistinctSeekers:   int(seekers),
	}, nil
}

func (r *SlotRepository) wrapScanErr(msg string, err error) error {
	if errors.Is(err, slot.ErrInconsistentBooking) || errors.Is(err, slot.ErrInvalidStatus) {
		return infra.WrapRepoErr(r.logger, infra.KindCorruptRow, msg, err)
	}
	return infra.WrapRepoErr(r.logger, infra.KindDBFailure, msg, err)
}

func scanSlot(row pgx.Row) (*slot.Slot, error) {
	var (
		id, providerID          uuid.UUID
		providerName, specialty string
		startTime, createdAt    pgtype.Timestamptz
		status                  string
		seekerID                pgtype.UUID
		seekerName              pgtype.Text
		bookedAt                pgtype.Timestamptz
	)
	if err := row.Scan(&id, &providerID, &providerName, &specialty, &startTime, &status, &seekerID, &seekerName, &bookedAt, &createdAt); err != nil {
		return nil, err
	}
	st, err := slot.NewStatus(status)
	if err != nil {
		return nil, err
	}
	return slot.ReconstructSlot(id, providerID, providerName, specialty,
		pgconv.TimeFromPgtype(startTime), st,
		pgconv.UUIDPtrFromPgtype(seekerID), pgconv.StringPtrFromPgtype(seekerName), pgconv.TimePtrFromPgtype(bookedAt),
		pgconv.TimeFromPgtype(createdAt))
}
