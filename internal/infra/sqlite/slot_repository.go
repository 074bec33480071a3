package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"slotbook/internal/domain/slot"
	"slotbook/internal/infra"
	"slotbook/internal/infra/changefeed"
	"slotbook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const slotColumns = `id, provider_id, provider_name, specialty, start_time, status, seeker_id, seeker_name, booked_at, created_at`

// SlotRepository publishes a change on the hub after every successful write.
// Changes are only visible within this process.
type SlotRepository struct {
	db     *sql.DB
	hub    *changefeed.Hub
	logger *slog.Logger
}

func NewSlotRepository(db *sql.DB, hub *changefeed.Hub, logger *slog.Logger) *SlotRepository {
	return &SlotRepository{db: db, hub: hub, logger: logger}
}

func (r *SlotRepository) Insert(ctx context.Context, s *slot.Slot) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO slots (`+slotColumns+`) VALUES (?, ?, ?, ?, ?, ?, NULL, NULL, NULL, ?)`,
		s.ID().String(), s.ProviderID().String(), s.ProviderName(), s.Specialty(),
		toMicros(s.StartTime()), s.Status().String(), toMicros(s.CreatedAt()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr(r.logger, infra.KindDuplicateKey, "slot already exists", err)
		}
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to insert slot", err)
	}
	r.hub.Publish(slot.Inserted(s))
	return nil
}

func (r *SlotRepository) DeleteAvailable(ctx context.Context, id, providerID uuid.UUID) (bool, error) {
	row := r.db.QueryRowContext(ctx,
		`DELETE FROM slots WHERE id = ? AND provider_id = ? AND status = 'available' RETURNING `+slotColumns,
		id.String(), providerID.String(),
	)
	deleted, err := scanSlot(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return false, nil
		}
		return false, r.wrapScanErr("failed to delete slot", err)
	}
	r.hub.Publish(slot.Deleted(deleted))
	return true, nil
}

func (r *SlotRepository) ClaimAvailable(ctx context.Context, c slot.Claim) (*slot.Slot, error) {
	at := toMicros(c.At)
	row := r.db.QueryRowContext(ctx,
		`UPDATE slots
		    SET status = 'booked', seeker_id = ?, seeker_name = ?, booked_at = ?
		  WHERE id = ? AND status = 'available' AND start_time > ?
		RETURNING `+slotColumns,
		c.SeekerID.String(), c.SeekerName, at, c.SlotID.String(), at,
	)
	booked, err := scanSlot(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindConflict, "slot claim condition failed", slot.ErrSlotNoLongerAvailable)
		}
		return nil, r.wrapScanErr("failed to claim slot", err)
	}
	before, _ := slot.ReconstructSlot(booked.ID(), booked.ProviderID(), booked.ProviderName(), booked.Specialty(),
		booked.StartTime(), slot.StatusAvailable, nil, nil, nil, booked.CreatedAt())
	r.hub.Publish(slot.Updated(before, booked))
	return booked, nil
}

func (r *SlotRepository) Find(ctx context.Context, q slot.Query) ([]*slot.Slot, error) {
	var (
		where []string
		args  []any
	)
	if q.ProviderID != nil {
		where = append(where, "provider_id = ?")
		args = append(args, q.ProviderID.String())
	}
	if q.SeekerID != nil {
		where = append(where, "seeker_id = ?")
		args = append(args, q.SeekerID.String())
	}
	if q.Status != nil {
		where = append(where, "status = ?")
		args = append(args, q.Status.String())
	}

	query := `SELECT ` + slotColumns + ` FROM slots`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY start_time ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
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
	row := r.db.QueryRowContext(ctx, `SELECT `+slotColumns+` FROM slots WHERE id = ?`, id.String())
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
	var stats slot.ProviderStats
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN status = 'booked' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = 'available' AND start_time > ? THEN 1 ELSE 0 END), 0),
		        COUNT(DISTINCT seeker_id)
		   FROM slots
		  WHERE provider_id = ?`,
		toMicros(now), providerID.String(),
	).Scan(&stats.Booked, &stats.AvailableUpcoming, &stats.DistinctSeekers)
	if err != nil {
		return slot.ProviderStats{}, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to count provider slots", err)
	}
	return stats, nil
}

func (r *SlotRepository) wrapScanErr(msg string, err error) error {
	if errors.Is(err, slot.ErrInconsistentBooking) || errors.Is(err, slot.ErrInvalidStatus) {
		return infra.WrapRepoErr(r.logger, infra.KindCorruptRow, msg, err)
	}
	return infra.WrapRepoErr(r.logger, infra.KindDBFailure, msg, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlot(row rowScanner) (*slot.Slot, error) {
	var (
		id, providerID          string
		providerName, specialty string
		startTime, createdAt    int64
		status                  string
		seekerID, seekerName    sql.NullString
		bookedAt                sql.NullInt64
	)
	if err := row.Scan(&id, &providerID, &providerName, &specialty, &startTime, &status, &seekerID, &seekerName, &bookedAt, &createdAt); err != nil {
		return nil, err
	}
	slotID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	owner, err := uuid.Parse(providerID)
	if err != nil {
		return nil, err
	}
	seeker, err := nullUUID(seekerID)
	if err != nil {
		return nil, err
	}
	st, err := slot.NewStatus(status)
	if err != nil {
		return nil, err
	}
	return slot.ReconstructSlot(slotID, owner, providerName, specialty, fromMicros(startTime), st,
		seeker, nullString(seekerName), nullMicros(bookedAt), fromMicros(createdAt))
}
