//go:build unit

package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"slotbook/internal/domain/profile"
	"slotbook/internal/domain/slot"
	"slotbook/internal/infra"
	"slotbook/internal/infra/changefeed"
	"slotbook/internal/infra/db"
	"slotbook/internal/infra/migrations"
	"slotbook/internal/infra/sqlite"
	"slotbook/internal/pkg/config"
	"slotbook/tests/common/builder"
	"slotbook/tests/common/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := config.DBConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "slotbook.db")}
	sqlDB, cleanup, err := db.OpenSQLite(cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	_, err = migrations.Up(context.Background(), sqlDB, config.DriverSQLite, testutil.DiscardLogger())
	require.NoError(t, err)
	return sqlDB
}

func newSlotRepo(t *testing.T) (*sqlite.SlotRepository, *changefeed.Hub) {
	t.Helper()
	hub := changefeed.NewHub(64, testutil.DiscardLogger())
	t.Cleanup(hub.Close)
	return sqlite.NewSlotRepository(openTestDB(t), hub, testutil.DiscardLogger()), hub
}

func claimFor(s *slot.Slot, at time.Time) slot.Claim {
	return slot.Claim{SlotID: s.ID(), SeekerID: uuid.New(), SeekerName: "Grace Hopper", At: at}
}

func TestSlotRepository_InsertAndFindByID(t *testing.T) {
	ctx := context.Background()
	repo, _ := newSlotRepo(t)
	b := builder.NewSlotBuilder()
	s := b.MustBuildDomain()

	require.NoError(t, repo.Insert(ctx, s))

	got, err := repo.FindByID(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, s.ID(), got.ID())
	assert.Equal(t, s.ProviderID(), got.ProviderID())
	assert.Equal(t, "Dr. Ada Lovelace", got.ProviderName())
	assert.Equal(t, "Cardiology", got.Specialty())
	assert.True(t, s.StartTime().Equal(got.StartTime()))
	assert.Equal(t, slot.StatusAvailable, got.Status())
	assert.Nil(t, got.SeekerID())

	err = repo.Insert(ctx, s)
	assert.True(t, infra.IsKind(err, infra.KindDuplicateKey), "got %v", err)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
	assert.ErrorIs(t, err, slot.ErrSlotNotFound)
}

func TestSlotRepository_DeleteAvailable(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name    string
		setup   func(t *testing.T, repo *sqlite.SlotRepository) (id, providerID uuid.UUID)
		deleted bool
	}{
		{
			name: "owner deletes available slot",
			setup: func(t *testing.T, repo *sqlite.SlotRepository) (uuid.UUID, uuid.UUID) {
				s := builder.NewSlotBuilder().MustBuildDomain()
				require.NoError(t, repo.Insert(ctx, s))
				return s.ID(), s.ProviderID()
			},
			deleted: true,
		},
		{
			name: "other provider matches nothing",
			setup: func(t *testing.T, repo *sqlite.SlotRepository) (uuid.UUID, uuid.UUID) {
				s := builder.NewSlotBuilder().MustBuildDomain()
				require.NoError(t, repo.Insert(ctx, s))
				return s.ID(), uuid.New()
			},
		},
		{
			name: "booked slot matches nothing",
			setup: func(t *testing.T, repo *sqlite.SlotRepository) (uuid.UUID, uuid.UUID) {
				b := builder.NewSlotBuilder()
				s := b.MustBuildDomain()
				require.NoError(t, repo.Insert(ctx, s))
				_, err := repo.ClaimAvailable(ctx, claimFor(s, b.Now))
				require.NoError(t, err)
				return s.ID(), s.ProviderID()
			},
		},
		{
			name: "missing slot matches nothing",
			setup: func(t *testing.T, _ *sqlite.SlotRepository) (uuid.UUID, uuid.UUID) {
				return uuid.New(), uuid.New()
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo, _ := newSlotRepo(t)
			id, providerID := tc.setup(t, repo)

			deleted, err := repo.DeleteAvailable(ctx, id, providerID)
			require.NoError(t, err)
			assert.Equal(t, tc.deleted, deleted)

			if tc.deleted {
				_, err = repo.FindByID(ctx, id)
				assert.True(t, infra.IsKind(err, infra.KindNotFound))
			}
		})
	}
}

func TestSlotRepository_ClaimAvailable(t *testing.T) {
	ctx := context.Background()

	t.Run("success: books the slot", func(t *testing.T) {
		repo, _ := newSlotRepo(t)
		b := builder.NewSlotBuilder()
		s := b.MustBuildDomain()
		require.NoError(t, repo.Insert(ctx, s))
		c := claimFor(s, b.Now)

		booked, err := repo.ClaimAvailable(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, slot.StatusBooked, booked.Status())
		require.NotNil(t, booked.SeekerID())
		assert.Equal(t, c.SeekerID, *booked.SeekerID())
		assert.Equal(t, "Grace Hopper", *booked.SeekerName())
		assert.True(t, booked.BookedAt().Equal(b.Now))

		stored, err := repo.FindByID(ctx, s.ID())
		require.NoError(t, err)
		assert.True(t, stored.IsBookedBy(c.SeekerID))
	})

	t.Run("error: second claim loses", func(t *testing.T) {
		repo, _ := newSlotRepo(t)
		b := builder.NewSlotBuilder()
		s := b.MustBuildDomain()
		require.NoError(t, repo.Insert(ctx, s))
		_, err := repo.ClaimAvailable(ctx, claimFor(s, b.Now))
		require.NoError(t, err)

		_, err = repo.ClaimAvailable(ctx, claimFor(s, b.Now))
		assert.True(t, infra.IsKind(err, infra.KindConflict))
		assert.ErrorIs(t, err, slot.ErrSlotNoLongerAvailable)
	})

	t.Run("error: slot already started", func(t *testing.T) {
		repo, _ := newSlotRepo(t)
		b := builder.NewSlotBuilder()
		s := b.MustBuildDomain()
		require.NoError(t, repo.Insert(ctx, s))

		_, err := repo.ClaimAvailable(ctx, claimFor(s, s.StartTime()))
		assert.ErrorIs(t, err, slot.ErrSlotNoLongerAvailable)
	})

	t.Run("error: missing slot", func(t *testing.T) {
		repo, _ := newSlotRepo(t)
		_, err := repo.ClaimAvailable(ctx, slot.Claim{SlotID: uuid.New(), SeekerID: uuid.New(), SeekerName: "x", At: time.Now()})
		assert.ErrorIs(t, err, slot.ErrSlotNoLongerAvailable)
	})
}

func TestSlotRepository_ClaimAvailable_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	ctx := context.Background()
	repo, _ := newSlotRepo(t)
	b := builder.NewSlotBuilder()
	s := b.MustBuildDomain()
	require.NoError(t, repo.Insert(ctx, s))

	const claimers = 16
	var wins, losses atomic.Int32
	var g errgroup.Group
	for i := 0; i < claimers; i++ {
		g.Go(func() error {
			_, err := repo.ClaimAvailable(ctx, claimFor(s, b.Now))
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, slot.ErrSlotNoLongerAvailable):
				losses.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(claimers-1), losses.Load())
}

func TestSlotRepository_Find(t *testing.T) {
	ctx := context.Background()
	repo, _ := newSlotRepo(t)
	providerID := uuid.New()
	base := builder.NewSlotBuilder().WithProvider(providerID)

	late := base.StartingIn(3 * time.Hour).MustBuildDomain()
	early := base.StartingIn(time.Hour).MustBuildDomain()
	booked := base.StartingIn(2 * time.Hour).MustBuildDomain()
	other := builder.NewSlotBuilder().StartingIn(30 * time.Minute).MustBuildDomain()
	for _, s := range []*slot.Slot{late, early, booked, other} {
		require.NoError(t, repo.Insert(ctx, s))
	}
	claim := claimFor(booked, base.Now)
	_, err := repo.ClaimAvailable(ctx, claim)
	require.NoError(t, err)

	available := slot.StatusAvailable
	bookedStatus := slot.StatusBooked

	testCases := []struct {
		name  string
		query slot.Query
		want  []uuid.UUID
	}{
		{name: "provider slots in start order", query: slot.Query{ProviderID: &providerID}, want: []uuid.UUID{early.ID(), booked.ID(), late.ID()}},
		{name: "provider agenda", query: slot.Query{ProviderID: &providerID, Status: &bookedStatus}, want: []uuid.UUID{booked.ID()}},
		{name: "all available", query: slot.Query{Status: &available}, want: []uuid.UUID{other.ID(), early.ID(), late.ID()}},
		{name: "seeker bookings", query: slot.Query{SeekerID: &claim.SeekerID, Status: &bookedStatus}, want: []uuid.UUID{booked.ID()}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.Find(ctx, tc.query)
			require.NoError(t, err)
			ids := make([]uuid.UUID, len(got))
			for i, s := range got {
				ids[i] = s.ID()
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestSlotRepository_WatchPublishesWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo, _ := newSlotRepo(t)

	changes, err := repo.Watch(ctx)
	require.NoError(t, err)

	b := builder.NewSlotBuilder()
	s := b.MustBuildDomain()
	require.NoError(t, repo.Insert(ctx, s))
	c := claimFor(s, b.Now)
	_, err = repo.ClaimAvailable(ctx, c)
	require.NoError(t, err)
	_, err = repo.ClaimAvailable(ctx, c)
	require.Error(t, err)

	insert := <-changes
	assert.Equal(t, slot.OpInsert, insert.Op)
	assert.Equal(t, s.ID(), insert.After.ID)

	update := <-changes
	assert.Equal(t, slot.OpUpdate, update.Op)
	assert.Equal(t, slot.StatusAvailable, update.Before.Status)
	assert.Equal(t, slot.StatusBooked, update.After.Status)
	assert.Equal(t, c.SeekerID, *update.After.SeekerID)

	select {
	case extra := <-changes:
		t.Fatalf("failed claim must not publish, got %s", extra.Op)
	default:
	}
}

func TestSlotRepository_ProviderStats(t *testing.T) {
	ctx := context.Background()
	repo, _ := newSlotRepo(t)
	providerID := uuid.New()
	b := builder.NewSlotBuilder().WithProvider(providerID)

	seekerID := uuid.New()
	var slots []*slot.Slot
	for i := 1; i <= 4; i++ {
		s := b.StartingIn(time.Duration(i) * time.Hour).MustBuildDomain()
		require.NoError(t, repo.Insert(ctx, s))
		slots = append(slots, s)
	}
	for _, s := range slots[:2] {
		_, err := repo.ClaimAvailable(ctx, slot.Claim{SlotID: s.ID(), SeekerID: seekerID, SeekerName: "Grace", At: b.Now})
		require.NoError(t, err)
	}

	stats, err := repo.ProviderStats(ctx, providerID, b.Now)
	require.NoError(t, err)
	assert.Equal(t, slot.ProviderStats{Booked: 2, AvailableUpcoming: 2, DistinctSeekers: 1}, stats)

	// after the third slot starts only the last one is upcoming
	stats, err = repo.ProviderStats(ctx, providerID, b.Now.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.AvailableUpcoming)
}

func TestProfileRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewProfileRepository(openTestDB(t), testutil.DiscardLogger())
	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	_, err := repo.FindByID(ctx, id)
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)

	p, err := profile.NewProfile(id, profile.RoleProvider, "Ada", "Cardiology", now)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, p))

	p, err = profile.NewProfile(id, profile.RoleProvider, "Ada Lovelace", "Neurology", now.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, p))

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.DisplayName().String())
	assert.Equal(t, "Neurology", got.Specialty().String())
	assert.True(t, got.UpdatedAt().Equal(now.Add(time.Minute)))
}
