//go:build unit

package slot_test

import (
	"testing"
	"time"

	"slotbook/internal/domain/slot"
	"slotbook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.SlotBuilder)
	errIs  error
}

func TestNewSlot(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		b := builder.NewSlotBuilder()
		actual, err := b.BuildDomain()
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, b.ProviderID, actual.ProviderID())
		assert.Equal(t, "Dr. Ada Lovelace", actual.ProviderName())
		assert.Equal(t, "Cardiology", actual.Specialty())
		assert.Equal(t, slot.StatusAvailable, actual.Status())
		assert.True(t, actual.StartTime().Equal(b.StartTime))
		assert.True(t, actual.CreatedAt().Equal(b.Now))
		assert.Nil(t, actual.SeekerID())
		assert.Nil(t, actual.SeekerName())
		assert.Nil(t, actual.BookedAt())
	})

	t.Run("start time validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "one minute in the future",
				mutate: func(b *builder.SlotBuilder) { b.StartingIn(time.Minute) },
			},
			{
				name:   "exactly now",
				mutate: func(b *builder.SlotBuilder) { b.StartingIn(0) },
				errIs:  slot.ErrInvalidSlotTime,
			},
			{
				name:   "in the past",
				mutate: func(b *builder.SlotBuilder) { b.StartingIn(-time.Hour) },
				errIs:  slot.ErrInvalidSlotTime,
			},
		})
	})

	t.Run("provider is required", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "nil provider id",
				mutate: func(b *builder.SlotBuilder) { b.WithProvider(uuid.Nil) },
				errIs:  slot.ErrMissingProvider,
			},
		})
	})

	t.Run("start time is normalized to UTC", func(t *testing.T) {
		b := builder.NewSlotBuilder()
		tokyo := time.FixedZone("JST", 9*60*60)
		b.WithStartTime(b.Now.Add(2 * time.Hour).In(tokyo))

		actual, err := b.BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, time.UTC, actual.StartTime().Location())
	})
}

func TestReconstructSlot(t *testing.T) {
	id, provider, seeker := uuid.New(), uuid.New(), uuid.New()
	start := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	bookedAt := start.Add(-time.Hour)
	name := "Grace"

	tests := []struct {
		name       string
		status     slot.Status
		seekerID   *uuid.UUID
		seekerName *string
		bookedAt   *time.Time
		errIs      error
	}{
		{name: "available without booking fields", status: slot.StatusAvailable},
		{name: "booked with booking fields", status: slot.StatusBooked, seekerID: &seeker, seekerName: &name, bookedAt: &bookedAt},
		{name: "booked without seeker", status: slot.StatusBooked, bookedAt: &bookedAt, errIs: slot.ErrInconsistentBooking},
		{name: "booked without booked_at", status: slot.StatusBooked, seekerID: &seeker, errIs: slot.ErrInconsistentBooking},
		{name: "available with seeker", status: slot.StatusAvailable, seekerID: &seeker, errIs: slot.ErrInconsistentBooking},
		{name: "available with seeker name only", status: slot.StatusAvailable, seekerName: &name, errIs: slot.ErrInconsistentBooking},
		{name: "unknown status", status: slot.Status("pending"), errIs: slot.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := slot.ReconstructSlot(id, provider, "Dr. X", "General", start, tt.status, tt.seekerID, tt.seekerName, tt.bookedAt, start.Add(-48*time.Hour))
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, s.Status())
		})
	}
}

func TestSlotRules(t *testing.T) {
	b := builder.NewSlotBuilder()
	owner := b.ProviderID
	stranger := uuid.New()
	seeker := uuid.New()

	t.Run("CheckCancellableBy checks ownership before status", func(t *testing.T) {
		available := b.MustBuildDomain()
		booked := b.BuildBooked(seeker, "Grace")

		assert.NoError(t, available.CheckCancellableBy(owner))
		assert.ErrorIs(t, available.CheckCancellableBy(stranger), slot.ErrUnauthorized)
		assert.ErrorIs(t, booked.CheckCancellableBy(owner), slot.ErrSlotAlreadyBooked)
		assert.ErrorIs(t, booked.CheckCancellableBy(stranger), slot.ErrUnauthorized)
	})

	t.Run("CheckClaimable", func(t *testing.T) {
		available := b.MustBuildDomain()
		booked := b.BuildBooked(seeker, "Grace")

		assert.NoError(t, available.CheckClaimable(b.Now))
		assert.ErrorIs(t, available.CheckClaimable(b.StartTime), slot.ErrSlotNoLongerAvailable)
		assert.ErrorIs(t, booked.CheckClaimable(b.Now), slot.ErrSlotNoLongerAvailable)
	})

	t.Run("VisibleTo", func(t *testing.T) {
		available := b.MustBuildDomain()
		booked := b.BuildBooked(seeker, "Grace")

		assert.True(t, available.VisibleTo(stranger))
		assert.True(t, booked.VisibleTo(owner))
		assert.True(t, booked.VisibleTo(seeker))
		assert.False(t, booked.VisibleTo(stranger))
	})

	t.Run("Booked returns a copy", func(t *testing.T) {
		original := b.MustBuildDomain()
		at := b.Now.Add(time.Minute)

		booked := original.Booked(slot.Claim{SlotID: original.ID(), SeekerID: seeker, SeekerName: "Grace", At: at})

		assert.True(t, original.IsAvailable())
		assert.True(t, booked.IsBookedBy(seeker))
		assert.False(t, booked.IsBookedBy(stranger))
		require.NotNil(t, booked.SeekerName())
		assert.Equal(t, "Grace", *booked.SeekerName())
		require.NotNil(t, booked.BookedAt())
		assert.True(t, booked.BookedAt().Equal(at))
		assert.Equal(t, original.ID(), booked.ID())
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewSlotBuilder()
			if tc.mutate != nil {
				tc.mutate(b)
			}
			actual, err := b.BuildDomain()
			if tc.errIs != nil {
				require.ErrorIs(t, err, tc.errIs)
				assert.Nil(t, actual)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, actual)
		})
	}
}
