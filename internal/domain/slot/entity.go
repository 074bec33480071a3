package slot

import (
	"strings"
	"time"

	"slotbook/internal/pkg/clock"

	"github.com/google/uuid"
)

type Services struct {
	Clock clock.Clock
}

// Slot is one bookable appointment instance. providerName and specialty are
// copied from the provider profile at creation and never re-synced.
type Slot struct {
	id           uuid.UUID
	providerID   uuid.UUID
	providerName string
	specialty    string
	startTime    time.Time
	status       Status
	seekerID     *uuid.UUID
	seekerName   *string
	bookedAt     *time.Time
	createdAt    time.Time
}

// Claim binds a seeker to an available slot. At is both the booking time and
// the instant the slot must still lie in the future.
type Claim struct {
	SlotID     uuid.UUID
	SeekerID   uuid.UUID
	SeekerName string
	At         time.Time
}

func NewSlot(services *Services, providerID uuid.UUID, providerName, specialty string, startTime time.Time) (*Slot, error) {
	if providerID == uuid.Nil {
		return nil, ErrMissingProvider
	}
	now := services.Clock.Now()
	if !startTime.After(now) {
		return nil, ErrInvalidSlotTime
	}
	return &Slot{
		id:           uuid.New(),
		providerID:   providerID,
		providerName: strings.TrimSpace(providerName),
		specialty:    strings.TrimSpace(specialty),
		startTime:    startTime.UTC(),
		status:       StatusAvailable,
		createdAt:    now.UTC(),
	}, nil
}

// ReconstructSlot rebuilds a persisted slot and rejects rows that break the
// status/booking invariant.
func ReconstructSlot(
	id, providerID uuid.UUID,
	providerName, specialty string,
	startTime time.Time,
	status Status,
	seekerID *uuid.UUID,
	seekerName *string,
	bookedAt *time.Time,
	createdAt time.Time,
) (*Slot, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	switch status {
	case StatusBooked:
		if seekerID == nil || bookedAt == nil {
			return nil, ErrInconsistentBooking
		}
	case StatusAvailable:
		if seekerID != nil || seekerName != nil || bookedAt != nil {
			return nil, ErrInconsistentBooking
		}
	}
	return &Slot{
		id:           id,
		providerID:   providerID,
		providerName: providerName,
		specialty:    specialty,
		startTime:    startTime.UTC(),
		status:       status,
		seekerID:     seekerID,
		seekerName:   seekerName,
		bookedAt:     bookedAt,
		createdAt:    createdAt.UTC(),
	}, nil
}

func (s *Slot) ID() uuid.UUID         { return s.id }
func (s *Slot) ProviderID() uuid.UUID { return s.providerID }
func (s *Slot) ProviderName() string  { return s.providerName }
func (s *Slot) Specialty() string     { return s.specialty }
func (s *Slot) StartTime() time.Time  { return s.startTime }
func (s *Slot) Status() Status        { return s.status }
func (s *Slot) SeekerID() *uuid.UUID  { return s.seekerID }
func (s *Slot) SeekerName() *string   { return s.seekerName }
func (s *Slot) BookedAt() *time.Time  { return s.bookedAt }
func (s *Slot) CreatedAt() time.Time  { return s.createdAt }

func (s *Slot) IsAvailable() bool { return s.status == StatusAvailable }
func (s *Slot) IsBooked() bool    { return s.status == StatusBooked }

func (s *Slot) IsBookedBy(seekerID uuid.UUID) bool {
	return s.IsBooked() && s.seekerID != nil && *s.seekerID == seekerID
}

// HasStarted reports whether the slot start is at or before now.
func (s *Slot) HasStarted(now time.Time) bool {
	return !s.startTime.After(now)
}

// CheckCancellableBy explains why a cancel by requester cannot proceed.
// Ownership is checked before status.
func (s *Slot) CheckCancellableBy(requester uuid.UUID) error {
	if s.providerID != requester {
		return ErrUnauthorized
	}
	if !s.IsAvailable() {
		return ErrSlotAlreadyBooked
	}
	return nil
}

// CheckClaimable mirrors the storage-side claim condition. It is used to
// classify failures, never as a substitute for the conditional write.
func (s *Slot) CheckClaimable(now time.Time) error {
	if !s.IsAvailable() || s.HasStarted(now) {
		return ErrSlotNoLongerAvailable
	}
	return nil
}

// VisibleTo: open slots are public, booked slots only to their two parties.
func (s *Slot) VisibleTo(viewerID uuid.UUID) bool {
	if s.IsAvailable() {
		return true
	}
	return s.providerID == viewerID || s.IsBookedBy(viewerID)
}

// Booked returns a copy of s in the booked state. Stores that cannot return
// the updated row use it to build the claim result.
func (s *Slot) Booked(c Claim) *Slot {
	cp := *s
	seekerID := c.SeekerID
	seekerName := c.SeekerName
	at := c.At.UTC()
	cp.status = StatusBooked
	cp.seekerID = &seekerID
	cp.seekerName = &seekerName
	cp.bookedAt = &at
	return &cp
}
