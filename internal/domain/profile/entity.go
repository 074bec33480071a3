package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile is owned by the identity side of the system; slots only read it
// to stamp display fields at write time.
type Profile struct {
	id          uuid.UUID
	role        Role
	displayName DisplayName
	specialty   Specialty
	updatedAt   time.Time
}

func NewProfile(id uuid.UUID, role Role, displayName, specialty string, now time.Time) (*Profile, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	name, err := NewDisplayName(displayName)
	if err != nil {
		return nil, err
	}
	spec, err := NewSpecialty(specialty)
	if err != nil {
		return nil, err
	}
	if role != RoleProvider && spec.Raw() != "" {
		return nil, ErrSpecialtyNotAllowed
	}
	return &Profile{
		id:          id,
		role:        role,
		displayName: name,
		specialty:   spec,
		updatedAt:   now,
	}, nil
}

func ReconstructProfile(id uuid.UUID, role Role, displayName, specialty string, updatedAt time.Time) *Profile {
	return &Profile{
		id:          id,
		role:        role,
		displayName: DisplayName{value: displayName},
		specialty:   Specialty{value: specialty},
		updatedAt:   updatedAt,
	}
}

func (p *Profile) ID() uuid.UUID            { return p.id }
func (p *Profile) Role() Role               { return p.role }
func (p *Profile) DisplayName() DisplayName { return p.displayName }
func (p *Profile) Specialty() Specialty     { return p.specialty }
func (p *Profile) UpdatedAt() time.Time     { return p.updatedAt }

// StampedName is the denormalized name copied onto slots or bookings.
func (p *Profile) StampedName() string {
	if p.role == RoleProvider {
		return ProviderDisplayName(p.displayName.String())
	}
	return SeekerDisplayName(p.displayName.String())
}
