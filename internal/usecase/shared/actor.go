package shared

import (
	"slotbook/internal/domain/profile"

	"github.com/google/uuid"
)

// Actor is the identity tuple supplied by the identity provider on every call.
type Actor struct {
	ID          uuid.UUID
	Role        profile.Role
	DisplayName string
}

func (a Actor) IsProvider() bool { return a.Role == profile.RoleProvider }
func (a Actor) IsSeeker() bool   { return a.Role == profile.RoleSeeker }
