//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"slotbook/internal/domain/profile"
	"slotbook/internal/pkg/config"
	"slotbook/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role profile.Role, name string) string {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	service := jwt.NewService(h.cfg.Secret, h.cfg.Issuer, duration)
	token, err := service.GenerateToken(userID, role.String(), name)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role profile.Role) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, h.cfg.Issuer, time.Millisecond)
	token, err := service.GenerateToken(userID, role.String(), "")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}

// Provider returns a fresh provider id and token.
func (h *JWTHelper) Provider(t *testing.T, name string) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	return id, h.GenerateToken(t, id, profile.RoleProvider, name)
}

// Seeker returns a fresh seeker id and token.
func (h *JWTHelper) Seeker(t *testing.T, name string) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	return id, h.GenerateToken(t, id, profile.RoleSeeker, name)
}
