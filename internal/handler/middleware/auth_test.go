//go:build unit

package middleware_test

import (
	"net/http"
	nethttptest "net/http/httptest"
	"testing"
	"time"

	"slotbook/internal/domain/profile"
	"slotbook/internal/handler/middleware"
	"slotbook/internal/pkg/config"
	"slotbook/internal/pkg/cookie"
	"slotbook/internal/pkg/jwt"
	"slotbook/internal/usecase"
	"slotbook/tests/common/authtest"
	"slotbook/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *authtest.JWTHelper) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.NewTestConfig()
	service := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Issuer, time.Hour)
	auth := middleware.NewAuthMiddleware(usecase.NewTokenValidator(service))

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	whoami := func(c *gin.Context) {
		actor, ok := middleware.GetActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		userID, _ := middleware.GetUserID(c)
		c.JSON(http.StatusOK, gin.H{
			"id":      actor.ID.String(),
			"role":    actor.Role.String(),
			"name":    actor.DisplayName,
			"user_id": userID.String(),
		})
	}
	router.GET("/me", auth.RequireAuth(), whoami)
	router.GET("/provider-only", auth.RequireAuth(), auth.RequireRole(profile.RoleProvider), whoami)
	return router, authtest.NewJWTHelper(cfg.JWT)
}

func TestRequireAuth(t *testing.T) {
	router, helper := newAuthRouter(t)

	t.Run("success: bearer token resolves the actor", func(t *testing.T) {
		id := uuid.New()
		token := helper.GenerateToken(t, id, profile.RoleSeeker, "Grace")

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, token)

		var body map[string]string
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, id.String(), body["id"])
		assert.Equal(t, id.String(), body["user_id"])
		assert.Equal(t, "seeker", body["role"])
		assert.Equal(t, "Grace", body["name"])
	})

	t.Run("success: access_token query parameter", func(t *testing.T) {
		id := uuid.New()
		token := helper.GenerateToken(t, id, profile.RoleProvider, "Ada")

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me?access_token="+token, nil, "")

		var body map[string]string
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, id.String(), body["id"])
	})

	t.Run("success: access_token cookie", func(t *testing.T) {
		id := uuid.New()
		token := helper.GenerateToken(t, id, profile.RoleSeeker, "Grace")

		req := nethttptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: cookie.AccessTokenName, Value: token})
		rec := nethttptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var body map[string]string
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, id.String(), body["id"])
	})

	t.Run("error: no token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Access token required")
	})

	t.Run("error: garbage token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, "not-a-jwt")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	t.Run("error: expired token", func(t *testing.T) {
		token := helper.CreateExpiredToken(t, uuid.New(), profile.RoleSeeker)
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, token)
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	t.Run("error: unknown role claim", func(t *testing.T) {
		token := helper.GenerateToken(t, uuid.New(), profile.Role("admin"), "root")
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, token)
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	t.Run("error: token signed with another secret", func(t *testing.T) {
		other := authtest.NewJWTHelper(config.JWTConfig{Secret: "some-other-secret", Duration: "1h"})
		token := other.GenerateToken(t, uuid.New(), profile.RoleSeeker, "Eve")
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, token)
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "")
	})
}

func TestRequireRole(t *testing.T) {
	router, helper := newAuthRouter(t)

	_, providerToken := helper.Provider(t, "Ada")
	rec := httptest.PerformRequest(t, router, http.MethodGet, "/provider-only", nil, providerToken)
	require.Equal(t, http.StatusOK, rec.Code)

	_, seekerToken := helper.Seeker(t, "Grace")
	rec = httptest.PerformRequest(t, router, http.MethodGet, "/provider-only", nil, seekerToken)
	httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "Insufficient permissions")
}
