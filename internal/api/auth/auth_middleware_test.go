package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wefit-app/wefit-backend/config"
	"github.com/wefit-app/wefit-backend/internal/types"
)

func issueTestToken(t *testing.T, cfg *config.Config, userID int64) string {
	t.Helper()
	service := NewAuthService(nil, cfg, nil, slog.Default())
	token, err := service.GenerateToken(context.Background(), &types.UserAuth{ID: userID})
	require.NoError(t, err)
	return token
}

func TestAuthenticate(t *testing.T) {
	cfg := testConfig()
	logger := slog.Default()
	middleware := Authenticate(logger, cfg.JWT)

	var gotUserID int64
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, gotOK = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := middleware(next)

	t.Run("ValidToken", func(t *testing.T) {
		token := issueTestToken(t, cfg, 42)

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, gotOK)
		assert.Equal(t, int64(42), gotUserID)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("MalformedToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Malformed token")
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		expiredCfg := testConfig()
		expiredCfg.JWT.AccessTokenTTL = -time.Minute
		token := issueTestToken(t, expiredCfg, 42)

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token has expired")
	})

	t.Run("WrongSecret", func(t *testing.T) {
		otherCfg := testConfig()
		otherCfg.JWT.SecretKey = "some-other-secret"
		token := issueTestToken(t, otherCfg, 42)

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("WrongIssuer", func(t *testing.T) {
		otherCfg := testConfig()
		otherCfg.JWT.Issuer = "someone-else"
		token := issueTestToken(t, otherCfg, 42)

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid token issuer")
	})
}
