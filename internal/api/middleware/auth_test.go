package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"collection-crm/internal/config"
	"collection-crm/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func principalEcho(t *testing.T, captured *user.Principal) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		require.True(t, ok, "principal missing from request context")
		*captured = p
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	cfg := config.AuthConfig{Enabled: true, JWTSecret: testSecret}
	mw := AuthMiddleware(cfg, testLogger)

	t.Run("a valid token resolves the principal", func(t *testing.T) {
		userID := uuid.New()
		token := signToken(t, jwt.MapClaims{
			"uid":  userID.String(),
			"role": "manager",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})

		var captured user.Principal
		handler := mw(principalEcho(t, &captured))

		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, captured.UserID)
		assert.Equal(t, user.RoleManager, captured.Role)
	})

	t.Run("a missing header is rejected", func(t *testing.T) {
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("an expired token is rejected", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"uid":  uuid.New().String(),
			"role": "agent",
			"exp":  time.Now().Add(-time.Hour).Unix(),
		})

		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("a token with an unknown role is rejected", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"uid":  uuid.New().String(),
			"role": "superuser",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})

		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("a token without a usable uid is rejected", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"uid":  "not-a-uuid",
			"role": "agent",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})

		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("a malformed header is rejected", func(t *testing.T) {
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("disabled auth runs as an anonymous admin", func(t *testing.T) {
		disabled := AuthMiddleware(config.AuthConfig{Enabled: false}, testLogger)

		var captured user.Principal
		handler := disabled(principalEcho(t, &captured))

		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, user.RoleAdmin, captured.Role)
		assert.Equal(t, uuid.Nil, captured.UserID)
	})
}

func TestRequireRoles(t *testing.T) {
	mw := RequireRoles(testLogger, user.RoleAdmin, user.RoleManager)
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allows a listed role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/loans", nil)
		req = req.WithContext(WithPrincipal(req.Context(), user.Principal{UserID: uuid.New(), Role: user.RoleManager}))
		rec := httptest.NewRecorder()
		mw(okHandler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("forbids an unlisted role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/loans", nil)
		req = req.WithContext(WithPrincipal(req.Context(), user.Principal{UserID: uuid.New(), Role: user.RoleAgent}))
		rec := httptest.NewRecorder()
		mw(okHandler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("rejects a request with no principal", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/loans", nil)
		rec := httptest.NewRecorder()
		mw(okHandler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
