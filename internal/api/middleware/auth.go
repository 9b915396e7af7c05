package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"collection-crm/internal/config"
	"collection-crm/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const principalKey contextKey = "principal"

// PrincipalFromContext returns the authenticated caller placed there by
// AuthMiddleware. The second return is false on routes that skipped auth.
func PrincipalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalKey).(user.Principal)
	return p, ok
}

// WithPrincipal is exported for handler tests.
func WithPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// AuthMiddleware validates the bearer token and resolves the caller into a
// Principal on the request context. With auth disabled (local development
// only) every request runs as an anonymous admin.
func AuthMiddleware(cfg config.AuthConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := WithPrincipal(r.Context(), user.Principal{Role: user.RoleAdmin})
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := resolvePrincipal(r, cfg.JWTSecret, logger)
			if !ok {
				http.Error(w, `{"error":{"message":"Unauthorized"}}`, http.StatusUnauthorized)
				return
			}
			ctx := WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolvePrincipal(r *http.Request, secret string, logger *slog.Logger) (user.Principal, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		logger.Warn("AuthMiddleware: Missing Authorization header")
		return user.Principal{}, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		logger.Warn("AuthMiddleware: Invalid Authorization header format")
		return user.Principal{}, false
	}
	tokenString := parts[1]

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			logger.Warn("AuthMiddleware: Unexpected signing method")
			return nil, http.ErrAbortHandler
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		logger.Warn("AuthMiddleware: Invalid token", "error", err)
		return user.Principal{}, false
	}

	uidStr, _ := claims["uid"].(string)
	roleStr, _ := claims["role"].(string)
	uid, err := uuid.Parse(uidStr)
	if err != nil {
		logger.Warn("AuthMiddleware: Token carries no usable uid claim", "error", err)
		return user.Principal{}, false
	}
	role := user.Role(roleStr)
	if !role.Valid() {
		logger.Warn("AuthMiddleware: Token carries an unknown role claim", "role", roleStr)
		return user.Principal{}, false
	}

	return user.Principal{UserID: uid, Role: role}, true
}

// RequireRoles rejects callers whose role is not in the allow list. It must
// run after AuthMiddleware; a request without a principal is rejected too.
func RequireRoles(logger *slog.Logger, roles ...user.Role) func(http.Handler) http.Handler {
	allowed := make(map[user.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				http.Error(w, `{"error":{"message":"Unauthorized"}}`, http.StatusUnauthorized)
				return
			}
			if _, ok := allowed[principal.Role]; !ok {
				logger.Warn("RequireRoles: caller role not permitted", "role", string(principal.Role), "path", r.URL.Path)
				http.Error(w, `{"error":{"message":"Forbidden"}}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
