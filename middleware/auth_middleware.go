package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AryanKumar02/EstateLink/internal/observability"
	"github.com/AryanKumar02/EstateLink/models"
	"github.com/AryanKumar02/EstateLink/repositories"
	"github.com/AryanKumar02/EstateLink/utils"
)

// Claims is the verified token payload handed back by a TokenVerifier.
type Claims struct {
	UserID    uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenVerifier checks a raw bearer token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// UserSource loads users during authentication. A lookup that finds no user
// must return an error matching repositories.ErrNotFound.
type UserSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AuthMiddleware provides authentication and role-based access middleware
type AuthMiddleware struct {
	verifier TokenVerifier
	users    UserSource
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware. The metrics collector is
// optional; pass nil to disable auth metrics.
func NewAuthMiddleware(verifier TokenVerifier, users UserSource, metrics *observability.Metrics, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		users:    users,
		metrics:  metrics,
		logger:   logger,
	}
}

// authTokenCookieName is the cookie used as a fallback when no Authorization
// header is present.
const authTokenCookieName = "token"

// Protect is a middleware that only admits requests carrying a valid token
// for a user that still exists. The user is loaded fresh on every request,
// never cached, and attached to the request context for downstream handlers.
func (m *AuthMiddleware) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		token := extractToken(r)
		if token == "" {
			m.logger.Warn("missing token",
				zap.String("request_id", requestID))
			m.recordAuthFailure(observability.AuthFailureUnauthenticated)
			_ = utils.WriteUnauthorized(w, "You are not logged in!")
			return
		}

		claims, err := m.verifier.Verify(ctx, token)
		if err != nil {
			m.logger.Warn("token verification failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			m.recordAuthFailure(observability.AuthFailureInvalidToken)
			_ = utils.WriteUnauthorized(w, "Invalid token.")
			return
		}

		user, err := m.users.GetByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				m.logger.Warn("token user no longer exists",
					zap.String("request_id", requestID),
					zap.String("user_id", claims.UserID.String()))
				m.recordAuthFailure(observability.AuthFailurePrincipalGone)
				_ = utils.WriteUnauthorized(w, "User no longer exists.")
				return
			}

			m.logger.Error("user lookup failed",
				zap.String("request_id", requestID),
				zap.String("user_id", claims.UserID.String()),
				zap.Error(err))
			_ = utils.WriteInternalServerError(w, "")
			return
		}

		ctx = WithUser(ctx, user)

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("user_id", user.ID.String()),
			zap.String("role", string(user.Role)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RestrictTo returns a middleware that only admits users whose role is in the
// given set. It must run after Protect; a request with no user on its context
// is rejected as unauthenticated rather than forbidden.
func (m *AuthMiddleware) RestrictTo(roles ...models.UserRole) func(http.Handler) http.Handler {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			user := GetUserFromContext(ctx)
			if user == nil {
				m.logger.Error("user not found in context",
					zap.String("request_id", requestID))
				m.recordAuthFailure(observability.AuthFailureUnauthenticated)
				_ = utils.WriteUnauthorized(w, "You are not logged in!")
				return
			}

			if _, ok := allowed[user.Role]; !ok {
				m.logger.Warn("insufficient permissions",
					zap.String("request_id", requestID),
					zap.String("user_id", user.ID.String()),
					zap.String("role", string(user.Role)))
				m.recordAuthFailure(observability.AuthFailureForbidden)
				_ = utils.WriteForbidden(w, "You do not have permission.")
				return
			}

			m.logger.Debug("role check passed",
				zap.String("request_id", requestID),
				zap.String("role", string(user.Role)))

			next.ServeHTTP(w, r)
		})
	}
}

func (m *AuthMiddleware) recordAuthFailure(reason string) {
	if m.metrics != nil {
		m.metrics.RecordAuthFailure(reason)
	}
}

// extractToken extracts the JWT from the Authorization header ("Bearer TOKEN")
// or the token cookie. The header takes precedence when both are present.
func extractToken(r *http.Request) string {
	if token := extractBearerToken(r); token != "" {
		return token
	}
	if cookie, err := r.Cookie(authTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	// Check if it starts with "Bearer "
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
