// file: internal/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"linkedout/internal/contextutils"
	"linkedout/internal/responseutil"
	"linkedout/internal/services"
	"linkedout/internal/session"

	"go.uber.org/zap"
)

// TokenQueryParam carries the token for clients that cannot set headers,
// such as browser websockets
const TokenQueryParam = "token"

// SessionResolver turns a bearer token into a live session
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*session.Session, error)
}

// AuthMiddleware attaches the caller's session to the request context
type AuthMiddleware struct {
	sessions SessionResolver
	logger   *zap.Logger
}

// NewAuthMiddleware creates the authentication middleware
func NewAuthMiddleware(sessions SessionResolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, logger: logger}
}

// Authenticate resolves the token when one is sent. With required set,
// requests without a valid session are rejected with 401.
func (am *AuthMiddleware) Authenticate(required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := extractToken(r)

			if token != "" {
				sess, err := am.sessions.Resolve(ctx, token)
				if err == nil {
					ctx = session.WithSession(ctx, sess)
					ctx = contextutils.WithUserID(ctx, sess.UserID)
					ctx = contextutils.WithLogger(ctx, GetRequestLogger(ctx).With(zap.String("user_id", sess.UserID)))
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				GetRequestLogger(ctx).Debug("Session token rejected", zap.Error(err))
			}

			if required {
				am.writeAuthError(w, r, "authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth requires a valid session
func (am *AuthMiddleware) RequireAuth() func(http.Handler) http.Handler {
	return am.Authenticate(true)
}

// OptionalAuth attaches a session when a valid token is sent
func (am *AuthMiddleware) OptionalAuth() func(http.Handler) http.Handler {
	return am.Authenticate(false)
}

func (am *AuthMiddleware) writeAuthError(w http.ResponseWriter, r *http.Request, message string) {
	err := services.NewUnauthorizedError(message)
	if builder := responseutil.GetBuilder(r.Context()); builder != nil {
		builder.WriteError(w, r, err)
		return
	}
	http.Error(w, message, http.StatusUnauthorized)
}

// extractToken reads "Authorization: Bearer <token>", then the token query parameter
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get(TokenQueryParam)
}
