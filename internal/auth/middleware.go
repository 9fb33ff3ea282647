package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/pollenow/pollenow/internal/apperr"
	"github.com/pollenow/pollenow/internal/httputil"
	"github.com/pollenow/pollenow/internal/logging"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const ClaimsContextKey ContextKey = "auth_claims"

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
}

func NewMiddleware(tokenService TokenService) *Middleware {
	return &Middleware{tokenService: tokenService}
}

// RequireAuth verifies the Bearer access token and stores its claims in the
// request context. The user directory is never consulted.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			httputil.RespondAppError(w, r, apperr.MissingToken("No token provided"))
			return
		}

		claims, err := m.tokenService.Verify(token)
		if err != nil {
			code := httputil.CodeInvalidToken
			if errors.Is(err, ErrExpiredToken) {
				code = httputil.CodeTokenExpired
			}
			httputil.RespondAppError(w, r, apperr.InvalidToken("Invalid token").WithCode(code))
			return
		}

		ctx := WithClaims(r.Context(), &claims.Claims)
		logger := logging.GetLoggerFromContext(ctx).WithFields(map[string]any{"user_id": claims.UserID})
		ctx = logging.WithContext(ctx, logger)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithClaims returns a context carrying the authenticated user's claims.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, c)
}

// ClaimsFromContext extracts the authenticated user's claims.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return c, ok && c != nil
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	return c.UserID, true
}
