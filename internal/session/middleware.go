package session

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"cantinho/common/httputil"
	"cantinho/internal/remote"
)

type contextKey string

// UserKey is the context key for the signed-in user
const UserKey contextKey = "user"

// CookieName holds the access token for browsers that prefer a cookie over
// the Authorization header.
const CookieName = "cantinho_token"

// RequireAuth answers 401 unless the request presents the session's access
// token, either as a Bearer header or in CookieName.
func RequireAuth(m *Manager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := m.Authorize(r.Context(), requestToken(r))
			if err != nil {
				logger.WarnContext(r.Context(), "unauthenticated request", "path", r.URL.Path, "error", err)
				httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestToken prefers the Authorization header; a malformed header is not
// rescued by the cookie.
func requestToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return ""
		}
		return strings.TrimSpace(token)
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// UserFrom extracts the signed-in user from context
func UserFrom(ctx context.Context) (*remote.User, bool) {
	user, ok := ctx.Value(UserKey).(*remote.User)
	return user, ok && user != nil
}
