package handlers

import (
	"context"
	"net/http"

	"chargepanel/internal/auth"
)

// SessionCookie is the name of the session cookie set on login.
const SessionCookie = "chargepanel_session"

type contextKey string

const sessionKey contextKey = "session"

// SessionFromContext returns the authenticated session, if any.
func SessionFromContext(ctx context.Context) (*auth.Session, bool) {
	session, ok := ctx.Value(sessionKey).(*auth.Session)
	return session, ok
}

// NewAuthMiddleware rejects requests without a valid session cookie and
// injects the session into the request context.
func NewAuthMiddleware(sessions *auth.SessionService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			session, err := sessions.Validate(cookie.Value)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "session invalid or expired")
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, session)
			next(w, r.WithContext(ctx))
		}
	}
}
