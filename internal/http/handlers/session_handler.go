package handlers

import (
	"net/http"
	"time"

	"chargepanel/internal/auth"
)

// NewSessionHandler handles GET /api/session. The route is unauthenticated;
// it reports whether the caller holds a live session.
func NewSessionHandler(sessions *auth.SessionService) http.HandlerFunc {
	type response struct {
		IsLoggedIn bool       `json:"isLoggedIn"`
		Username   string     `json:"username,omitempty"`
		LoginTime  *time.Time `json:"loginTime,omitempty"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			writeJSON(w, http.StatusOK, response{IsLoggedIn: false})
			return
		}

		session, err := sessions.Validate(cookie.Value)
		if err != nil {
			writeJSON(w, http.StatusOK, response{IsLoggedIn: false})
			return
		}

		writeJSON(w, http.StatusOK, response{
			IsLoggedIn: true,
			Username:   session.Username,
			LoginTime:  &session.LoginTime,
		})
	}
}
