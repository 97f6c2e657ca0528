package handlers

import (
	"net/http"

	"chargepanel/internal/auth"
)

// NewLogoutHandler handles POST /api/logout.
func NewLogoutHandler(sessions *auth.SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if session, ok := SessionFromContext(r.Context()); ok {
			sessions.Logout(session.ID)
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Logout successful",
		})
	}
}
