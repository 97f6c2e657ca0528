package httpserver

import "net/http"

// Middleware wraps a handler.
type Middleware func(http.HandlerFunc) http.HandlerFunc

// Routes groups the panel handlers. Auth and Login middleware are applied by
// the router so handlers stay plain.
type Routes struct {
	Login          http.HandlerFunc
	Logout         http.HandlerFunc
	Session        http.HandlerFunc
	StationsList   http.HandlerFunc
	StationsCreate http.HandlerFunc
	StationsDelete http.HandlerFunc
	StationsToggle http.HandlerFunc
	SettingsGet    http.HandlerFunc
	SettingsSet    http.HandlerFunc
	RelayWS        http.HandlerFunc
	Health         http.HandlerFunc

	RequireAuth Middleware
	LoginLimit  Middleware
}

// NewRouter registers endpoints.
func NewRouter(routes Routes) http.Handler {
	auth := routes.RequireAuth
	if auth == nil {
		auth = func(h http.HandlerFunc) http.HandlerFunc { return h }
	}
	limit := routes.LoginLimit
	if limit == nil {
		limit = func(h http.HandlerFunc) http.HandlerFunc { return h }
	}

	mux := http.NewServeMux()
	if routes.Login != nil {
		mux.Handle("POST /api/login", limit(routes.Login))
	}
	if routes.Logout != nil {
		mux.Handle("POST /api/logout", auth(routes.Logout))
	}
	if routes.Session != nil {
		mux.Handle("GET /api/session", routes.Session)
	}
	if routes.StationsList != nil {
		mux.Handle("GET /api/stations", auth(routes.StationsList))
	}
	if routes.StationsCreate != nil {
		mux.Handle("POST /api/stations", auth(routes.StationsCreate))
	}
	if routes.StationsDelete != nil {
		mux.Handle("DELETE /api/stations/{id}", auth(routes.StationsDelete))
	}
	if routes.StationsToggle != nil {
		mux.Handle("POST /api/stations/{id}/toggle", auth(routes.StationsToggle))
	}
	if routes.SettingsGet != nil {
		mux.Handle("GET /api/broker-settings", auth(routes.SettingsGet))
	}
	if routes.SettingsSet != nil {
		mux.Handle("POST /api/broker-settings", auth(routes.SettingsSet))
	}
	if routes.RelayWS != nil {
		mux.Handle("GET /ws", routes.RelayWS)
	}
	if routes.Health != nil {
		mux.Handle("GET /health", routes.Health)
	}
	return mux
}
