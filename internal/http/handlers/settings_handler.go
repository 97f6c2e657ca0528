package handlers

import (
	"encoding/json"
	"net/http"

	"chargepanel/internal/models"
	"chargepanel/internal/service"
)

// NewSettingsGetHandler handles GET /api/broker-settings.
func NewSettingsGetHandler(settings *service.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, settings.Get())
	}
}

// NewSettingsSetHandler handles POST /api/broker-settings.
func NewSettingsSetHandler(settings *service.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var record models.BrokerSettings
		if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		updated := settings.Update(record)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"message":  "Broker settings saved",
			"settings": updated,
		})
	}
}
