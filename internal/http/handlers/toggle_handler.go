package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"chargepanel/internal/service"
	"chargepanel/internal/store"
)

// NewStationsToggleHandler handles POST /api/stations/{id}/toggle. The
// delivered flag reports whether any transport accepted the command; the
// state flip happens either way.
func NewStationsToggleHandler(stations *service.StationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		station, delivered, err := stations.Toggle(r.Context(), r.PathValue("id"))
		if err != nil {
			if errors.Is(err, store.ErrStationNotFound) {
				writeError(w, http.StatusNotFound, "station not found")
				return
			}
			logger.Error("failed to toggle station", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to toggle station")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":   true,
			"station":   station,
			"delivered": delivered,
		})
	}
}
