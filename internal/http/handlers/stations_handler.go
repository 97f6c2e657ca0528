package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"chargepanel/internal/service"
	"chargepanel/internal/store"
)

// NewStationsListHandler handles GET /api/stations.
func NewStationsListHandler(stations *service.StationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, stations.List(r.Context()))
	}
}

// NewStationsCreateHandler handles POST /api/stations.
func NewStationsCreateHandler(stations *service.StationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input service.CreateInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		station, err := stations.Create(r.Context(), input)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrValidation):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, store.ErrCapacityExceeded):
				writeError(w, http.StatusBadRequest, "maximum number of stations reached")
			default:
				logger.Error("failed to create station", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "failed to create station")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"station": station,
		})
	}
}

// NewStationsDeleteHandler handles DELETE /api/stations/{id}.
func NewStationsDeleteHandler(stations *service.StationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed, err := stations.Remove(r.Context(), r.PathValue("id"))
		if err != nil {
			if errors.Is(err, store.ErrStationNotFound) {
				writeError(w, http.StatusNotFound, "station not found")
				return
			}
			logger.Error("failed to delete station", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to delete station")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"station": removed,
		})
	}
}
