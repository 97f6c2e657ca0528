package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"chargepanel/internal/command"
	"chargepanel/internal/models"
)

// Toggle inverts a station's commanded state. Order is fixed: lookup, format,
// deliver, then unconditionally flip the state and append one activity entry.
// Delivery failure never aborts the transition and there is no rollback; the
// recorded state is commanded intent, not confirmed device state. Once
// accepted, a toggle runs to completion regardless of the caller.
func (s *StationService) Toggle(ctx context.Context, id string) (*models.Station, bool, error) {
	mu := s.stationLock(id)
	mu.Lock()
	defer mu.Unlock()

	station, err := s.store.Get(id)
	if err != nil {
		return nil, false, err
	}

	desiredOn := !station.Online
	cmd := command.Format(station, desiredOn)
	delivered := s.deliverer.Deliver(station, cmd)

	now := time.Now().UTC()
	updated, err := s.store.Update(id, func(live *models.Station) {
		live.Online = desiredOn
		live.LastToggled = &now
		live.AppendLog(models.ActivityEntry{
			Timestamp: now,
			Message:   toggleMessage(desiredOn, delivered, cmd.Payload),
			Type:      models.ActivityAction,
		})
	})
	if err != nil {
		// Removed between lookup and flip.
		return nil, delivered, err
	}

	s.logger.Info("station toggled",
		zap.String("id", id),
		zap.String("station_id", updated.StationID),
		zap.Bool("online", updated.Online),
		zap.Bool("delivered", delivered))
	return updated, delivered, nil
}

func toggleMessage(desiredOn, delivered bool, payload []byte) string {
	state := "OFF"
	if desiredOn {
		state = "ON"
	}
	if !delivered {
		return fmt.Sprintf("Station turned %s (no transport reachable): %s", state, payload)
	}
	return fmt.Sprintf("Station turned %s: %s", state, payload)
}
