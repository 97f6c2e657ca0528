package transport

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"chargepanel/internal/command"
	"chargepanel/internal/models"
	"chargepanel/internal/mqtt"
	"chargepanel/internal/ws"
)

// SettingsSource exposes the current broker settings record.
type SettingsSource interface {
	Settings() models.BrokerSettings
}

// Publisher sends a command to the configured broker.
type Publisher interface {
	Publish(cmd command.Command) error
}

// Dispatcher routes a formatted command to the active transport: the relay
// fan-out by default, the broker connection when the settings record selects
// it. Delivery is best-effort either way; failures are reported through the
// returned flag, never as an error to the toggle path.
type Dispatcher struct {
	relays    *ws.Manager
	publisher Publisher
	settings  SettingsSource
	logger    *zap.Logger
}

// NewDispatcher builds a dispatcher.
func NewDispatcher(relays *ws.Manager, publisher Publisher, settings SettingsSource, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		relays:    relays,
		publisher: publisher,
		settings:  settings,
		logger:    logger,
	}
}

// Deliver fans the command out and reports whether any channel accepted it.
// Broker publishes address the topic built from the settings record's
// template; the station's own topic only rides along on relay frames.
func (d *Dispatcher) Deliver(station *models.Station, cmd command.Command) bool {
	settings := d.settings.Settings()
	if settings.Transport == models.TransportMQTT {
		template := settings.TopicTemplate
		if template == "" {
			template = models.DefaultTopicTemplate
		}
		cmd.Topic = command.BuildTopic(template, station.StationID, station.ChargerID)
		if err := d.publisher.Publish(cmd); err != nil {
			if errors.Is(err, mqtt.ErrNotConfigured) {
				d.logger.Warn("broker transport selected but not configured",
					zap.String("station_id", station.StationID))
			} else {
				d.logger.Warn("broker publish failed",
					zap.String("station_id", station.StationID),
					zap.String("topic", cmd.Topic),
					zap.Error(err))
			}
			return false
		}
		d.logger.Debug("command published to broker", zap.String("topic", cmd.Topic))
		return true
	}

	delivered := d.relays.Broadcast(ws.CommandFrame{
		StationID: station.StationID,
		ChargerID: station.ChargerID,
		Command:   string(cmd.Payload),
		Topic:     cmd.Topic,
		Timestamp: time.Now().UTC(),
	})
	if !delivered {
		d.logger.Warn("no relays connected, command not delivered",
			zap.String("station_id", station.StationID))
	}
	return delivered
}
