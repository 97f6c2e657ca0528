package command

import (
	"strings"

	"chargepanel/internal/models"
)

// Topic template placeholder tokens, substituted at send time.
const (
	TokenStationID = "{stationId}"
	TokenChargerID = "{chargerId}"
)

// Command is one formatted outbound command.
type Command struct {
	Topic   string
	Payload []byte
	QoS     int
}

// Format builds the outbound command for a station and desired state. Topic
// placeholders absent from the template are left untouched; the payload is the
// operator-authored on/off message verbatim.
func Format(station *models.Station, desiredOn bool) Command {
	payload := station.MsgOff
	if desiredOn {
		payload = station.MsgOn
	}
	return Command{
		Topic:   BuildTopic(station.MQTTTopic, station.StationID, station.ChargerID),
		Payload: []byte(payload),
		QoS:     station.QoS,
	}
}

// BuildTopic substitutes every occurrence of the placeholder tokens.
func BuildTopic(template, stationID, chargerID string) string {
	topic := strings.ReplaceAll(template, TokenStationID, stationID)
	return strings.ReplaceAll(topic, TokenChargerID, chargerID)
}
