package models

import "strings"

// Transport modes selectable in the broker settings record.
const (
	TransportWebSocket = "websocket"
	TransportMQTT      = "mqtt"
)

// DefaultTopicTemplate is used when the settings record carries none.
const DefaultTopicTemplate = "stations/{stationId}/charger/{chargerId}/command"

// BrokerSettings is the operator-editable message-broker configuration stored
// alongside the station collection.
type BrokerSettings struct {
	Transport     string `json:"transport"`
	BrokerURL     string `json:"brokerUrl"`
	ClientID      string `json:"clientId"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	TopicTemplate string `json:"topicTemplate"`
}

// Normalize defaults the transport mode and topic template.
func (b *BrokerSettings) Normalize() {
	if b.Transport != TransportMQTT {
		b.Transport = TransportWebSocket
	}
	if strings.TrimSpace(b.TopicTemplate) == "" {
		b.TopicTemplate = DefaultTopicTemplate
	}
}

// Configured reports whether the record carries everything the broker
// transport needs to publish.
func (b *BrokerSettings) Configured() bool {
	return strings.TrimSpace(b.BrokerURL) != ""
}

// Redacted returns a copy safe to return to the browser.
func (b *BrokerSettings) Redacted() BrokerSettings {
	dup := *b
	if dup.Password != "" {
		dup.Password = "********"
	}
	return dup
}
