package command

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chargepanel/internal/models"
)

func TestBuildTopic(t *testing.T) {
	testCases := []struct {
		name      string
		template  string
		stationID string
		chargerID string
		expected  string
	}{
		{
			name:      "both tokens substituted",
			template:  "stations/{stationId}/charger/{chargerId}/command",
			stationID: "A1",
			chargerID: "C7",
			expected:  "stations/A1/charger/C7/command",
		},
		{
			name:      "absent tokens leave template untouched",
			template:  "fixed/topic/path",
			stationID: "A1",
			chargerID: "C7",
			expected:  "fixed/topic/path",
		},
		{
			name:      "repeated tokens all substituted",
			template:  "{stationId}/{stationId}/{chargerId}",
			stationID: "X",
			chargerID: "Y",
			expected:  "X/X/Y",
		},
		{
			name:      "partial template degrades gracefully",
			template:  "stations/{stationId}/command",
			stationID: "A1",
			chargerID: "unused",
			expected:  "stations/A1/command",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, BuildTopic(tc.template, tc.stationID, tc.chargerID))
		})
	}
}

func TestFormatSelectsPayload(t *testing.T) {
	station := &models.Station{
		StationID: "A1",
		ChargerID: "C7",
		MQTTTopic: "stations/{stationId}/charger/{chargerId}/command",
		QoS:       2,
		MsgOn:     "CMD_ON",
		MsgOff:    "CMD_OFF",
	}

	on := Format(station, true)
	assert.Equal(t, "stations/A1/charger/C7/command", on.Topic)
	assert.Equal(t, []byte("CMD_ON"), on.Payload)
	assert.Equal(t, 2, on.QoS)

	off := Format(station, false)
	assert.Equal(t, []byte("CMD_OFF"), off.Payload)
}
