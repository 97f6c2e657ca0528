package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendLogEvictsOldest(t *testing.T) {
	station := &Station{}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < MaxLogsPerStation; i++ {
		station.AppendLog(ActivityEntry{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Message:   fmt.Sprintf("entry %d", i),
			Type:      ActivityInfo,
		})
	}
	require.Len(t, station.Logs, MaxLogsPerStation)
	// Newest first: entry 49 at the head, entry 0 at the tail.
	assert.Equal(t, "entry 49", station.Logs[0].Message)
	assert.Equal(t, "entry 0", station.Logs[MaxLogsPerStation-1].Message)

	station.AppendLog(ActivityEntry{Timestamp: base.Add(time.Hour), Message: "entry 50", Type: ActivityInfo})
	require.Len(t, station.Logs, MaxLogsPerStation)
	assert.Equal(t, "entry 50", station.Logs[0].Message)
	// The oldest entry fell off the tail.
	assert.Equal(t, "entry 1", station.Logs[MaxLogsPerStation-1].Message)
}

func TestNormalizeDefaults(t *testing.T) {
	now := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)

	station := &Station{QoS: 7}
	station.Normalize(now)

	assert.NotEmpty(t, station.ID)
	assert.Equal(t, "Unknown", station.StationID)
	assert.Equal(t, "Unknown", station.ChargerID)
	assert.Equal(t, 0, station.QoS)
	assert.Equal(t, now, station.CreatedAt)
	assert.Nil(t, station.LastToggled)
	assert.NotNil(t, station.Logs)
	assert.Empty(t, station.Logs)
}

func TestNormalizeTruncatesLogs(t *testing.T) {
	station := &Station{ID: "abc", StationID: "A1", ChargerID: "C7"}
	for i := 0; i < MaxLogsPerStation+10; i++ {
		station.Logs = append(station.Logs, ActivityEntry{Message: fmt.Sprintf("entry %d", i)})
	}

	station.Normalize(time.Now().UTC())

	require.Len(t, station.Logs, MaxLogsPerStation)
	assert.Equal(t, "entry 0", station.Logs[0].Message)
}

func TestCloneIsIndependent(t *testing.T) {
	toggled := time.Now().UTC()
	station := &Station{
		ID:          "abc",
		StationID:   "A1",
		LastToggled: &toggled,
		Logs:        []ActivityEntry{{Message: "created"}},
	}

	dup := station.Clone()
	dup.Logs[0].Message = "mutated"
	*dup.LastToggled = toggled.Add(time.Hour)

	assert.Equal(t, "created", station.Logs[0].Message)
	assert.Equal(t, toggled, *station.LastToggled)
}
