package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConnection(relayID string) *Connection {
	return NewConnection(relayID, nil, time.Minute, time.Second, zap.NewNop(), nil)
}

func testFrame() CommandFrame {
	return CommandFrame{
		StationID: "A1",
		ChargerID: "C7",
		Command:   "CMD_ON",
		Topic:     "stations/A1/charger/C7/command",
		Timestamp: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestBroadcastNoRelays(t *testing.T) {
	m := NewManager(zap.NewNop())
	assert.False(t, m.Broadcast(testFrame()))
}

func TestBroadcastDeliversFrame(t *testing.T) {
	m := NewManager(zap.NewNop())
	conn := testConnection("relay-1")
	m.Add(conn)

	require.True(t, m.Broadcast(testFrame()))

	select {
	case raw := <-conn.send:
		var frame CommandFrame
		require.NoError(t, json.Unmarshal(raw, &frame))
		assert.Equal(t, "A1", frame.StationID)
		assert.Equal(t, "CMD_ON", frame.Command)
		assert.Equal(t, "stations/A1/charger/C7/command", frame.Topic)
	default:
		t.Fatal("expected a frame in the send buffer")
	}
}

func TestBroadcastPrunesStuckRelay(t *testing.T) {
	m := NewManager(zap.NewNop())
	stuck := testConnection("stuck")
	healthy := testConnection("healthy")
	m.Add(stuck)
	m.Add(healthy)

	// Fill the stuck relay's buffer so the next enqueue is rejected.
	for i := 0; i < cap(stuck.send); i++ {
		stuck.send <- []byte("backlog")
	}

	assert.True(t, m.Broadcast(testFrame()))
	assert.Equal(t, 1, m.Count())
}

func TestBroadcastAllStuck(t *testing.T) {
	m := NewManager(zap.NewNop())
	stuck := testConnection("stuck")
	m.Add(stuck)
	for i := 0; i < cap(stuck.send); i++ {
		stuck.send <- []byte("backlog")
	}

	assert.False(t, m.Broadcast(testFrame()))
	assert.Equal(t, 0, m.Count())
}

func TestSendRejectsWhenBufferFull(t *testing.T) {
	conn := testConnection("relay-1")
	for i := 0; i < cap(conn.send); i++ {
		require.True(t, conn.Send([]byte("msg")))
	}
	assert.False(t, conn.Send([]byte("overflow")))
}

func TestAddRemove(t *testing.T) {
	m := NewManager(zap.NewNop())
	m.Add(testConnection("relay-1"))
	m.Add(testConnection("relay-2"))
	assert.Equal(t, 2, m.Count())

	m.Remove("relay-1")
	assert.Equal(t, 1, m.Count())
}
