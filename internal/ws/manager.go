package ws

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CommandFrame is the JSON message delivered to device relays.
type CommandFrame struct {
	StationID string    `json:"stationId"`
	ChargerID string    `json:"chargerId"`
	Command   string    `json:"command"`
	Topic     string    `json:"topic"`
	Timestamp time.Time `json:"timestamp"`
}

// Manager tracks live relay connections and fans commands out to all of them.
// Keepalive pings are owned by each connection's write pump; the manager never
// writes to a connection directly.
type Manager struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	logger      *zap.Logger
}

// NewManager builds the connection manager.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		connections: make(map[string]*Connection),
		logger:      logger,
	}
}

// Add registers a new connection.
func (m *Manager) Add(conn *Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connections[conn.RelayID()] = conn
}

// Remove removes a connection.
func (m *Manager) Remove(relayID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.connections, relayID)
}

// Count returns the number of live connections.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

// Broadcast sends the frame to every live relay without blocking. A relay
// whose buffer rejects the enqueue is treated as disconnected and pruned.
// Returns true iff at least one relay accepted the frame.
func (m *Manager) Broadcast(frame CommandFrame) bool {
	data, err := json.Marshal(frame)
	if err != nil {
		m.logger.Error("failed to encode command frame", zap.Error(err))
		return false
	}

	m.mu.RLock()
	targets := make([]*Connection, 0, len(m.connections))
	for _, conn := range m.connections {
		targets = append(targets, conn)
	}
	m.mu.RUnlock()

	delivered := false
	for _, conn := range targets {
		if conn.Send(data) {
			delivered = true
			continue
		}
		m.Remove(conn.RelayID())
		conn.Close()
	}
	return delivered
}
