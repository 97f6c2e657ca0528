package models

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// MaxLogsPerStation caps the per-station activity ring.
const MaxLogsPerStation = 50

// Activity entry categories.
const (
	ActivityInfo   = "info"
	ActivityAction = "action"
)

// ActivityEntry is one audit record in a station's log ring.
type ActivityEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
}

// Station is one controllable charging point. Online holds the last commanded
// state, not a confirmed device state.
type Station struct {
	ID          string          `json:"id"`
	StationID   string          `json:"stationId"`
	ChargerID   string          `json:"chargerId"`
	MQTTTopic   string          `json:"mqttTopic"`
	QoS         int             `json:"qos"`
	MsgOn       string          `json:"msgOn"`
	MsgOff      string          `json:"msgOff"`
	Online      bool            `json:"online"`
	CreatedAt   time.Time       `json:"createdAt"`
	LastToggled *time.Time      `json:"lastToggled"`
	Logs        []ActivityEntry `json:"logs"`
}

// NewID generates an opaque station identifier.
func NewID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to time.
		return hex.EncodeToString([]byte(time.Now().UTC().Format("150405.000000000")))[:16]
	}
	return hex.EncodeToString(buf)
}

// Normalize reconciles a station loaded from a snapshot: defaults missing
// fields and truncates the log ring. Called once at load, not on reads.
func (s *Station) Normalize(now time.Time) {
	if strings.TrimSpace(s.ID) == "" {
		s.ID = NewID()
	}
	if strings.TrimSpace(s.StationID) == "" {
		s.StationID = "Unknown"
	}
	if strings.TrimSpace(s.ChargerID) == "" {
		s.ChargerID = "Unknown"
	}
	if s.QoS < 0 || s.QoS > 2 {
		s.QoS = 0
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.LastToggled != nil && s.LastToggled.IsZero() {
		s.LastToggled = nil
	}
	if s.Logs == nil {
		s.Logs = []ActivityEntry{}
	}
	if len(s.Logs) > MaxLogsPerStation {
		s.Logs = s.Logs[:MaxLogsPerStation]
	}
}

// AppendLog prepends an entry (newest first) and evicts the oldest entries
// beyond the ring cap.
func (s *Station) AppendLog(entry ActivityEntry) {
	s.Logs = append([]ActivityEntry{entry}, s.Logs...)
	if len(s.Logs) > MaxLogsPerStation {
		s.Logs = s.Logs[:MaxLogsPerStation]
	}
}

// Clone returns a deep copy safe to hand outside the store lock.
func (s *Station) Clone() *Station {
	dup := *s
	if s.LastToggled != nil {
		t := *s.LastToggled
		dup.LastToggled = &t
	}
	dup.Logs = make([]ActivityEntry, len(s.Logs))
	copy(dup.Logs, s.Logs)
	return &dup
}
