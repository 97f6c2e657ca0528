package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"chargepanel/internal/command"
	"chargepanel/internal/models"
	"chargepanel/internal/store"
)

// ErrValidation marks malformed or missing input on create. Wrapped errors
// carry the field-level message.
var ErrValidation = errors.New("stations: invalid input")

// MaxPayloadLength bounds the operator-authored on/off messages.
const MaxPayloadLength = 1000

// Deliverer hands a formatted command to the active transport and reports
// whether any channel accepted it.
type Deliverer interface {
	Deliver(station *models.Station, cmd command.Command) bool
}

// CreateInput carries the fields of an add request.
type CreateInput struct {
	StationID string `json:"stationId"`
	ChargerID string `json:"chargerId"`
	MQTTTopic string `json:"mqttTopic"`
	QoS       int    `json:"qos"`
	MsgOn     string `json:"msgOn"`
	MsgOff    string `json:"msgOff"`
}

// StationService contains the station CRUD and toggle logic.
type StationService struct {
	store     *store.Store
	deliverer Deliverer
	logger    *zap.Logger

	// Per-station toggle serialization: the second of two concurrent toggles
	// must observe the first's commanded state before computing its own.
	toggleMu sync.Mutex
	toggles  map[string]*sync.Mutex
}

// NewStationService builds the service.
func NewStationService(st *store.Store, deliverer Deliverer, logger *zap.Logger) *StationService {
	return &StationService{
		store:     st,
		deliverer: deliverer,
		logger:    logger,
		toggles:   make(map[string]*sync.Mutex),
	}
}

// List returns all stations ordered by creation time.
func (s *StationService) List(ctx context.Context) []*models.Station {
	return s.store.List()
}

// Get returns one station.
func (s *StationService) Get(ctx context.Context, id string) (*models.Station, error) {
	return s.store.Get(id)
}

// Create validates input and registers a new station with one seeded log
// entry. Fails before any mutation on validation or capacity errors.
func (s *StationService) Create(ctx context.Context, input CreateInput) (*models.Station, error) {
	input.StationID = strings.TrimSpace(input.StationID)
	input.ChargerID = strings.TrimSpace(input.ChargerID)
	input.MQTTTopic = strings.TrimSpace(input.MQTTTopic)
	input.MsgOn = strings.TrimSpace(input.MsgOn)
	input.MsgOff = strings.TrimSpace(input.MsgOff)

	if input.StationID == "" || input.ChargerID == "" || input.MQTTTopic == "" || input.MsgOn == "" || input.MsgOff == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if input.QoS < 0 || input.QoS > 2 {
		return nil, fmt.Errorf("%w: qos must be 0, 1, or 2", ErrValidation)
	}
	if len(input.MsgOn) > MaxPayloadLength || len(input.MsgOff) > MaxPayloadLength {
		return nil, fmt.Errorf("%w: messages are too long (max %d characters)", ErrValidation, MaxPayloadLength)
	}

	now := time.Now().UTC()
	station := &models.Station{
		ID:        models.NewID(),
		StationID: input.StationID,
		ChargerID: input.ChargerID,
		MQTTTopic: input.MQTTTopic,
		QoS:       input.QoS,
		MsgOn:     input.MsgOn,
		MsgOff:    input.MsgOff,
		Online:    false,
		CreatedAt: now,
		Logs: []models.ActivityEntry{{
			Timestamp: now,
			Message:   "Station created",
			Type:      models.ActivityInfo,
		}},
	}

	if err := s.store.Add(station); err != nil {
		return nil, err
	}

	s.logger.Info("station created",
		zap.String("id", station.ID),
		zap.String("station_id", station.StationID))
	return station, nil
}

// Remove deletes a station and returns its final state. The station's toggle
// lock entry is released with it; a toggle still in flight keeps its own
// reference and fails on the store lookup.
func (s *StationService) Remove(ctx context.Context, id string) (*models.Station, error) {
	removed, err := s.store.Remove(id)
	if err != nil {
		return nil, err
	}

	s.toggleMu.Lock()
	delete(s.toggles, id)
	s.toggleMu.Unlock()

	s.logger.Info("station removed",
		zap.String("id", removed.ID),
		zap.String("station_id", removed.StationID))
	return removed, nil
}

func (s *StationService) stationLock(id string) *sync.Mutex {
	s.toggleMu.Lock()
	defer s.toggleMu.Unlock()
	mu, ok := s.toggles[id]
	if !ok {
		mu = &sync.Mutex{}
		s.toggles[id] = mu
	}
	return mu
}
