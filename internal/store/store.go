package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"chargepanel/internal/models"
)

var (
	// ErrStationNotFound is returned when the referenced id does not exist.
	ErrStationNotFound = errors.New("store: station not found")
	// ErrCapacityExceeded is returned when the station cap is reached.
	ErrCapacityExceeded = errors.New("store: station limit reached")
)

// DefaultMaxStations caps the collection size.
const DefaultMaxStations = 1000

// Store keeps the in-memory station collection. It is the source of truth
// while the process lives; durability is handled by a separate flusher that
// observes the after-change hook.
type Store struct {
	mu          sync.RWMutex
	stations    map[string]*models.Station
	settings    models.BrokerSettings
	maxStations int
	afterChange func()
}

// New returns an empty store.
func New(maxStations int) *Store {
	if maxStations <= 0 {
		maxStations = DefaultMaxStations
	}
	return &Store{
		stations:    make(map[string]*models.Station),
		maxStations: maxStations,
	}
}

// SetAfterChange registers a hook invoked after every mutating operation,
// outside the store lock. Used to kick the durability flusher.
func (s *Store) SetAfterChange(hook func()) {
	s.afterChange = hook
}

func (s *Store) changed() {
	if s.afterChange != nil {
		s.afterChange()
	}
}

// Load replaces the collection with a snapshot's contents, reconciling each
// station once. Called at startup before any handler runs.
func (s *Store) Load(stations []*models.Station, settings models.BrokerSettings) {
	now := time.Now().UTC()
	settings.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stations = make(map[string]*models.Station, len(stations))
	for _, st := range stations {
		st.Normalize(now)
		s.stations[st.ID] = st
		if len(s.stations) >= s.maxStations {
			break
		}
	}
	s.settings = settings
}

// Get returns a copy of the station with the given id.
func (s *Store) Get(id string) (*models.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stations[id]
	if !ok {
		return nil, ErrStationNotFound
	}
	return st.Clone(), nil
}

// Add inserts a new station, enforcing the collection cap.
func (s *Store) Add(station *models.Station) error {
	s.mu.Lock()
	if len(s.stations) >= s.maxStations {
		s.mu.Unlock()
		return ErrCapacityExceeded
	}
	s.stations[station.ID] = station.Clone()
	s.mu.Unlock()

	s.changed()
	return nil
}

// Remove deletes a station and returns its final state.
func (s *Store) Remove(id string) (*models.Station, error) {
	s.mu.Lock()
	st, ok := s.stations[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrStationNotFound
	}
	delete(s.stations, id)
	s.mu.Unlock()

	s.changed()
	return st, nil
}

// List returns copies of all stations ordered by creation time.
func (s *Store) List() []*models.Station {
	s.mu.RLock()
	result := make([]*models.Station, 0, len(s.stations))
	for _, st := range s.stations {
		result = append(result, st.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Count returns the current collection size.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stations)
}

// Update runs the mutator against the live record under the store lock, so
// concurrent updates of the same station serialize. Returns a copy of the
// updated station.
func (s *Store) Update(id string, mutate func(*models.Station)) (*models.Station, error) {
	s.mu.Lock()
	st, ok := s.stations[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrStationNotFound
	}
	mutate(st)
	updated := st.Clone()
	s.mu.Unlock()

	s.changed()
	return updated, nil
}

// Settings returns the current broker settings record.
func (s *Store) Settings() models.BrokerSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetSettings replaces the broker settings record.
func (s *Store) SetSettings(settings models.BrokerSettings) {
	settings.Normalize()
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()

	s.changed()
}

// Snapshot returns a consistent copy of the whole collection plus settings,
// used by the durability flusher.
func (s *Store) Snapshot() ([]*models.Station, models.BrokerSettings) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stations := make([]*models.Station, 0, len(s.stations))
	for _, st := range s.stations {
		stations = append(stations, st.Clone())
	}
	sort.Slice(stations, func(i, j int) bool {
		if stations[i].CreatedAt.Equal(stations[j].CreatedAt) {
			return stations[i].ID < stations[j].ID
		}
		return stations[i].CreatedAt.Before(stations[j].CreatedAt)
	})
	return stations, s.settings
}
