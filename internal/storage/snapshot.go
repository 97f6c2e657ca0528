package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"chargepanel/internal/models"
)

// Document is the on-disk shape: the full station collection plus the broker
// settings record.
type Document struct {
	Stations       []*models.Station     `json:"stations"`
	BrokerSettings models.BrokerSettings `json:"brokerSettings"`
}

// Snapshot persists and restores the store document as a JSON file with a
// .backup sibling. The previous durable copy is preserved before every write,
// so a crash mid-write always leaves one recoverable copy.
type Snapshot struct {
	path   string
	logger *zap.Logger
}

// NewSnapshot builds a snapshot bound to the given file path.
func NewSnapshot(path string, logger *zap.Logger) *Snapshot {
	return &Snapshot{path: path, logger: logger}
}

func (s *Snapshot) backupPath() string {
	return s.path + ".backup"
}

// Save writes the document. The current primary file is copied to the backup
// path first; only then is the primary replaced.
func (s *Snapshot) Save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode snapshot: %w", err)
	}

	if prev, err := os.ReadFile(s.path); err == nil {
		if err := os.WriteFile(s.backupPath(), prev, 0o600); err != nil {
			return fmt.Errorf("storage: preserve backup: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: read current snapshot: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("storage: write snapshot: %w", err)
	}
	return nil
}

// Load reads the document, falling back to the backup copy on a corrupt or
// unreadable primary, then to an empty document. Each fallback is logged;
// Load itself never fails.
func (s *Snapshot) Load() *Document {
	if doc, err := s.read(s.path); err == nil {
		s.logger.Info("loaded snapshot", zap.String("path", s.path), zap.Int("stations", len(doc.Stations)))
		return doc
	} else if errors.Is(err, os.ErrNotExist) {
		s.logger.Info("no snapshot file found, starting fresh", zap.String("path", s.path))
		return emptyDocument()
	} else {
		s.logger.Error("snapshot unreadable, trying backup", zap.String("path", s.path), zap.Error(err))
	}

	if doc, err := s.read(s.backupPath()); err == nil {
		s.logger.Warn("recovered snapshot from backup", zap.String("path", s.backupPath()), zap.Int("stations", len(doc.Stations)))
		return doc
	} else if !errors.Is(err, os.ErrNotExist) {
		s.logger.Error("backup snapshot unreadable, starting fresh", zap.String("path", s.backupPath()), zap.Error(err))
	} else {
		s.logger.Warn("no backup snapshot, starting fresh", zap.String("path", s.backupPath()))
	}

	return emptyDocument()
}

func (s *Snapshot) read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", path, err)
	}
	if doc.Stations == nil {
		doc.Stations = []*models.Station{}
	}
	return &doc, nil
}

func emptyDocument() *Document {
	return &Document{Stations: []*models.Station{}}
}
