package service

import (
	"go.uber.org/zap"

	"chargepanel/internal/models"
	"chargepanel/internal/store"
)

const redactedPlaceholder = "********"

// Configurer applies broker settings to the broker transport.
type Configurer interface {
	Configure(settings models.BrokerSettings) error
}

// SettingsService manages the operator-editable broker settings record.
type SettingsService struct {
	store      *store.Store
	configurer Configurer
	logger     *zap.Logger
}

// NewSettingsService builds the service.
func NewSettingsService(st *store.Store, configurer Configurer, logger *zap.Logger) *SettingsService {
	return &SettingsService{store: st, configurer: configurer, logger: logger}
}

// Get returns the current settings with secrets redacted.
func (s *SettingsService) Get() models.BrokerSettings {
	settings := s.store.Settings()
	return settings.Redacted()
}

// Update replaces the settings record and reconfigures the broker transport.
// The record is persisted even when the broker connection cannot be brought up
// immediately; an incomplete record surfaces later as a per-send failure.
func (s *SettingsService) Update(settings models.BrokerSettings) models.BrokerSettings {
	settings.Normalize()
	// A redacted password submitted back unchanged keeps the stored secret.
	if settings.Password == redactedPlaceholder {
		settings.Password = s.store.Settings().Password
	}

	s.store.SetSettings(settings)

	if err := s.configurer.Configure(settings); err != nil {
		s.logger.Warn("broker transport reconfiguration failed", zap.Error(err))
	}

	s.logger.Info("broker settings updated",
		zap.String("transport", settings.Transport),
		zap.Bool("configured", settings.Configured()))
	return settings.Redacted()
}
