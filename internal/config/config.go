package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "chargepanel/libs/config"
)

// HTTPConfig holds the listener settings.
type HTTPConfig struct {
	Port string `yaml:"port" env:"PANEL_HTTP_PORT"`
}

// AuthConfig holds operator credentials and session token settings. Either
// PasswordHash (bcrypt) or Password (hashed at startup) must be set.
type AuthConfig struct {
	Username     string        `yaml:"username" env:"PANEL_AUTH_USERNAME"`
	Password     string        `yaml:"password" env:"PANEL_AUTH_PASSWORD"`
	PasswordHash string        `yaml:"passwordHash" env:"PANEL_AUTH_PASSWORD_HASH"`
	TokenSecret  string        `yaml:"tokenSecret" env:"PANEL_AUTH_TOKEN_SECRET"`
	SessionTTL   time.Duration `yaml:"sessionTtl" env:"PANEL_AUTH_SESSION_TTL"`
	LoginRate    float64       `yaml:"loginRate" env:"PANEL_AUTH_LOGIN_RATE"`
	LoginBurst   int           `yaml:"loginBurst" env:"PANEL_AUTH_LOGIN_BURST"`
}

// StorageConfig holds snapshot persistence settings.
type StorageConfig struct {
	DataFile      string        `yaml:"dataFile" env:"PANEL_DATA_FILE"`
	FlushInterval time.Duration `yaml:"flushInterval" env:"PANEL_FLUSH_INTERVAL"`
}

// RelayConfig holds device relay connection settings.
type RelayConfig struct {
	PingInterval time.Duration `yaml:"pingInterval" env:"PANEL_RELAY_PING_INTERVAL"`
	WriteTimeout time.Duration `yaml:"writeTimeout" env:"PANEL_RELAY_WRITE_TIMEOUT"`
}

// Config defines the panel configuration.
type Config struct {
	HTTP        HTTPConfig    `yaml:"http"`
	Auth        AuthConfig    `yaml:"auth"`
	Storage     StorageConfig `yaml:"storage"`
	Relay       RelayConfig   `yaml:"relay"`
	MaxStations int           `yaml:"maxStations" env:"PANEL_MAX_STATIONS"`
}

// Load reads configuration via the shared helper and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{Port: "3000"},
		Auth: AuthConfig{
			Username:   "admin",
			SessionTTL: 24 * time.Hour,
			LoginRate:  1,
			LoginBurst: 5,
		},
		Storage: StorageConfig{
			DataFile:      "data.json",
			FlushInterval: 5 * time.Minute,
		},
		Relay: RelayConfig{
			PingInterval: 30 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		MaxStations: 1000,
	}

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Auth.Username) == "" {
		return nil, errors.New("config: auth username required")
	}
	if strings.TrimSpace(cfg.Auth.Password) == "" && strings.TrimSpace(cfg.Auth.PasswordHash) == "" {
		return nil, errors.New("config: auth password or password hash required")
	}
	if strings.TrimSpace(cfg.Auth.TokenSecret) == "" {
		return nil, errors.New("config: auth token secret required")
	}
	if strings.TrimSpace(cfg.Storage.DataFile) == "" {
		return nil, errors.New("config: data file path required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "3000"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
