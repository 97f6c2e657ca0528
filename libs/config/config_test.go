package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name   string `env:"TEST_NAME"`
	Nested struct {
		Port    int           `env:"TEST_PORT"`
		Timeout time.Duration `env:"TEST_TIMEOUT"`
	}
	Enabled bool
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("TEST_NAME", "panel")
	t.Setenv("TEST_PORT", "8080")
	t.Setenv("TEST_TIMEOUT", "90s")
	t.Setenv("ENABLED", "true")

	cfg := &testConfig{}
	require.NoError(t, LoadConfig(cfg))

	assert.Equal(t, "panel", cfg.Name)
	assert.Equal(t, 8080, cfg.Nested.Port)
	assert.Equal(t, 90*time.Second, cfg.Nested.Timeout)
	assert.True(t, cfg.Enabled)
}

func TestLoadConfigRejectsNonStruct(t *testing.T) {
	assert.Error(t, LoadConfig(nil))

	value := "not a struct"
	assert.Error(t, LoadConfig(&value))
}

func TestLoadConfigBadDuration(t *testing.T) {
	t.Setenv("TEST_TIMEOUT", "ninety seconds")

	cfg := &testConfig{}
	assert.Error(t, LoadConfig(cfg))
}
