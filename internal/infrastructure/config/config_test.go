package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8400", cfg.Server.Port)
	assert.Equal(t, 0, cfg.Store.MaxEntries)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_MAX_ENTRIES", "64")
	t.Setenv("DEVICE_TABLE", "/etc/mailslot/devices.yaml")
	t.Setenv("LOG_DEV", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 64, cfg.Store.MaxEntries)
	assert.Equal(t, "/etc/mailslot/devices.yaml", cfg.Store.DeviceTable)
	assert.True(t, cfg.Logging.Development)
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv("STORE_MAX_ENTRIES", "not-a-number")

	cfg := LoadOrDefault()
	assert.Equal(t, 0, cfg.Store.MaxEntries)
}
