package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "vending_locations", cfg.DBTable)
	assert.Equal(t, time.Second, cfg.GeocoderMinDelay)
	assert.Equal(t, "Arizona", cfg.FallbackState)
	assert.Equal(t, []string{"Frys", "Safeway", "Albertsons", "WinCo Foods"}, cfg.GroceryRetailers)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := "SERVER_ADDRESS=:9090\nDB_DRIVER=sqlite\nFALLBACK_STATE=Nevada\nGEOCODER_MIN_DELAY=2s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o644))

	t.Setenv("FALLBACK_STATE", "Utah")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 2*time.Second, cfg.GeocoderMinDelay)
	assert.Equal(t, "Utah", cfg.FallbackState)
}

func TestLoadConfig_UnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}

func TestTrimAll(t *testing.T) {
	assert.Equal(t, []string{"Frys", "WinCo Foods"}, trimAll([]string{" Frys", "", "WinCo Foods "}))
}
