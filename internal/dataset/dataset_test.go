package dataset

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"vending-locator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "locations.json")
	records := []models.Location{
		{
			ID:           "frys_001",
			Retailer:     "Frys",
			MachineID:    "001",
			Name:         "Frys",
			Address:      "123 Main St",
			City:         "Phoenix",
			State:        "AZ",
			Latitude:     33.45,
			Longitude:    -112.07,
			Type:         "grocery",
			LastVerified: "2024-01-15",
			IsActive:     true,
		},
	}

	require.NoError(t, Save(path, records))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n  {\n    \"id\": \"frys_001\""))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestSave_OverwritesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.json")
	require.NoError(t, Save(path, []models.Location{{ID: "a_1"}, {ID: "b_2"}}))
	require.NoError(t, Save(path, []models.Location{{ID: "c_3"}}))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "c_3", loaded[0].ID)
}

func TestWriteFile_Mode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	dir := t.TempDir()

	tests := []struct {
		name  string
		write func(path string) error
	}{
		{name: "snapshot", write: func(path string) error { return Save(path, []models.Location{{ID: "a_1"}}) }},
		{name: "raw bytes", write: func(path string) error { return WriteFile(path, []byte("listing\n")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			require.NoError(t, tt.write(path))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
		})
	}
}

func TestSave_DoesNotEscapeHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.json")
	require.NoError(t, Save(path, []models.Location{{ID: "a&w_1", Name: "A&W"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"A&W"`)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrNotFound)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("[{"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestLoadRaw_KeepsUnknownShapes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": "x_1", "latitude": "33.4"}]`), 0o644))

	entries, err := LoadRaw(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "33.4", entries[0]["latitude"])
}
