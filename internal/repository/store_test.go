package repository

import (
	"context"
	"path/filepath"
	"testing"

	"vending-locator/internal/config"
	"vending-locator/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "complete_locations.json")
	require.NoError(t, dataset.Save(seed, seedLocations()))

	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{
			name: "memory",
			cfg:  config.Config{DBDriver: config.DriverMemory, SeedFile: seed},
		},
		{
			name: "sqlite",
			cfg:  config.Config{DBDriver: config.DriverSQLite, SQLitePath: filepath.Join(dir, "locations.db")},
		},
		{
			name:    "postgres without source",
			cfg:     config.Config{DBDriver: config.DriverPostgres},
			wantErr: true,
		},
		{
			name:    "memory with missing seed",
			cfg:     config.Config{DBDriver: config.DriverMemory, SeedFile: filepath.Join(dir, "missing.json")},
			wantErr: true,
		},
		{
			name:    "unknown driver",
			cfg:     config.Config{DBDriver: "mongo"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, closeStore, err := Open(context.Background(), tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer closeStore()

			_, err = store.GetAll(context.Background())
			assert.NoError(t, err)
		})
	}
}
