package validate

import (
	"os"
	"path/filepath"
	"testing"

	"vending-locator/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEntry() map[string]any {
	return map[string]any{
		"id":            "frys_001",
		"retailer":      "Frys",
		"machine_id":    "001",
		"name":          "Frys",
		"address":       "123 Main St",
		"city":          "Phoenix",
		"state":         "AZ",
		"zip_code":      "",
		"latitude":      0.0,
		"longitude":     0.0,
		"type":          "grocery",
		"last_verified": "2024-01-15",
		"is_active":     true,
	}
}

func TestEntry(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(map[string]any)
		expected []string
	}{
		{
			name:     "valid unresolved entry",
			mutate:   func(map[string]any) {},
			expected: nil,
		},
		{
			name: "valid resolved entry without zip code",
			mutate: func(e map[string]any) {
				delete(e, "zip_code")
				e["latitude"] = 33.45
				e["longitude"] = -112.07
			},
			expected: nil,
		},
		{
			name:     "missing field",
			mutate:   func(e map[string]any) { delete(e, "city") },
			expected: []string{"Entry 3 missing field: city"},
		},
		{
			name:     "empty string",
			mutate:   func(e map[string]any) { e["address"] = "" },
			expected: []string{"Entry 3 field 'address' is empty"},
		},
		{
			name:     "null value",
			mutate:   func(e map[string]any) { e["name"] = nil },
			expected: []string{"Entry 3 field 'name' is empty"},
		},
		{
			name:   "wrong types",
			mutate: func(e map[string]any) { e["latitude"] = "33.45"; e["is_active"] = "yes" },
			expected: []string{
				"Entry 3 latitude must be a number",
				"Entry 3 is_active must be true/false",
			},
		},
		{
			name:     "missing longitude is reported once",
			mutate:   func(e map[string]any) { delete(e, "longitude") },
			expected: []string{"Entry 3 missing field: longitude"},
		},
		{
			name:     "partial coordinates",
			mutate:   func(e map[string]any) { e["latitude"] = 33.45 },
			expected: []string{"Entry 3 has partially resolved coordinates (33.45, 0)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := validEntry()
			tt.mutate(entry)
			assert.Equal(t, tt.expected, Entry(entry, 3))
		})
	}
}

func TestEntry_DoesNotMutate(t *testing.T) {
	entry := validEntry()
	delete(entry, "id")
	before := len(entry)

	Entry(entry, 0)
	assert.Len(t, entry, before)
}

func TestEntries_AccumulatesAcrossBatch(t *testing.T) {
	first := validEntry()
	delete(first, "id")
	second := validEntry()
	third := validEntry()
	third["id"] = "safeway_7"
	third["state"] = ""
	third["longitude"] = false

	errs := Entries([]map[string]any{first, second, third})
	assert.Equal(t, []string{
		"Entry 0 missing field: id",
		"Entry 2 field 'state' is empty",
		"Entry 2 longitude must be a number",
	}, errs)
}

func TestEntries_DuplicateIDs(t *testing.T) {
	first := validEntry()
	second := validEntry()
	second["id"] = "safeway_7"
	third := validEntry()
	fourth := validEntry()
	delete(fourth, "id")

	errs := Entries([]map[string]any{first, second, third, fourth})
	assert.Equal(t, []string{
		"Entry 2 duplicate id: frys_001 (first seen in entry 0)",
		"Entry 3 missing field: id",
	}, errs)
}

func TestFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "ok.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"id":"frys_001","retailer":"Frys","machine_id":"001","name":"Frys","address":"1 A St","city":"Phoenix","state":"AZ","latitude":0.0,"longitude":0.0,"type":"grocery","last_verified":"2024-01-15","is_active":true}]`), 0o644))

		errs, err := File(path)
		require.NoError(t, err)
		assert.Empty(t, errs)
	})

	t.Run("missing file", func(t *testing.T) {
		errs, err := File(filepath.Join(dir, "nope.json"))
		assert.ErrorIs(t, err, dataset.ErrNotFound)
		assert.Nil(t, errs)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"`), 0o644))

		_, err := File(path)
		assert.Error(t, err)
	})
}
