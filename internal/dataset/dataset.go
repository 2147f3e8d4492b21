// Package dataset reads and writes the JSON location files handed from one pipeline stage to the
// next. Files are always read and written whole.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"vending-locator/internal/models"
)

// ErrNotFound is returned when the dataset file does not exist.
var ErrNotFound = errors.New("dataset: file not found")

// Load decodes a dataset file into locations.
func Load(path string) ([]models.Location, error) {
	var records []models.Location
	if err := decode(path, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.Location{}
	}
	return records, nil
}

// LoadRaw decodes a dataset file without imposing the Location schema, so that missing or
// mistyped fields survive for validation.
func LoadRaw(path string) ([]map[string]any, error) {
	var entries []map[string]any
	if err := decode(path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func decode(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("dataset: failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("dataset: invalid JSON in %s: %w", path, err)
	}
	return nil
}

// Save writes records to path as indented JSON through WriteFile.
func Save(path string, records []models.Location) error {
	if records == nil {
		records = []models.Location{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("dataset: failed to encode: %w", err)
	}

	return WriteFile(path, buf.Bytes())
}

// WriteFile replaces path with data. The bytes go to a temporary sibling that is renamed into
// place, so readers see either the previous file or the new one. The file mode is 0644.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("dataset: failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("dataset: failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("dataset: failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("dataset: failed to chmod %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("dataset: failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("dataset: failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("dataset: failed to replace %s: %w", path, err)
	}
	return nil
}
