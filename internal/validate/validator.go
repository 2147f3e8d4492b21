// Package validate checks dataset entries against the location schema before they are used.
package validate

import (
	"fmt"

	"vending-locator/internal/dataset"
)

// RequiredFields lists every field an entry must carry. zip_code is optional.
var RequiredFields = []string{
	"id", "retailer", "machine_id", "name",
	"address", "city", "state",
	"latitude", "longitude",
	"type", "last_verified", "is_active",
}

// Entry returns every problem found in one decoded dataset entry. index only labels the messages.
func Entry(entry map[string]any, index int) []string {
	var errs []string

	for _, field := range RequiredFields {
		value, ok := entry[field]
		if !ok {
			errs = append(errs, fmt.Sprintf("Entry %d missing field: %s", index, field))
			continue
		}
		if value == nil || value == "" {
			errs = append(errs, fmt.Sprintf("Entry %d field '%s' is empty", index, field))
		}
	}

	lat, latOK := number(entry, "latitude")
	lon, lonOK := number(entry, "longitude")
	if _, present := entry["latitude"]; present && !latOK {
		errs = append(errs, fmt.Sprintf("Entry %d latitude must be a number", index))
	}
	if _, present := entry["longitude"]; present && !lonOK {
		errs = append(errs, fmt.Sprintf("Entry %d longitude must be a number", index))
	}
	if v, present := entry["is_active"]; present {
		if _, ok := v.(bool); !ok {
			errs = append(errs, fmt.Sprintf("Entry %d is_active must be true/false", index))
		}
	}

	if latOK && lonOK && (lat == 0) != (lon == 0) {
		errs = append(errs, fmt.Sprintf("Entry %d has partially resolved coordinates (%g, %g)", index, lat, lon))
	}

	return errs
}

func number(entry map[string]any, field string) (float64, bool) {
	switch v := entry[field].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// Entries validates a whole batch and returns all findings in entry order. An id already used by
// an earlier entry is reported as a duplicate.
func Entries(entries []map[string]any) []string {
	all := []string{}
	seen := make(map[string]int, len(entries))
	for i, entry := range entries {
		all = append(all, Entry(entry, i)...)

		id, ok := entry["id"].(string)
		if !ok || id == "" {
			continue
		}
		if first, dup := seen[id]; dup {
			all = append(all, fmt.Sprintf("Entry %d duplicate id: %s (first seen in entry %d)", i, id, first))
			continue
		}
		seen[id] = i
	}
	return all
}

// File validates the dataset at path. A missing or unparsable file is returned as an error and
// no findings are produced.
func File(path string) ([]string, error) {
	entries, err := dataset.LoadRaw(path)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return Entries(entries), nil
}
