// Package manual applies coordinates an operator looked up by hand.
package manual

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"vending-locator/internal/models"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("manual: location not found")

// ParseCoordinates parses "lat, lon" as pasted from a map application.
func ParseCoordinates(s string) (models.Coordinates, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok || strings.Contains(lonStr, ",") {
		return models.Sentinel, fmt.Errorf("manual: expected \"lat, lon\", got %q", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return models.Sentinel, fmt.Errorf("manual: invalid latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return models.Sentinel, fmt.Errorf("manual: invalid longitude: %w", err)
	}

	if lat < -90 || lat > 90 {
		return models.Sentinel, fmt.Errorf("manual: invalid latitude: %f", lat)
	}
	if lon < -180 || lon > 180 {
		return models.Sentinel, fmt.Errorf("manual: invalid longitude: %f", lon)
	}

	c := models.Coordinates{Latitude: lat, Longitude: lon}
	if !c.IsResolved() {
		return models.Sentinel, fmt.Errorf("manual: coordinates (%g, %g) contain a zero and would read as unresolved", lat, lon)
	}
	return c, nil
}

// Apply sets the coordinates of the record with the given id.
func Apply(records []models.Location, id string, c models.Coordinates) error {
	for i := range records {
		if records[i].ID == id {
			records[i].SetCoordinates(c)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// MapsURL returns a Google Maps search link for the record's address.
func MapsURL(loc models.Location) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(loc.FullAddress())
}
