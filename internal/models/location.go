package models

import (
	"errors"
	"strings"
)

// Location represents a single vending-machine site: the retailer and machine that identify it, the street address it was listed under, and the coordinates it was geocoded to.
type Location struct {
	ID           string  `json:"id"`
	Retailer     string  `json:"retailer"`
	MachineID    string  `json:"machine_id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	ZipCode      string  `json:"zip_code"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Type         string  `json:"type"`
	LastVerified string  `json:"last_verified"`
	IsActive     bool    `json:"is_active"`
}

// LocationID derives the dataset key for a retailer's machine.
func LocationID(retailer, machineID string) string {
	return strings.ToLower(retailer) + "_" + machineID
}

// Coordinates returns the location's coordinate pair.
func (l Location) Coordinates() Coordinates {
	return Coordinates{Latitude: l.Latitude, Longitude: l.Longitude}
}

// SetCoordinates overwrites the coordinate pair, leaving every other field untouched.
func (l *Location) SetCoordinates(c Coordinates) {
	l.Latitude = c.Latitude
	l.Longitude = c.Longitude
}

// FullAddress joins the non-empty address parts with ", ".
func (l Location) FullAddress() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.Address, l.City, l.State} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// ErrNotFound is returned by stores when no location has the requested id.
var ErrNotFound = errors.New("location not found")

// NearbyLocation is a location returned by a radius query, annotated with its great-circle
// distance from the query center.
type NearbyLocation struct {
	Location
	DistanceKm float64 `json:"distance_km"`
}
