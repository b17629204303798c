package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// City is a resolved location. Values are produced by the Resolver and not
// modified afterwards.
type City struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HasCoordinates reports whether the city carries a usable coordinate pair.
func (c City) HasCoordinates() bool {
	return c.Latitude != 0 || c.Longitude != 0
}

// Geo returns the city's coordinates in response form.
func (c City) Geo() Geo {
	return Geo{Lat: c.Latitude, Lon: c.Longitude}
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CanonicalName trims and title-cases a city name ("new delhi" -> "New Delhi").
// It is the key used by the metrics store.
func CanonicalName(name string) string {
	// Casers carry state and must not be shared across goroutines.
	return cases.Title(language.English).String(strings.TrimSpace(name))
}
