package domain

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
)

// nearestCityThreshold is the maximum degree-space distance (~50 km) at which
// ReverseGeocode snaps to a known city.
const nearestCityThreshold = 0.5

type knownCity struct {
	key string // lower-case lookup key
	lat float64
	lon float64
}

// knownCities is searched in declaration order, which also breaks ties
// between partial matches.
var knownCities = []knownCity{
	{key: "new delhi", lat: 28.6139, lon: 77.2090},
	{key: "mumbai", lat: 19.0760, lon: 72.8777},
	{key: "bangalore", lat: 12.9716, lon: 77.5946},
	{key: "kolkata", lat: 22.5726, lon: 88.3639},
	{key: "chennai", lat: 13.0827, lon: 80.2707},
	{key: "hyderabad", lat: 17.3850, lon: 78.4867},
	{key: "pune", lat: 18.5204, lon: 73.8567},
	{key: "london", lat: 51.5074, lon: -0.1278},
	{key: "new york", lat: 40.7128, lon: -74.0060},
	{key: "tokyo", lat: 35.6762, lon: 139.6503},
	{key: "paris", lat: 48.8566, lon: 2.3522},
	{key: "sydney", lat: -33.8688, lon: 151.2093},
}

// Resolver maps city names to coordinates and back using the static table.
// An optional Geocoder is consulted for places the table does not know;
// its failures degrade to the table-only behaviour.
type Resolver struct {
	geocoder Geocoder
	logger   *slog.Logger
}

// NewResolver creates a Resolver. Pass a nil geocoder for table-only lookups.
func NewResolver(geocoder Geocoder, logger *slog.Logger) *Resolver {
	return &Resolver{geocoder: geocoder, logger: logger}
}

// Geocode resolves a city name. Exact (case-insensitive) matches keep the
// caller's spelling in title case; partial matches, where either string
// contains the other, return the table's name. ErrCityNotFound is returned
// when nothing matches.
func (r *Resolver) Geocode(ctx context.Context, name string) (City, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return City{}, ErrCityNotFound
	}

	for _, c := range knownCities {
		if c.key == query {
			return City{Name: CanonicalName(name), Latitude: c.lat, Longitude: c.lon}, nil
		}
	}

	for _, c := range knownCities {
		if strings.Contains(c.key, query) || strings.Contains(query, c.key) {
			return c.city(), nil
		}
	}

	if r.geocoder == nil {
		return City{}, fmt.Errorf("%w: %q", ErrCityNotFound, name)
	}

	result, err := r.geocoder.ForwardGeocode(ctx, strings.TrimSpace(name))
	if err != nil {
		r.logger.Warn("forward geocoding failed", "city", name, "error", err)
		return City{}, fmt.Errorf("%w: %q", ErrCityNotFound, name)
	}
	if result.Lat == 0 && result.Lon == 0 {
		return City{}, fmt.Errorf("%w: %q", ErrCityNotFound, name)
	}

	resolved := result.PlaceName
	if resolved == "" {
		resolved = CanonicalName(name)
	}
	return City{Name: resolved, Latitude: result.Lat, Longitude: result.Lon}, nil
}

// ReverseGeocode returns the nearest known city within ~50 km, using
// Euclidean distance in degree space. Otherwise it asks the optional
// geocoder for a place name, and finally synthesises a name from the raw
// coordinates. It never fails.
func (r *Resolver) ReverseGeocode(ctx context.Context, lat, lon float64) City {
	minDistance := math.Inf(1)
	var closest *knownCity

	for i := range knownCities {
		c := &knownCities[i]
		d := math.Hypot(c.lat-lat, c.lon-lon)
		if d < minDistance {
			minDistance = d
			closest = c
		}
	}

	if closest != nil && minDistance < nearestCityThreshold {
		return closest.city()
	}

	if r.geocoder != nil {
		result, err := r.geocoder.ReverseGeocode(ctx, lat, lon)
		switch {
		case err != nil:
			r.logger.Warn("reverse geocoding failed", "lat", lat, "lon", lon, "error", err)
		case result.PlaceName != "":
			return City{Name: result.PlaceName, Latitude: lat, Longitude: lon}
		}
	}

	return City{
		Name:      fmt.Sprintf("Location (%.4f, %.4f)", lat, lon),
		Latitude:  lat,
		Longitude: lon,
	}
}

// Cities lists the static table in declaration order.
func (r *Resolver) Cities() []City {
	cities := make([]City, 0, len(knownCities))
	for _, c := range knownCities {
		cities = append(cities, c.city())
	}
	return cities
}

func (c knownCity) city() City {
	return City{Name: CanonicalName(c.key), Latitude: c.lat, Longitude: c.lon}
}
