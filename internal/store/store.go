// Package store persists the last known metrics snapshot per city.
package store

import "github.com/couchcryptid/smart-city-service/internal/domain"

// Store maps a canonical city name to its latest metrics. Implementations
// guard their own state, but a Get followed by a Put is not atomic: two
// requests updating the same city race and the last Put wins.
type Store interface {
	Get(name string) (domain.CityMetrics, bool)
	GetOrCreate(name string, create func() domain.CityMetrics) domain.CityMetrics
	Put(name string, m domain.CityMetrics) error
	All() map[string]domain.CityMetrics
}
