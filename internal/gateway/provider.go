package gateway

import (
	"context"

	"github.com/couchcryptid/smart-city-service/internal/domain"
)

// Provider is a live source for one reading type.
type Provider[T any] interface {
	Name() string
	Fetch(ctx context.Context, city domain.City) (T, error)
}

type providerFunc[T any] struct {
	name string
	fn   func(ctx context.Context, city domain.City) (T, error)
}

// NewProvider adapts a client method to a Provider.
func NewProvider[T any](name string, fn func(ctx context.Context, city domain.City) (T, error)) Provider[T] {
	return providerFunc[T]{name: name, fn: fn}
}

func (p providerFunc[T]) Name() string { return p.name }

func (p providerFunc[T]) Fetch(ctx context.Context, city domain.City) (T, error) {
	return p.fn(ctx, city)
}

// Providers lists the live sources per domain, tried in order.
type Providers struct {
	AirQuality []Provider[domain.AirQualityReading]
	Weather    []Provider[domain.WeatherReading]
	Traffic    []Provider[domain.TrafficReading]
	Parking    []Provider[domain.ParkingReading]
	Activity   []Provider[domain.ActivityReading]
}

// Empty reports whether no live provider is configured.
func (p Providers) Empty() bool {
	return len(p.AirQuality) == 0 && len(p.Weather) == 0 && len(p.Traffic) == 0 &&
		len(p.Parking) == 0 && len(p.Activity) == 0
}
