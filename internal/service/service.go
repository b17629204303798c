// Package service runs the smart-city request flows: resolve a location,
// gather readings, score them, derive insights and alerts, and keep the
// per-city snapshot current.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"

	"github.com/couchcryptid/smart-city-service/internal/domain"
	"github.com/couchcryptid/smart-city-service/internal/observability"
	"github.com/couchcryptid/smart-city-service/internal/store"
)

var tracer = otel.Tracer("SmartCityService")

// Resolver maps names and coordinates to cities.
type Resolver interface {
	Geocode(ctx context.Context, name string) (domain.City, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) domain.City
	Cities() []domain.City
}

// Gateway supplies per-domain readings and never fails.
type Gateway interface {
	FetchAirQuality(ctx context.Context, city domain.City, useAPI bool) domain.AirQualityReading
	FetchWeather(ctx context.Context, city domain.City, useAPI bool) domain.WeatherReading
	FetchTraffic(ctx context.Context, city domain.City, useAPI bool) domain.TrafficReading
	FetchParking(ctx context.Context, city domain.City, useAPI bool) domain.ParkingReading
	FetchActivity(ctx context.Context, city domain.City, useAPI bool) domain.ActivityReading
	FetchAll(ctx context.Context, city domain.City, useAPI bool) domain.Readings
}

// Generator draws the random values no data source provides.
type Generator interface {
	RoadCondition() int
	NearbyEvents() int
	DefaultMetrics(now time.Time) domain.CityMetrics
	Points(center domain.Geo, layer domain.HeatmapLayer) []domain.HeatPoint
}

// AlertPublisher forwards raised alerts downstream.
type AlertPublisher interface {
	Publish(ctx context.Context, events []domain.AlertEvent) error
}

// Deps are the collaborators of a Service. Publisher may be nil.
type Deps struct {
	Resolver  Resolver
	Gateway   Gateway
	Store     store.Store
	Generator Generator
	Publisher AlertPublisher
	Clock     clockwork.Clock
	Logger    *slog.Logger
	Metrics   *observability.Metrics
}

// Service implements the request flows on top of its Deps.
type Service struct {
	resolver  Resolver
	gateway   Gateway
	store     store.Store
	gen       Generator
	publisher AlertPublisher
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Service. A nil Clock defaults to the real clock.
func New(d Deps) *Service {
	clock := d.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		resolver:  d.Resolver,
		gateway:   d.Gateway,
		store:     d.Store,
		gen:       d.Generator,
		publisher: d.Publisher,
		clock:     clock,
		logger:    d.Logger,
		metrics:   d.Metrics,
	}
}

// LocationQuery names a place by city name or by coordinates. The name
// wins when both are given.
type LocationQuery struct {
	City   string
	Coords *domain.Geo
}

func (q LocationQuery) empty() bool {
	return q.City == "" && q.Coords == nil
}

// resolve turns a query into a City. Names that match nothing return
// domain.ErrCityNotFound; coordinates always resolve.
func (s *Service) resolve(ctx context.Context, q LocationQuery) (domain.City, error) {
	switch {
	case q.City != "":
		return s.resolver.Geocode(ctx, q.City)
	case q.Coords != nil:
		return s.resolver.ReverseGeocode(ctx, q.Coords.Lat, q.Coords.Lon), nil
	default:
		return domain.City{}, domain.ErrCityNotFound
	}
}

// cityMetrics returns the stored snapshot for name, creating a random
// default on first sight.
func (s *Service) cityMetrics(name string) domain.CityMetrics {
	return s.store.GetOrCreate(domain.CanonicalName(name), func() domain.CityMetrics {
		return s.gen.DefaultMetrics(s.clock.Now())
	})
}

// Cities lists the cities the resolver knows without a geocoder.
func (s *Service) Cities() []domain.City {
	return s.resolver.Cities()
}
