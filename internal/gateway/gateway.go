package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/smart-city-service/internal/domain"
	"github.com/couchcryptid/smart-city-service/internal/observability"
)

// Domain names used in cache keys, metrics and logs.
const (
	DomainAirQuality = "air_quality"
	DomainWeather    = "weather"
	DomainTraffic    = "traffic"
	DomainParking    = "parking"
	DomainActivity   = "activity"
)

// Gateway supplies per-domain readings. Each fetch tries the live providers
// in order and falls back to synthetic data; it never returns an error.
type Gateway struct {
	providers Providers
	synth     *Synthesizer
	cache     *cache.Cache // nil when caching is disabled
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Gateway. A cacheTTL of zero disables the live-reading cache.
func New(providers Providers, synth *Synthesizer, cacheTTL time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Gateway {
	g := &Gateway{
		providers: providers,
		synth:     synth,
		logger:    logger,
		metrics:   metrics,
	}
	if cacheTTL > 0 {
		g.cache = cache.New(cacheTTL, 2*cacheTTL)
	}
	return g
}

// FetchAirQuality returns an air quality reading for the city.
func (g *Gateway) FetchAirQuality(ctx context.Context, city domain.City, useAPI bool) domain.AirQualityReading {
	return fetch(ctx, g, DomainAirQuality, city, useAPI, g.providers.AirQuality, func() domain.AirQualityReading {
		return g.synth.AirQuality(city.Name)
	})
}

// FetchWeather returns a weather reading for the city.
func (g *Gateway) FetchWeather(ctx context.Context, city domain.City, useAPI bool) domain.WeatherReading {
	return fetch(ctx, g, DomainWeather, city, useAPI, g.providers.Weather, g.synth.Weather)
}

// FetchTraffic returns a traffic reading for the city.
func (g *Gateway) FetchTraffic(ctx context.Context, city domain.City, useAPI bool) domain.TrafficReading {
	return fetch(ctx, g, DomainTraffic, city, useAPI, g.providers.Traffic, func() domain.TrafficReading {
		return g.synth.Traffic(city.Name)
	})
}

// FetchParking returns a parking reading for the city.
func (g *Gateway) FetchParking(ctx context.Context, city domain.City, useAPI bool) domain.ParkingReading {
	return fetch(ctx, g, DomainParking, city, useAPI, g.providers.Parking, g.synth.Parking)
}

// FetchActivity returns a citizen activity reading for the city.
func (g *Gateway) FetchActivity(ctx context.Context, city domain.City, useAPI bool) domain.ActivityReading {
	return fetch(ctx, g, DomainActivity, city, useAPI, g.providers.Activity, func() domain.ActivityReading {
		return g.synth.Activity(city.Name)
	})
}

// FetchAll gathers all five readings concurrently.
func (g *Gateway) FetchAll(ctx context.Context, city domain.City, useAPI bool) domain.Readings {
	var r domain.Readings
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error { r.AirQuality = g.FetchAirQuality(ctx, city, useAPI); return nil })
	eg.Go(func() error { r.Weather = g.FetchWeather(ctx, city, useAPI); return nil })
	eg.Go(func() error { r.Traffic = g.FetchTraffic(ctx, city, useAPI); return nil })
	eg.Go(func() error { r.Parking = g.FetchParking(ctx, city, useAPI); return nil })
	eg.Go(func() error { r.Activity = g.FetchActivity(ctx, city, useAPI); return nil })

	_ = eg.Wait() // fetches never fail
	return r
}

// validator is implemented by readings that can be structurally unusable.
type validator interface {
	Validate() error
}

func fetch[T any](ctx context.Context, g *Gateway, domainName string, city domain.City, useAPI bool, providers []Provider[T], synthesize func() T) T {
	ctx, span := otel.Tracer("Gateway").Start(ctx, "Fetch."+domainName, trace.WithAttributes(
		attribute.String("city", city.Name),
		attribute.Bool("use_api", useAPI),
	))
	defer span.End()

	if useAPI {
		for _, p := range providers {
			reading, ok := fetchLive(ctx, g, span, domainName, city, p)
			if ok {
				span.SetAttributes(attribute.String("source", p.Name()))
				return reading
			}
		}
	}

	g.metrics.SyntheticFallbacks.WithLabelValues(domainName).Inc()
	span.SetAttributes(attribute.String("source", "synthetic"))
	return synthesize()
}

func fetchLive[T any](ctx context.Context, g *Gateway, span trace.Span, domainName string, city domain.City, p Provider[T]) (T, bool) {
	var zero T
	key := cacheKey(domainName, p.Name(), city)

	if g.cache != nil {
		if cached, found := g.cache.Get(key); found {
			if reading, ok := cached.(T); ok {
				g.metrics.ProviderCache.WithLabelValues(domainName, "hit").Inc()
				return reading, true
			}
		}
		g.metrics.ProviderCache.WithLabelValues(domainName, "miss").Inc()
	}

	start := time.Now()
	reading, err := p.Fetch(ctx, city)
	g.metrics.ProviderDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())
	if err == nil {
		if v, ok := any(reading).(validator); ok {
			err = v.Validate()
		}
	}
	if err != nil {
		g.logger.Warn("live provider failed, falling back",
			"provider", p.Name(),
			"domain", domainName,
			"city", city.Name,
			"error", err,
		)
		g.metrics.ProviderRequests.WithLabelValues(p.Name(), domainName, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, p.Name()+" request failed")
		return zero, false
	}

	g.metrics.ProviderRequests.WithLabelValues(p.Name(), domainName, "success").Inc()
	if g.cache != nil {
		g.cache.Set(key, reading, cache.DefaultExpiration)
	}
	return reading, true
}

func cacheKey(domainName, provider string, city domain.City) string {
	return fmt.Sprintf("%s|%s|%.4f,%.4f|%s", domainName, provider, city.Latitude, city.Longitude, strings.ToLower(city.Name))
}
