package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/smart-city-service/internal/domain"
	"github.com/couchcryptid/smart-city-service/internal/observability"
)

var delhi = domain.City{Name: "Delhi", Latitude: 28.6139, Longitude: 77.2090}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGateway(providers Providers, ttl time.Duration) (*Gateway, *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	return New(providers, NewSynthesizer(1), ttl, discardLogger(), m), m
}

func countingProvider[T any](name string, calls *atomic.Int32, reading T, err error) Provider[T] {
	return NewProvider(name, func(context.Context, domain.City) (T, error) {
		calls.Add(1)
		return reading, err
	})
}

func TestFetchWeather_LiveProvider(t *testing.T) {
	var calls atomic.Int32
	live := domain.WeatherReading{Temperature: 21, Visibility: 8, Source: "OpenWeatherMap"}
	g, m := newTestGateway(Providers{
		Weather: []Provider[domain.WeatherReading]{countingProvider("openweather", &calls, live, nil)},
	}, 0)

	got := g.FetchWeather(context.Background(), delhi, true)

	assert.Equal(t, live, got)
	assert.Equal(t, int32(1), calls.Load())
	assert.InDelta(t, 1, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("openweather", DomainWeather, "success")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.SyntheticFallbacks.WithLabelValues(DomainWeather)), 0)
}

func TestFetchWeather_UseAPIFalseSkipsProviders(t *testing.T) {
	var calls atomic.Int32
	g, m := newTestGateway(Providers{
		Weather: []Provider[domain.WeatherReading]{countingProvider("openweather", &calls, domain.WeatherReading{}, nil)},
	}, 0)

	got := g.FetchWeather(context.Background(), delhi, false)

	assert.Equal(t, domain.SourceSimulated, got.Source)
	assert.Zero(t, calls.Load())
	assert.InDelta(t, 1, testutil.ToFloat64(m.SyntheticFallbacks.WithLabelValues(DomainWeather)), 0)
}

func TestFetchAirQuality_FallsThroughProviders(t *testing.T) {
	var first, second atomic.Int32
	live := domain.AirQualityReading{PM25: 80, AQI: 150, Source: "AirVisual"}
	g, m := newTestGateway(Providers{
		AirQuality: []Provider[domain.AirQualityReading]{
			countingProvider("openweather", &first, domain.AirQualityReading{}, errors.New("status 401")),
			countingProvider("airvisual", &second, live, nil),
		},
	}, 0)

	got := g.FetchAirQuality(context.Background(), delhi, true)

	assert.Equal(t, live, got)
	assert.Equal(t, int32(1), first.Load())
	assert.Equal(t, int32(1), second.Load())
	assert.InDelta(t, 1, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("openweather", DomainAirQuality, "error")), 0)
}

func TestFetchAirQuality_AllProvidersFail(t *testing.T) {
	var calls atomic.Int32
	g, _ := newTestGateway(Providers{
		AirQuality: []Provider[domain.AirQualityReading]{
			countingProvider("openweather", &calls, domain.AirQualityReading{}, context.DeadlineExceeded),
		},
	}, 0)

	got := g.FetchAirQuality(context.Background(), delhi, true)

	assert.Equal(t, domain.SourceSimulatedRealistic, got.Source)
	assert.GreaterOrEqual(t, got.AQI, 180.0)
}

func TestFetchParking_InvalidLiveReadingFallsBack(t *testing.T) {
	var calls atomic.Int32
	g, m := newTestGateway(Providers{
		Parking: []Provider[domain.ParkingReading]{
			countingProvider("lots", &calls, domain.ParkingReading{ParkingCapacity: 0, OccupiedSlots: 10}, nil),
		},
	}, 0)

	got := g.FetchParking(context.Background(), delhi, true)

	require.NoError(t, got.Validate())
	assert.Equal(t, domain.SourceSimulated, got.Source)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("lots", DomainParking, "error")), 0)
}

func TestFetchWeather_CachesLiveReadings(t *testing.T) {
	var calls atomic.Int32
	live := domain.WeatherReading{Temperature: 30, Source: "OpenWeatherMap"}
	g, m := newTestGateway(Providers{
		Weather: []Provider[domain.WeatherReading]{countingProvider("openweather", &calls, live, nil)},
	}, time.Minute)

	first := g.FetchWeather(context.Background(), delhi, true)
	second := g.FetchWeather(context.Background(), delhi, true)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
	assert.InDelta(t, 1, testutil.ToFloat64(m.ProviderCache.WithLabelValues(DomainWeather, "hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ProviderCache.WithLabelValues(DomainWeather, "miss")), 0)
}

func TestFetchWeather_FailuresAreNotCached(t *testing.T) {
	var calls atomic.Int32
	g, _ := newTestGateway(Providers{
		Weather: []Provider[domain.WeatherReading]{countingProvider("openweather", &calls, domain.WeatherReading{}, errors.New("boom"))},
	}, time.Minute)

	g.FetchWeather(context.Background(), delhi, true)
	g.FetchWeather(context.Background(), delhi, true)

	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchAll_FillsEveryDomain(t *testing.T) {
	g, _ := newTestGateway(Providers{}, 0)

	r := g.FetchAll(context.Background(), delhi, true)

	assert.Equal(t, domain.SourceSimulatedRealistic, r.AirQuality.Source)
	assert.Equal(t, domain.SourceSimulated, r.Weather.Source)
	assert.Equal(t, domain.SourceSimulated, r.Traffic.Source)
	assert.Equal(t, domain.SourceSimulated, r.Parking.Source)
	assert.Equal(t, domain.SourceSimulated, r.Activity.Source)
}

func TestProviders_Empty(t *testing.T) {
	assert.True(t, Providers{}.Empty())
	assert.False(t, Providers{
		Traffic: []Provider[domain.TrafficReading]{NewProvider("x", func(context.Context, domain.City) (domain.TrafficReading, error) {
			return domain.TrafficReading{}, nil
		})},
	}.Empty())
}
