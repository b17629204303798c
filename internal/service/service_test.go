package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/smart-city-service/internal/domain"
	"github.com/couchcryptid/smart-city-service/internal/observability"
	"github.com/couchcryptid/smart-city-service/internal/store"
)

// --- fakes ---

type fakeGateway struct {
	readings domain.Readings
	useAPI   []bool
	cities   []domain.City
}

func (g *fakeGateway) record(city domain.City, useAPI bool) {
	g.cities = append(g.cities, city)
	g.useAPI = append(g.useAPI, useAPI)
}

func (g *fakeGateway) FetchAirQuality(_ context.Context, c domain.City, u bool) domain.AirQualityReading {
	g.record(c, u)
	return g.readings.AirQuality
}

func (g *fakeGateway) FetchWeather(_ context.Context, c domain.City, u bool) domain.WeatherReading {
	g.record(c, u)
	return g.readings.Weather
}

func (g *fakeGateway) FetchTraffic(_ context.Context, c domain.City, u bool) domain.TrafficReading {
	g.record(c, u)
	return g.readings.Traffic
}

func (g *fakeGateway) FetchParking(_ context.Context, c domain.City, u bool) domain.ParkingReading {
	g.record(c, u)
	return g.readings.Parking
}

func (g *fakeGateway) FetchActivity(_ context.Context, c domain.City, u bool) domain.ActivityReading {
	g.record(c, u)
	return g.readings.Activity
}

func (g *fakeGateway) FetchAll(_ context.Context, c domain.City, u bool) domain.Readings {
	g.record(c, u)
	return g.readings
}

type fakeGenerator struct{}

func (fakeGenerator) RoadCondition() int { return 1 }
func (fakeGenerator) NearbyEvents() int  { return 0 }

func (fakeGenerator) DefaultMetrics(now time.Time) domain.CityMetrics {
	return domain.CityMetrics{
		AirQuality:        120,
		AccidentRisk:      domain.RiskMedium,
		ParkingStatus:     domain.ParkingAvailable,
		ActivityLevel:     domain.ActivityLow,
		EnergyConsumption: 4500,
		TrafficCongestion: 0.8,
		LastUpdated:       now,
	}
}

func (fakeGenerator) Points(center domain.Geo, layer domain.HeatmapLayer) []domain.HeatPoint {
	points := make([]domain.HeatPoint, layer.Count)
	for i := range points {
		points[i] = domain.HeatPoint{center.Lat, center.Lon, layer.Intensity.Max}
	}
	return points
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.AlertEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, events []domain.AlertEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.err
}

// --- fixtures ---

var fixedNow = time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)

// severeReadings score High risk, Full parking and High activity with an
// AQI of 210.
func severeReadings() domain.Readings {
	return domain.Readings{
		AirQuality: domain.AirQualityReading{PM25: 100, PM10: 150, NO2: 40, CO: 1.5, SO2: 20, AQI: 210, Source: "OpenWeatherMap"},
		Weather:    domain.WeatherReading{Temperature: 30, Humidity: 50, WindSpeed: 10, Visibility: 0.5, WeatherCondition: domain.WeatherRainy, Source: "OpenWeatherMap"},
		Traffic:    domain.TrafficReading{VehicleDensity: 400, AvgSpeed: 30, Source: domain.SourceSimulated},
		Parking:    domain.ParkingReading{ParkingCapacity: 100, OccupiedSlots: 130, EntryRate: 20, ExitRate: 5, Source: domain.SourceSimulated},
		Activity:   domain.ActivityReading{PopulationDensity: 15000, AvgAge: 30, WorkplaceCount: 50, PublicEvents: 5, Source: domain.SourceSimulated},
	}
}

type fixture struct {
	svc       *Service
	gateway   *fakeGateway
	store     *store.FileStore
	publisher *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	f := &fixture{
		gateway:   &fakeGateway{readings: severeReadings()},
		store:     store.Open("", logger, metrics),
		publisher: &fakePublisher{},
	}
	f.svc = New(Deps{
		Resolver:  domain.NewResolver(nil, logger),
		Gateway:   f.gateway,
		Store:     f.store,
		Generator: fakeGenerator{},
		Publisher: f.publisher,
		Clock:     clockwork.NewFakeClockAt(fixedNow),
		Logger:    logger,
		Metrics:   metrics,
	})
	return f
}

// --- PredictCity ---

func TestPredictCity_ByName(t *testing.T) {
	f := newFixture(t)

	got, err := f.svc.PredictCity(context.Background(), LocationQuery{City: "new delhi"}, true)
	require.NoError(t, err)

	assert.Equal(t, "New Delhi", got.City)
	assert.Equal(t, domain.Geo{Lat: 28.6139, Lon: 77.2090}, got.Location)
	assert.InDelta(t, 210, got.Metrics.AirQuality, 1e-9)
	assert.Equal(t, domain.RiskHigh, got.Metrics.AccidentRisk)
	assert.Equal(t, domain.ParkingFull, got.Metrics.ParkingStatus)
	assert.Equal(t, domain.ActivityHigh, got.Metrics.ActivityLevel)
	assert.InDelta(t, 41.2, got.Score, 1e-9)
	assert.Equal(t, "Moderate", got.Status.Status)
	assert.Equal(t, fixedNow, got.LastUpdated)

	assert.InDelta(t, 500, got.Metrics.RawData.AccidentRisk.Visibility, 1e-9)
	assert.Equal(t, 1, got.Metrics.RawData.AccidentRisk.RoadCondition)
	assert.InDelta(t, 30, got.Metrics.RawData.AirQuality.Temperature, 1e-9, "filled from weather")
	assert.InDelta(t, 10, got.Metrics.RawData.AirQuality.WindSpeed, 1e-9, "filled from weather")

	assert.Len(t, got.Alerts, 4)
	assert.Equal(t, domain.AlertError, got.Alerts[0].Type)
	assert.Equal(t, "air_quality", got.Alerts[0].Metric)

	assert.Empty(t, got.Insights.Strengths)
	assert.Len(t, got.Insights.Concerns, 6)
}

func TestPredictCity_OverwritesSnapshot(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PredictCity(context.Background(), LocationQuery{City: "Mumbai"}, true)
	require.NoError(t, err)

	m, ok := f.store.Get("Mumbai")
	require.True(t, ok)
	assert.InDelta(t, 210, m.AirQuality, 1e-9)
	assert.Equal(t, domain.RiskHigh, m.AccidentRisk)
	assert.InDelta(t, 4500, m.EnergyConsumption, 1e-9, "untouched fields keep their defaults")
	assert.Equal(t, fixedNow, m.LastUpdated)
}

func TestPredictCity_PublishesAlerts(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PredictCity(context.Background(), LocationQuery{City: "Mumbai"}, true)
	require.NoError(t, err)

	require.Len(t, f.publisher.events, 4)
	ids := make(map[string]bool)
	for _, e := range f.publisher.events {
		assert.Equal(t, "Mumbai", e.City)
		assert.Equal(t, fixedNow, e.RaisedAt)
		assert.NotEmpty(t, e.ID)
		ids[e.ID] = true
	}
	assert.Len(t, ids, 4, "ids are unique")
}

func TestPredictCity_PublishFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")

	got, err := f.svc.PredictCity(context.Background(), LocationQuery{City: "Mumbai"}, true)

	require.NoError(t, err)
	assert.Len(t, got.Alerts, 4)
}

func TestPredictCity_WithoutAPIComputesAQI(t *testing.T) {
	f := newFixture(t)

	got, err := f.svc.PredictCity(context.Background(), LocationQuery{City: "Pune"}, false)
	require.NoError(t, err)

	assert.InDelta(t, 105.5, got.Metrics.AirQuality, 1e-9)
	assert.Equal(t, []bool{false}, f.gateway.useAPI)
}

func TestPredictCity_ByCoordinates(t *testing.T) {
	f := newFixture(t)

	got, err := f.svc.PredictCity(context.Background(), LocationQuery{Coords: &domain.Geo{Lat: 0, Lon: 0}}, true)
	require.NoError(t, err)

	assert.Equal(t, "Location (0.0000, 0.0000)", got.City)
}

func TestPredictCity_Unresolvable(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PredictCity(context.Background(), LocationQuery{City: "Unknownsville"}, true)
	require.ErrorIs(t, err, domain.ErrCityNotFound)

	_, err = f.svc.PredictCity(context.Background(), LocationQuery{}, true)
	require.ErrorIs(t, err, domain.ErrCityNotFound)
	assert.Empty(t, f.gateway.cities, "no data fetched")
}

func TestPredictCity_ZeroCapacityFails(t *testing.T) {
	f := newFixture(t)
	f.gateway.readings.Parking.ParkingCapacity = 0

	_, err := f.svc.PredictCity(context.Background(), LocationQuery{City: "Pune"}, true)

	require.ErrorIs(t, err, domain.ErrZeroCapacity)
	_, stored := f.store.Get("Pune")
	assert.False(t, stored)
}

// --- CityScore ---

func TestCityScore_Sample(t *testing.T) {
	f := newFixture(t)

	got := f.svc.CityScore(context.Background(), "")

	assert.InDelta(t, 77.4, got.Score, 1e-9)
	assert.Equal(t, "Good", got.Status.Status)
	assert.Equal(t, "2026-03-04 14:00:00", got.Timestamp)
	assert.Equal(t, sampleInputs, got.Metrics)
	assert.Empty(t, got.City)
}

func TestCityScore_KnownCity(t *testing.T) {
	f := newFixture(t)

	got := f.svc.CityScore(context.Background(), "Chennai")

	assert.Equal(t, "Chennai", got.City)
	assert.InDelta(t, 41.2, got.Score, 1e-9)
	require.IsType(t, ModelRun{}, got.Metrics)

	m, ok := f.store.Get("Chennai")
	require.True(t, ok, "snapshot created on first sight")
	assert.InDelta(t, 120, m.AirQuality, 1e-9, "score does not overwrite the snapshot")
}

func TestCityScore_UnknownCityUsesSample(t *testing.T) {
	f := newFixture(t)

	got := f.svc.CityScore(context.Background(), "Unknownsville")

	assert.InDelta(t, 77.4, got.Score, 1e-9)
	assert.Empty(t, got.City)
}

// --- Alerts ---

func TestAlerts(t *testing.T) {
	f := newFixture(t)

	assert.Empty(t, f.svc.Alerts(""))
	assert.NotNil(t, f.svc.Alerts(""))

	alerts := f.svc.Alerts("pune")
	require.Len(t, alerts, 2)
	assert.Equal(t, "air_quality", alerts[0].Metric)
	assert.Equal(t, domain.AlertWarning, alerts[0].Type)
	assert.Equal(t, "accident_risk", alerts[1].Metric)

	_, ok := f.store.Get("Pune")
	assert.True(t, ok)
}

// --- Heatmap ---

func TestHeatmap_Default(t *testing.T) {
	f := newFixture(t)

	got := f.svc.Heatmap(context.Background(), LocationQuery{})

	require.Len(t, got, 4)
	assert.Len(t, got["accident_risk"], 100)
	assert.Len(t, got["air_quality"], 150)
	assert.Len(t, got["parking"], 50)
	assert.Len(t, got["crowd_density"], 200)
	assert.InDelta(t, domain.DefaultCenter.Lat, got["parking"][0][0], 1e-9)
	assert.InDelta(t, 1.0, got["parking"][0][2], 1e-9, "default intensity range")
}

func TestHeatmap_City(t *testing.T) {
	f := newFixture(t)

	got := f.svc.Heatmap(context.Background(), LocationQuery{City: "Tokyo"})

	p := got["accident_risk"][0]
	assert.InDelta(t, 35.6762, p[0], 1e-9)
	assert.InDelta(t, 139.6503, p[1], 1e-9)
	assert.InDelta(t, 0.7, p[2], 1e-9, "medium risk range")
}

func TestHeatmap_Coordinates(t *testing.T) {
	f := newFixture(t)

	got := f.svc.Heatmap(context.Background(), LocationQuery{Coords: &domain.Geo{Lat: 10, Lon: 20}})

	assert.InDelta(t, 10, got["air_quality"][0][0], 1e-9)
	assert.InDelta(t, 20, got["air_quality"][0][1], 1e-9)
}

// --- FetchData ---

func TestFetchData_Accident(t *testing.T) {
	f := newFixture(t)

	got, err := f.svc.FetchData(context.Background(), "accident", LocationQuery{City: "Kolkata"})
	require.NoError(t, err)

	data, ok := got.(AccidentData)
	require.True(t, ok)
	assert.Equal(t, 400, data.VehicleDensity)
	assert.InDelta(t, 0.5, data.Visibility, 1e-9)
	assert.Equal(t, "OpenWeatherMap", data.WeatherSource)
	assert.Equal(t, domain.SourceSimulated, data.Source)

	require.NotEmpty(t, f.gateway.cities)
	assert.InDelta(t, 22.5726, f.gateway.cities[0].Latitude, 1e-9, "name geocoded for coordinates")
}

func TestFetchData_Modules(t *testing.T) {
	f := newFixture(t)
	q := LocationQuery{Coords: &domain.Geo{Lat: 1, Lon: 2}}

	air, err := f.svc.FetchData(context.Background(), "air_quality", q)
	require.NoError(t, err)
	assert.IsType(t, domain.AirQualityReading{}, air)

	parking, err := f.svc.FetchData(context.Background(), "parking", q)
	require.NoError(t, err)
	assert.IsType(t, domain.ParkingReading{}, parking)

	activity, err := f.svc.FetchData(context.Background(), "activity", q)
	require.NoError(t, err)
	assert.IsType(t, domain.ActivityReading{}, activity)
}

func TestFetchData_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.FetchData(context.Background(), "parking", LocationQuery{})
	require.ErrorIs(t, err, domain.ErrMissingLocation)

	_, err = f.svc.FetchData(context.Background(), "weather", LocationQuery{City: "Pune"})
	require.ErrorIs(t, err, domain.ErrUnknownModule)
}

// --- Predict ---

func TestPredict(t *testing.T) {
	f := newFixture(t)

	got, err := f.svc.Predict("parking", domain.Fields{
		"parking_capacity": 100, "occupied_slots": 130, "entry_rate": 20, "exit_rate": 5,
		"time_of_day": 1, "weekday": 2, "nearby_events": 0,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ParkingFull, got.Prediction)

	_, err = f.svc.Predict("weather", domain.Fields{})
	require.ErrorIs(t, err, domain.ErrUnknownModule)

	_, err = f.svc.Predict("accident", domain.Fields{"vehicle_density": "abc"})
	var inputErr *domain.InputError
	require.ErrorAs(t, err, &inputErr)
}

func TestMondayFirst(t *testing.T) {
	assert.Equal(t, 0, mondayFirst(time.Monday))
	assert.Equal(t, 5, mondayFirst(time.Saturday))
	assert.Equal(t, 6, mondayFirst(time.Sunday))
}

func TestCheckReadiness(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.svc.CheckReadiness(context.Background()))
}
