package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/smart-city-service/internal/domain"
)

func TestSynthesizer_AirQualityRanges(t *testing.T) {
	s := NewSynthesizer(42)
	tests := []struct {
		city     string
		min, max float64
	}{
		{"New Delhi", 180, 350},
		{"Mumbai", 100, 200},
		{"Bengaluru", 80, 150},
		{"Bangalore", 80, 150},
		{"Tokyo", 50, 150},
	}
	for _, tt := range tests {
		t.Run(tt.city, func(t *testing.T) {
			for range 50 {
				r := s.AirQuality(tt.city)
				assert.GreaterOrEqual(t, r.AQI, tt.min)
				assert.LessOrEqual(t, r.AQI, tt.max)
				assert.InDelta(t, r.AQI*0.6, r.PM25, 0.2)
				assert.Equal(t, domain.SourceSimulatedRealistic, r.Source)
			}
		})
	}
}

func TestSynthesizer_Traffic(t *testing.T) {
	s := NewSynthesizer(7)
	for range 50 {
		r := s.Traffic("mumbai")
		assert.GreaterOrEqual(t, r.VehicleDensity, 300)
		assert.LessOrEqual(t, r.VehicleDensity, 500)
		assert.GreaterOrEqual(t, r.AvgSpeed, 25)
		assert.LessOrEqual(t, r.AvgSpeed, 50)

		r = s.Traffic("Paris")
		assert.GreaterOrEqual(t, r.VehicleDensity, 150)
		assert.LessOrEqual(t, r.VehicleDensity, 350)
	}
}

func TestSynthesizer_Weather(t *testing.T) {
	s := NewSynthesizer(7)
	for range 50 {
		r := s.Weather()
		assert.GreaterOrEqual(t, r.WeatherCondition, domain.WeatherClear)
		assert.LessOrEqual(t, r.WeatherCondition, domain.WeatherFoggy)
		assert.GreaterOrEqual(t, r.Visibility, 2.0)
		assert.LessOrEqual(t, r.Visibility, 10.0)
		assert.Contains(t, weatherDescriptions, r.WeatherDescription)
		assert.Equal(t, domain.SourceSimulated, r.Source)
	}
}

func TestSynthesizer_ParkingAlwaysValid(t *testing.T) {
	s := NewSynthesizer(3)
	for range 100 {
		r := s.Parking()
		assert.NoError(t, r.Validate())
		assert.GreaterOrEqual(t, r.ParkingCapacity, 100)
	}
}

func TestSynthesizer_Activity(t *testing.T) {
	s := NewSynthesizer(3)
	for range 50 {
		r := s.Activity("Delhi")
		assert.GreaterOrEqual(t, r.PopulationDensity, 10000)
		assert.LessOrEqual(t, r.PopulationDensity, 20000)
		assert.GreaterOrEqual(t, r.PublicEvents, 0)
		assert.LessOrEqual(t, r.PublicEvents, 5)
	}
}

func TestSynthesizer_DefaultMetrics(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewSynthesizer(9).DefaultMetrics(now)

	assert.Equal(t, now, m.LastUpdated)
	assert.GreaterOrEqual(t, m.AirQuality, 30.0)
	assert.LessOrEqual(t, m.AirQuality, 150.0)
	assert.Contains(t, riskLevels, m.AccidentRisk)
	assert.Contains(t, parkingLevels, m.ParkingStatus)
	assert.Contains(t, activityLevels, m.ActivityLevel)
	assert.GreaterOrEqual(t, m.TrafficCongestion, 0.1)
	assert.LessOrEqual(t, m.TrafficCongestion, 0.9)
}

func TestSynthesizer_SameSeedIsReproducible(t *testing.T) {
	a := NewSynthesizer(99).AirQuality("Delhi")
	b := NewSynthesizer(99).AirQuality("Delhi")
	assert.Equal(t, a, b)
}

func TestSynthesizer_Points(t *testing.T) {
	s := NewSynthesizer(5)
	layer := domain.HeatmapLayer{Name: "parking", Count: 50, RadiusKm: 5, Intensity: domain.IntensityRange{Min: 0.4, Max: 0.9}}

	points := s.Points(domain.DefaultCenter, layer)

	assert.Len(t, points, 50)
	for _, p := range points {
		assert.InDelta(t, domain.DefaultCenter.Lat, p[0], 0.05)
		assert.InDelta(t, domain.DefaultCenter.Lon, p[1], 0.05)
		assert.GreaterOrEqual(t, p[2], 0.4)
		assert.LessOrEqual(t, p[2], 0.9)
	}
}
