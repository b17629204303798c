package gateway

import (
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/couchcryptid/smart-city-service/internal/domain"
)

// Synthesizer produces plausible readings when no live data is available.
// Ranges depend on a few recognised city-name substrings. It is safe for
// concurrent use.
type Synthesizer struct {
	faker *gofakeit.Faker
}

// NewSynthesizer creates a Synthesizer. A zero seed picks a random one;
// any other seed gives a reproducible sequence.
func NewSynthesizer(seed uint64) *Synthesizer {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Synthesizer{faker: gofakeit.NewFaker(rand.NewPCG(seed, seed), true)}
}

type cityProfile int

const (
	profileDefault cityProfile = iota
	profileDelhi
	profileMumbai
	profileBangalore
)

func profileFor(cityName string) cityProfile {
	name := strings.ToLower(cityName)
	switch {
	case strings.Contains(name, "delhi"):
		return profileDelhi
	case strings.Contains(name, "mumbai"):
		return profileMumbai
	case strings.Contains(name, "bangalore"), strings.Contains(name, "bengaluru"):
		return profileBangalore
	default:
		return profileDefault
	}
}

// AirQuality draws a base AQI from the city's range and derives pollutant
// levels from it.
func (s *Synthesizer) AirQuality(cityName string) domain.AirQualityReading {
	var baseAQI float64
	switch profileFor(cityName) {
	case profileDelhi:
		baseAQI = s.faker.Float64Range(180, 350)
	case profileMumbai:
		baseAQI = s.faker.Float64Range(100, 200)
	case profileBangalore:
		baseAQI = s.faker.Float64Range(80, 150)
	default:
		baseAQI = s.faker.Float64Range(50, 150)
	}

	return domain.AirQualityReading{
		PM25:        round1(baseAQI * 0.6),
		PM10:        round1(baseAQI * 0.8),
		NO2:         round1(baseAQI * 0.2),
		CO:          round2(baseAQI * 0.03),
		SO2:         round1(baseAQI * 0.1),
		Temperature: round1(s.faker.Float64Range(20, 35)),
		Humidity:    round1(s.faker.Float64Range(40, 80)),
		WindSpeed:   round1(s.faker.Float64Range(5, 20)),
		AQI:         round1(baseAQI),
		Source:      domain.SourceSimulatedRealistic,
	}
}

var weatherDescriptions = []string{"clear", "partly cloudy", "rainy", "foggy"}

// Weather draws conditions independent of the city.
func (s *Synthesizer) Weather() domain.WeatherReading {
	return domain.WeatherReading{
		Temperature:        round1(s.faker.Float64Range(15, 35)),
		Humidity:           round1(s.faker.Float64Range(40, 85)),
		WindSpeed:          round1(s.faker.Float64Range(5, 25)),
		Visibility:         round1(s.faker.Float64Range(2, 10)),
		WeatherCondition:   s.faker.IntRange(domain.WeatherClear, domain.WeatherFoggy),
		WeatherDescription: s.faker.RandomString(weatherDescriptions),
		Source:             domain.SourceSimulated,
	}
}

// Traffic draws density and speed; larger cities are denser and slower.
func (s *Synthesizer) Traffic(cityName string) domain.TrafficReading {
	r := domain.TrafficReading{Source: domain.SourceSimulated}
	switch profileFor(cityName) {
	case profileDelhi, profileMumbai:
		r.VehicleDensity = s.faker.IntRange(300, 500)
		r.AvgSpeed = s.faker.IntRange(25, 50)
	case profileBangalore:
		r.VehicleDensity = s.faker.IntRange(250, 400)
		r.AvgSpeed = s.faker.IntRange(30, 60)
	default:
		r.VehicleDensity = s.faker.IntRange(150, 350)
		r.AvgSpeed = s.faker.IntRange(40, 70)
	}
	return r
}

// Parking draws lot figures. Capacity is always at least 100.
func (s *Synthesizer) Parking() domain.ParkingReading {
	return domain.ParkingReading{
		ParkingCapacity: s.faker.IntRange(100, 300),
		OccupiedSlots:   s.faker.IntRange(50, 250),
		EntryRate:       round1(s.faker.Float64Range(10, 40)),
		ExitRate:        round1(s.faker.Float64Range(8, 35)),
		Source:          domain.SourceSimulated,
	}
}

// Activity draws population figures scaled by city size.
func (s *Synthesizer) Activity(cityName string) domain.ActivityReading {
	r := domain.ActivityReading{Source: domain.SourceSimulated}
	switch profileFor(cityName) {
	case profileDelhi, profileMumbai:
		r.PopulationDensity = s.faker.IntRange(10000, 20000)
		r.WorkplaceCount = s.faker.IntRange(40, 80)
	case profileBangalore:
		r.PopulationDensity = s.faker.IntRange(8000, 15000)
		r.WorkplaceCount = s.faker.IntRange(30, 60)
	default:
		r.PopulationDensity = s.faker.IntRange(5000, 12000)
		r.WorkplaceCount = s.faker.IntRange(20, 50)
	}
	r.AvgAge = s.faker.IntRange(28, 45)
	r.PublicEvents = s.faker.IntRange(0, 5)
	return r
}

// RoadCondition draws a road condition code (0 poor, 1 fair, 2 good).
func (s *Synthesizer) RoadCondition() int {
	return s.faker.IntRange(0, 2)
}

// NearbyEvents draws whether an event is running near the parking lot.
func (s *Synthesizer) NearbyEvents() int {
	return s.faker.IntRange(0, 1)
}

var (
	riskLevels     = []domain.RiskLevel{domain.RiskLow, domain.RiskMedium, domain.RiskHigh}
	parkingLevels  = []domain.ParkingStatus{domain.ParkingAvailable, domain.ParkingFull}
	activityLevels = []domain.ActivityLevel{domain.ActivityLow, domain.ActivityModerate, domain.ActivityHigh}
)

// DefaultMetrics draws the initial snapshot for a city seen for the first time.
func (s *Synthesizer) DefaultMetrics(now time.Time) domain.CityMetrics {
	return domain.CityMetrics{
		AirQuality:        s.faker.Float64Range(30, 150),
		AccidentRisk:      riskLevels[s.faker.IntRange(0, len(riskLevels)-1)],
		ParkingStatus:     parkingLevels[s.faker.IntRange(0, len(parkingLevels)-1)],
		ActivityLevel:     activityLevels[s.faker.IntRange(0, len(activityLevels)-1)],
		EnergyConsumption: s.faker.Float64Range(1000, 5000),
		TrafficCongestion: s.faker.Float64Range(0.1, 0.9),
		LastUpdated:       now,
	}
}

// Points scatters a heatmap layer around center. Offsets shrink toward the
// center (radius scales with the square root of a uniform draw) and are
// converted from km at roughly 0.01 degrees per km.
func (s *Synthesizer) Points(center domain.Geo, layer domain.HeatmapLayer) []domain.HeatPoint {
	points := make([]domain.HeatPoint, 0, layer.Count)
	for range layer.Count {
		r := layer.RadiusKm * math.Sqrt(s.faker.Float64())
		dx := r * 0.01 * s.sign() * s.faker.Float64()
		dy := r * 0.01 * s.sign() * s.faker.Float64()
		points = append(points, domain.HeatPoint{
			center.Lat + dy,
			center.Lon + dx,
			s.faker.Float64Range(layer.Intensity.Min, layer.Intensity.Max),
		})
	}
	return points
}

func (s *Synthesizer) sign() float64 {
	if s.faker.Bool() {
		return 1
	}
	return -1
}

func round1(v float64) float64 { return domain.Round(v, 1) }
func round2(v float64) float64 { return domain.Round(v, 2) }
