package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthyMetrics() CityMetrics {
	return CityMetrics{
		AirQuality:        30,
		AccidentRisk:      RiskLow,
		ParkingStatus:     ParkingAvailable,
		ActivityLevel:     ActivityLow,
		EnergyConsumption: 1000,
		TrafficCongestion: 0.2,
	}
}

func strainedMetrics() CityMetrics {
	return CityMetrics{
		AirQuality:        200,
		AccidentRisk:      RiskHigh,
		ParkingStatus:     ParkingFull,
		ActivityLevel:     ActivityHigh,
		EnergyConsumption: 4500,
		TrafficCongestion: 0.8,
	}
}

func TestGenerateInsights_AllStrengths(t *testing.T) {
	in := GenerateInsights("Pune", healthyMetrics())

	assert.Equal(t, []string{
		"Excellent air quality (AQI < 50)",
		"Low accident risk - safe road conditions",
		"Adequate parking availability",
		"Low crowd density - comfortable urban environment",
	}, in.Strengths)
	assert.Empty(t, in.Concerns)
	assert.Empty(t, in.Recommendations)
	assert.Equal(t, "Pune is performing well across all major metrics. The city demonstrates strong urban management and sustainable practices.", in.Overview)
}

func TestGenerateInsights_AllConcerns(t *testing.T) {
	in := GenerateInsights("New Delhi", strainedMetrics())

	assert.Empty(t, in.Strengths)
	assert.Equal(t, []string{
		"Poor air quality (AQI: 200.0)",
		"High accident risk areas detected",
		"Parking spaces are full",
		"High crowd density detected",
		"High energy consumption (4500 MW)",
		"Severe traffic congestion (80%)",
	}, in.Concerns)
	assert.Len(t, in.Recommendations, 6)
	assert.Contains(t, in.Overview, "New Delhi has several areas that need immediate attention")
}

func TestGenerateInsights_Mixed(t *testing.T) {
	m := healthyMetrics()
	m.AirQuality = 75
	m.AccidentRisk = RiskMedium
	m.ActivityLevel = ActivityModerate

	in := GenerateInsights("Paris", m)

	assert.Equal(t, []string{"Good air quality (AQI < 100)", "Adequate parking availability"}, in.Strengths)
	assert.Equal(t, []string{"Moderate accident risk - monitoring required"}, in.Concerns)
	require.Len(t, in.Recommendations, 1)
	assert.Contains(t, in.Recommendations[0], "Monitor traffic patterns closely")
	assert.Contains(t, in.Overview, "shows a mix of strengths")
}

func TestGenerateInsights_ThresholdsAreExclusive(t *testing.T) {
	m := healthyMetrics()
	m.EnergyConsumption = 4000
	m.TrafficCongestion = 0.7

	in := GenerateInsights("Tokyo", m)
	assert.Empty(t, in.Concerns)
}

func TestCheckThresholdBreaches(t *testing.T) {
	t.Run("healthy city raises nothing", func(t *testing.T) {
		alerts := CheckThresholdBreaches("Pune", healthyMetrics())
		require.NotNil(t, alerts)
		assert.Empty(t, alerts)
	})

	t.Run("all breaches in domain order", func(t *testing.T) {
		alerts := CheckThresholdBreaches("New Delhi", strainedMetrics())
		require.Len(t, alerts, 4)

		assert.Equal(t, Alert{
			Type:      AlertError,
			Message:   "⚠️ Critical: Air quality is unhealthy (AQI: 200.0)",
			Metric:    "air_quality",
			Value:     200.0,
			Threshold: 150,
		}, alerts[0])
		assert.Equal(t, "accident_risk", alerts[1].Metric)
		assert.Equal(t, AlertError, alerts[1].Type)
		assert.Equal(t, "parking", alerts[2].Metric)
		assert.Equal(t, AlertWarning, alerts[2].Type)
		assert.Equal(t, "activity", alerts[3].Metric)
		assert.Equal(t, AlertInfo, alerts[3].Type)
	})

	t.Run("warning levels", func(t *testing.T) {
		m := healthyMetrics()
		m.AirQuality = 120
		m.AccidentRisk = RiskMedium

		alerts := CheckThresholdBreaches("Mumbai", m)
		require.Len(t, alerts, 2)
		assert.Equal(t, AlertWarning, alerts[0].Type)
		assert.Equal(t, 100, alerts[0].Threshold)
		assert.Equal(t, "Medium", alerts[1].Value)
	})

	t.Run("aqi of exactly 100 does not alert", func(t *testing.T) {
		m := healthyMetrics()
		m.AirQuality = 100
		assert.Empty(t, CheckThresholdBreaches("Mumbai", m))
	})

	t.Run("idempotent", func(t *testing.T) {
		m := strainedMetrics()
		first := CheckThresholdBreaches("New Delhi", m)
		second := CheckThresholdBreaches("New Delhi", m)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("alerts differ between calls (-first +second):\n%s", diff)
		}
	})
}

func TestHeatmapLayers(t *testing.T) {
	t.Run("defaults without metrics", func(t *testing.T) {
		layers := HeatmapLayers(nil)
		require.Len(t, layers, 4)
		for _, l := range layers {
			assert.Equal(t, IntensityRange{Min: 0.1, Max: 1.0}, l.Intensity, l.Name)
		}
		assert.Equal(t, 100, layers[0].Count)
		assert.Equal(t, 150, layers[1].Count)
		assert.Equal(t, 50, layers[2].Count)
		assert.Equal(t, 200, layers[3].Count)
	})

	t.Run("ranges follow metrics", func(t *testing.T) {
		m := strainedMetrics()
		m.AirQuality = 250
		layers := HeatmapLayers(&m)

		assert.Equal(t, IntensityRange{Min: 0.6, Max: 1.0}, layers[0].Intensity)
		assert.InDelta(t, 0.65, layers[1].Intensity.Max, 1e-9)
		assert.Equal(t, IntensityRange{Min: 0.7, Max: 1.0}, layers[2].Intensity)
		assert.Equal(t, IntensityRange{Min: 0.6, Max: 1.0}, layers[3].Intensity)
	})

	t.Run("air intensity capped at one", func(t *testing.T) {
		m := healthyMetrics()
		m.AirQuality = 900
		layers := HeatmapLayers(&m)
		assert.Equal(t, 1.0, layers[1].Intensity.Max)
	})
}
