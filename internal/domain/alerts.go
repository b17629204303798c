package domain

import (
	"fmt"
	"time"
)

// AlertType is the severity of a threshold breach.
type AlertType string

const (
	AlertInfo    AlertType = "info"
	AlertWarning AlertType = "warning"
	AlertError   AlertType = "error"
)

// Alert describes one threshold breach. Value and Threshold are numbers for
// air quality and category strings for everything else.
type Alert struct {
	Type      AlertType `json:"type"`
	Message   string    `json:"message"`
	Metric    string    `json:"metric"`
	Value     any       `json:"value"`
	Threshold any       `json:"threshold"`
}

// AlertEvent is an alert addressed to a city, as published downstream.
type AlertEvent struct {
	ID       string    `json:"id"`
	City     string    `json:"city"`
	Alert    Alert     `json:"alert"`
	RaisedAt time.Time `json:"raised_at"`
}

const (
	aqiErrorThreshold   = 150
	aqiWarningThreshold = 100
)

// CheckThresholdBreaches evaluates air quality, accident risk, parking and
// activity in that order and returns one alert per breached rule.
func CheckThresholdBreaches(_ string, m CityMetrics) []Alert {
	alerts := []Alert{}

	switch {
	case m.AirQuality > aqiErrorThreshold:
		alerts = append(alerts, Alert{
			Type:      AlertError,
			Message:   fmt.Sprintf("⚠️ Critical: Air quality is unhealthy (AQI: %.1f)", m.AirQuality),
			Metric:    "air_quality",
			Value:     m.AirQuality,
			Threshold: aqiErrorThreshold,
		})
	case m.AirQuality > aqiWarningThreshold:
		alerts = append(alerts, Alert{
			Type:      AlertWarning,
			Message:   fmt.Sprintf("⚠️ Warning: Air quality is moderate (AQI: %.1f)", m.AirQuality),
			Metric:    "air_quality",
			Value:     m.AirQuality,
			Threshold: aqiWarningThreshold,
		})
	}

	switch m.AccidentRisk {
	case RiskHigh:
		alerts = append(alerts, Alert{
			Type:      AlertError,
			Message:   "🚨 Critical: High accident risk detected in the area",
			Metric:    "accident_risk",
			Value:     string(m.AccidentRisk),
			Threshold: string(RiskHigh),
		})
	case RiskMedium:
		alerts = append(alerts, Alert{
			Type:      AlertWarning,
			Message:   "⚠️ Warning: Moderate accident risk in the area",
			Metric:    "accident_risk",
			Value:     string(m.AccidentRisk),
			Threshold: string(RiskMedium),
		})
	}

	if m.ParkingStatus == ParkingFull {
		alerts = append(alerts, Alert{
			Type:      AlertWarning,
			Message:   "🚗 Warning: Parking spaces are full",
			Metric:    "parking",
			Value:     string(m.ParkingStatus),
			Threshold: string(ParkingFull),
		})
	}

	if m.ActivityLevel == ActivityHigh {
		alerts = append(alerts, Alert{
			Type:      AlertInfo,
			Message:   "👥 High crowd density detected",
			Metric:    "activity",
			Value:     string(m.ActivityLevel),
			Threshold: string(ActivityHigh),
		})
	}

	return alerts
}
