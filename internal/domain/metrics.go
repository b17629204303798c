package domain

import "time"

// RiskLevel is the accident risk category.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ParkingStatus is the parking availability category.
type ParkingStatus string

const (
	ParkingAvailable ParkingStatus = "Available"
	ParkingFull      ParkingStatus = "Full"
)

// ActivityLevel is the citizen activity category.
type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "Low"
	ActivityModerate ActivityLevel = "Moderate"
	ActivityHigh     ActivityLevel = "High"
)

// CityMetrics is the last known snapshot for a city. Each prediction
// overwrites the previous snapshot; no history is kept.
type CityMetrics struct {
	AirQuality        float64       `json:"air_quality"`
	AccidentRisk      RiskLevel     `json:"accident_risk"`
	ParkingStatus     ParkingStatus `json:"parking_status"`
	ActivityLevel     ActivityLevel `json:"activity_level"`
	EnergyConsumption float64       `json:"energy_consumption"` // MW
	TrafficCongestion float64       `json:"traffic_congestion"` // 0-1
	LastUpdated       time.Time     `json:"last_updated"`
}
