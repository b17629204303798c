package domain

import "math"

// AccidentInput carries the accident risk formula inputs.
type AccidentInput struct {
	VehicleDensity   float64 `json:"vehicle_density"`
	AvgSpeed         float64 `json:"avg_speed"`
	RoadCondition    int     `json:"road_condition"`    // 0 poor, 1 fair, 2 good
	WeatherCondition int     `json:"weather_condition"` // 0 clear, 1 rain, 2 fog
	Visibility       float64 `json:"visibility"`        // metres
	TimeOfDay        int     `json:"time_of_day"`
}

// AirQualityInput carries the AQI formula inputs.
type AirQualityInput struct {
	PM25        float64 `json:"pm25"`
	PM10        float64 `json:"pm10"`
	NO2         float64 `json:"no2"`
	CO          float64 `json:"co"`
	SO2         float64 `json:"so2"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
}

// ActivityInput carries the citizen activity formula inputs. AvgAge and
// DayOfWeek are accepted for compatibility but do not affect the result.
type ActivityInput struct {
	PopulationDensity int     `json:"population_density"`
	AvgAge            int     `json:"avg_age"`
	WorkplaceCount    int     `json:"workplace_count"`
	PublicEvents      int     `json:"public_events"`
	Temperature       float64 `json:"temperature"`
	DayOfWeek         int     `json:"day_of_week"`
}

// ParkingInput carries the parking formula inputs. TimeOfDay and Weekday are
// accepted for compatibility but do not affect the result.
type ParkingInput struct {
	ParkingCapacity int     `json:"parking_capacity"`
	OccupiedSlots   int     `json:"occupied_slots"`
	EntryRate       float64 `json:"entry_rate"`
	ExitRate        float64 `json:"exit_rate"`
	TimeOfDay       int     `json:"time_of_day"`
	Weekday         int     `json:"weekday"`
	NearbyEvents    int     `json:"nearby_events"`
}

// AccidentRiskScore returns the unbucketed accident score. Inputs are not
// clamped, so out-of-range values yield out-of-range scores.
func AccidentRiskScore(in AccidentInput) float64 {
	return (in.VehicleDensity/500)*0.4 +
		(1-in.AvgSpeed/100)*0.3 +
		float64(2-in.RoadCondition)*0.1 +
		float64(in.WeatherCondition)*0.1 +
		(1-in.Visibility/1000)*0.1
}

// PredictAccidentRisk buckets AccidentRiskScore into a RiskLevel.
func PredictAccidentRisk(in AccidentInput) RiskLevel {
	score := AccidentRiskScore(in)
	switch {
	case score < 0.4:
		return RiskLow
	case score < 0.7:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// PredictAirQuality returns the AQI estimate clamped to [0, 500].
func PredictAirQuality(in AirQualityInput) float64 {
	aqi := 0.4*in.PM25 + 0.3*in.PM10 + 0.1*in.NO2 + 15*in.CO + 0.05*in.SO2 -
		0.2*in.WindSpeed - 0.1*in.Humidity
	return math.Max(0, math.Min(500, aqi))
}

// ActivityScore returns the unbucketed activity score.
func ActivityScore(in ActivityInput) float64 {
	return (float64(in.PopulationDensity)/15000)*0.4 +
		(float64(in.WorkplaceCount)/50)*0.3 +
		(float64(in.PublicEvents)/5)*0.2 +
		(in.Temperature/40)*0.1
}

// PredictActivity buckets ActivityScore into an ActivityLevel.
func PredictActivity(in ActivityInput) ActivityLevel {
	score := ActivityScore(in)
	switch {
	case score < 0.4:
		return ActivityLow
	case score < 0.7:
		return ActivityModerate
	default:
		return ActivityHigh
	}
}

// PredictParking reports Full when utilisation plus net inflow and nearby
// events push the score above 1.2. A non-positive capacity returns
// ErrZeroCapacity.
func PredictParking(in ParkingInput) (ParkingStatus, error) {
	if in.ParkingCapacity <= 0 {
		return "", ErrZeroCapacity
	}
	utilization := float64(in.OccupiedSlots) / float64(in.ParkingCapacity)
	inflow := in.EntryRate - in.ExitRate
	score := utilization + inflow/50 + float64(in.NearbyEvents)*0.5

	if score > 1.2 {
		return ParkingFull, nil
	}
	return ParkingAvailable, nil
}

var (
	riskScores     = map[RiskLevel]float64{RiskLow: 90, RiskMedium: 60, RiskHigh: 30}
	parkingScores  = map[ParkingStatus]float64{ParkingAvailable: 90, ParkingFull: 30}
	activityScores = map[ActivityLevel]float64{ActivityLow: 70, ActivityModerate: 50, ActivityHigh: 30}
)

const unknownCategoryScore = 50

// SmartCityScore blends the four predictions into a 0-100 score rounded to
// one decimal. Unrecognised categories score 50.
func SmartCityScore(airQuality float64, risk RiskLevel, parking ParkingStatus, activity ActivityLevel) float64 {
	aq := 100 - math.Min(100, airQuality*0.2)

	score := aq*0.4 +
		lookupScore(riskScores, risk)*0.3 +
		lookupScore(parkingScores, parking)*0.2 +
		lookupScore(activityScores, activity)*0.1

	return Round(score, 1)
}

func lookupScore[K comparable](table map[K]float64, key K) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return unknownCategoryScore
}

// StatusInfo is the display classification of a smart city score.
type StatusInfo struct {
	Status string `json:"status"`
	Color  string `json:"color"`
	Icon   string `json:"icon"`
	Label  string `json:"label"`
}

// CityStatus classifies a score: >=80 Excellent, >=60 Good, >=40 Moderate,
// otherwise Critical.
func CityStatus(score float64) StatusInfo {
	switch {
	case score >= 80:
		return StatusInfo{Status: "Excellent", Color: "#10B981", Icon: "fa-star", Label: "Good"}
	case score >= 60:
		return StatusInfo{Status: "Good", Color: "#3B82F6", Icon: "fa-thumbs-up", Label: "Good"}
	case score >= 40:
		return StatusInfo{Status: "Moderate", Color: "#F59E0B", Icon: "fa-info-circle", Label: "Moderate"}
	default:
		return StatusInfo{Status: "Critical", Color: "#EF4444", Icon: "fa-exclamation-triangle", Label: "Critical"}
	}
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
