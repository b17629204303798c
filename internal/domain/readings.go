package domain

// Source tags identifying where a reading came from.
const (
	SourceSimulated          = "Simulated"
	SourceSimulatedRealistic = "Simulated (Realistic)"
)

// AirQualityReading holds pollutant concentrations and the conditions that
// dilute them. AQI is zero when the source did not report one.
type AirQualityReading struct {
	PM25        float64 `json:"pm25"`
	PM10        float64 `json:"pm10"`
	NO2         float64 `json:"no2"`
	CO          float64 `json:"co"` // ppm
	SO2         float64 `json:"so2"`
	Temperature float64 `json:"temperature,omitempty"`
	Humidity    float64 `json:"humidity,omitempty"`
	WindSpeed   float64 `json:"wind_speed,omitempty"` // km/h
	AQI         float64 `json:"aqi,omitempty"`
	Source      string  `json:"source"`
}

// Weather condition codes used by the accident risk formula.
const (
	WeatherClear = 0
	WeatherRainy = 1
	WeatherFoggy = 2
)

// WeatherReading holds the conditions that feed accident risk and activity.
type WeatherReading struct {
	Temperature        float64 `json:"temperature"`
	Humidity           float64 `json:"humidity"`
	WindSpeed          float64 `json:"wind_speed"` // km/h
	Visibility         float64 `json:"visibility"` // km
	WeatherCondition   int     `json:"weather_condition"`
	WeatherDescription string  `json:"weather_description"`
	Source             string  `json:"source"`
}

// TrafficReading holds road load figures.
type TrafficReading struct {
	VehicleDensity int    `json:"vehicle_density"`
	AvgSpeed       int    `json:"avg_speed"` // km/h
	Source         string `json:"source"`
}

// ParkingReading holds lot occupancy and flow rates.
type ParkingReading struct {
	ParkingCapacity int     `json:"parking_capacity"`
	OccupiedSlots   int     `json:"occupied_slots"`
	EntryRate       float64 `json:"entry_rate"`
	ExitRate        float64 `json:"exit_rate"`
	Source          string  `json:"source"`
}

// Validate rejects readings the parking formula cannot score.
func (p ParkingReading) Validate() error {
	if p.ParkingCapacity <= 0 {
		return ErrZeroCapacity
	}
	return nil
}

// ActivityReading holds population and event figures.
type ActivityReading struct {
	PopulationDensity int    `json:"population_density"`
	AvgAge            int    `json:"avg_age"`
	WorkplaceCount    int    `json:"workplace_count"`
	PublicEvents      int    `json:"public_events"`
	Source            string `json:"source"`
}

// Readings bundles one reading per domain for a single request.
type Readings struct {
	AirQuality AirQualityReading
	Weather    WeatherReading
	Traffic    TrafficReading
	Parking    ParkingReading
	Activity   ActivityReading
}
