package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/couchcryptid/smart-city-service/internal/domain"
)

// ScoreInputs are the four predictions the composite score blends.
type ScoreInputs struct {
	AirQuality    float64              `json:"air_quality"`
	AccidentRisk  domain.RiskLevel     `json:"accident_risk"`
	ParkingStatus domain.ParkingStatus `json:"parking_status"`
	ActivityLevel domain.ActivityLevel `json:"activity_level"`
}

// Score returns the composite score for the inputs.
func (in ScoreInputs) Score() float64 {
	return domain.SmartCityScore(in.AirQuality, in.AccidentRisk, in.ParkingStatus, in.ActivityLevel)
}

// ModelRun is the result of running every formula for one city.
type ModelRun struct {
	ScoreInputs
	Location domain.Geo `json:"location"`
	RawData  RawData    `json:"raw_data"`
}

// RawData echoes the formula inputs derived from the readings.
type RawData struct {
	AirQuality   domain.AirQualityInput `json:"air_quality"`
	AccidentRisk RawAccident            `json:"accident_risk"`
	Parking      RawParking             `json:"parking"`
	Activity     RawActivity            `json:"activity"`
}

// RawAccident holds the accident formula inputs that came from readings.
type RawAccident struct {
	VehicleDensity   int     `json:"vehicle_density"`
	AvgSpeed         int     `json:"avg_speed"`
	RoadCondition    int     `json:"road_condition"`
	WeatherCondition int     `json:"weather_condition"`
	Visibility       float64 `json:"visibility"` // metres
}

// RawParking holds the parking formula inputs that came from readings.
type RawParking struct {
	ParkingCapacity int     `json:"parking_capacity"`
	OccupiedSlots   int     `json:"occupied_slots"`
	EntryRate       float64 `json:"entry_rate"`
	ExitRate        float64 `json:"exit_rate"`
}

// RawActivity holds the activity formula inputs that came from readings.
type RawActivity struct {
	PopulationDensity int `json:"population_density"`
	AvgAge            int `json:"avg_age"`
	WorkplaceCount    int `json:"workplace_count"`
	PublicEvents      int `json:"public_events"`
}

// RunModels gathers all readings for city and runs every formula. With
// useAPI false no live provider is contacted and the AQI is always
// computed from pollutant levels.
func (s *Service) RunModels(ctx context.Context, city domain.City, useAPI bool) (ModelRun, error) {
	ctx, span := tracer.Start(ctx, "RunModels", trace.WithAttributes(
		attribute.String("city", city.Name),
		attribute.Bool("use_api", useAPI),
	))
	defer span.End()

	r := s.gateway.FetchAll(ctx, city, useAPI)
	now := s.clock.Now()
	return s.score(city, r, useAPI, now)
}

func (s *Service) score(city domain.City, r domain.Readings, useAPI bool, now time.Time) (ModelRun, error) {
	air := airQualityInput(r.AirQuality, r.Weather)
	aqi := r.AirQuality.AQI
	if !useAPI || aqi == 0 {
		aqi = domain.PredictAirQuality(air)
	}

	timeOfDay := now.Hour() / 6
	weekday := mondayFirst(now.Weekday())

	accident := domain.AccidentInput{
		VehicleDensity:   float64(r.Traffic.VehicleDensity),
		AvgSpeed:         float64(r.Traffic.AvgSpeed),
		RoadCondition:    s.gen.RoadCondition(),
		WeatherCondition: r.Weather.WeatherCondition,
		Visibility:       r.Weather.Visibility * 1000,
		TimeOfDay:        timeOfDay,
	}
	parking := domain.ParkingInput{
		ParkingCapacity: r.Parking.ParkingCapacity,
		OccupiedSlots:   r.Parking.OccupiedSlots,
		EntryRate:       r.Parking.EntryRate,
		ExitRate:        r.Parking.ExitRate,
		TimeOfDay:       timeOfDay,
		Weekday:         weekday,
		NearbyEvents:    s.gen.NearbyEvents(),
	}
	activity := domain.ActivityInput{
		PopulationDensity: r.Activity.PopulationDensity,
		AvgAge:            r.Activity.AvgAge,
		WorkplaceCount:    r.Activity.WorkplaceCount,
		PublicEvents:      r.Activity.PublicEvents,
		Temperature:       r.Weather.Temperature,
		DayOfWeek:         weekday,
	}

	parkingStatus, err := domain.PredictParking(parking)
	if err != nil {
		return ModelRun{}, err
	}

	s.metrics.Predictions.WithLabelValues("city").Inc()
	return ModelRun{
		ScoreInputs: ScoreInputs{
			AirQuality:    domain.Round(aqi, 1),
			AccidentRisk:  domain.PredictAccidentRisk(accident),
			ParkingStatus: parkingStatus,
			ActivityLevel: domain.PredictActivity(activity),
		},
		Location: city.Geo(),
		RawData: RawData{
			AirQuality: domain.AirQualityInput{
				PM25:        domain.Round(air.PM25, 1),
				PM10:        domain.Round(air.PM10, 1),
				NO2:         domain.Round(air.NO2, 1),
				CO:          domain.Round(air.CO, 2),
				SO2:         domain.Round(air.SO2, 1),
				Temperature: domain.Round(air.Temperature, 1),
				Humidity:    domain.Round(air.Humidity, 1),
				WindSpeed:   domain.Round(air.WindSpeed, 1),
			},
			AccidentRisk: RawAccident{
				VehicleDensity:   r.Traffic.VehicleDensity,
				AvgSpeed:         r.Traffic.AvgSpeed,
				RoadCondition:    accident.RoadCondition,
				WeatherCondition: accident.WeatherCondition,
				Visibility:       domain.Round(accident.Visibility, 0),
			},
			Parking: RawParking{
				ParkingCapacity: parking.ParkingCapacity,
				OccupiedSlots:   parking.OccupiedSlots,
				EntryRate:       domain.Round(parking.EntryRate, 1),
				ExitRate:        domain.Round(parking.ExitRate, 1),
			},
			Activity: RawActivity{
				PopulationDensity: activity.PopulationDensity,
				AvgAge:            activity.AvgAge,
				WorkplaceCount:    activity.WorkplaceCount,
				PublicEvents:      activity.PublicEvents,
			},
		},
	}, nil
}

// airQualityInput builds the AQI formula input. Conditions the air quality
// source did not report are taken from the weather reading.
func airQualityInput(a domain.AirQualityReading, w domain.WeatherReading) domain.AirQualityInput {
	in := domain.AirQualityInput{
		PM25:        a.PM25,
		PM10:        a.PM10,
		NO2:         a.NO2,
		CO:          a.CO,
		SO2:         a.SO2,
		Temperature: a.Temperature,
		Humidity:    a.Humidity,
		WindSpeed:   a.WindSpeed,
	}
	if in.Temperature == 0 {
		in.Temperature = w.Temperature
	}
	if in.Humidity == 0 {
		in.Humidity = w.Humidity
	}
	if in.WindSpeed == 0 {
		in.WindSpeed = w.WindSpeed
	}
	return in
}

// mondayFirst numbers weekdays from Monday = 0.
func mondayFirst(d time.Weekday) int {
	return (int(d) + 6) % 7
}
