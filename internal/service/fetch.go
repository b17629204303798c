package service

import (
	"context"

	"github.com/couchcryptid/smart-city-service/internal/domain"
)

// AccidentData combines the weather and traffic readings behind the
// accident formula. Source names the traffic source.
type AccidentData struct {
	Temperature        float64 `json:"temperature"`
	Humidity           float64 `json:"humidity"`
	WindSpeed          float64 `json:"wind_speed"`
	Visibility         float64 `json:"visibility"` // km
	WeatherCondition   int     `json:"weather_condition"`
	WeatherDescription string  `json:"weather_description"`
	WeatherSource      string  `json:"weather_source"`
	VehicleDensity     int     `json:"vehicle_density"`
	AvgSpeed           int     `json:"avg_speed"`
	Source             string  `json:"source"`
}

// FetchData returns the raw readings that feed the named module's formula.
// A name without coordinates is geocoded when possible so coordinate-based
// providers can be used.
func (s *Service) FetchData(ctx context.Context, module string, q LocationQuery) (any, error) {
	if q.empty() {
		return nil, domain.ErrMissingLocation
	}
	m, err := domain.ParseModule(module)
	if err != nil {
		return nil, err
	}

	city := domain.City{Name: q.City}
	if q.Coords != nil {
		city.Latitude, city.Longitude = q.Coords.Lat, q.Coords.Lon
	} else if resolved, err := s.resolver.Geocode(ctx, q.City); err == nil {
		city.Latitude, city.Longitude = resolved.Latitude, resolved.Longitude
	}

	switch m {
	case domain.ModuleAirQuality:
		return s.gateway.FetchAirQuality(ctx, city, true), nil
	case domain.ModuleAccident:
		w := s.gateway.FetchWeather(ctx, city, true)
		t := s.gateway.FetchTraffic(ctx, city, true)
		return AccidentData{
			Temperature:        w.Temperature,
			Humidity:           w.Humidity,
			WindSpeed:          w.WindSpeed,
			Visibility:         w.Visibility,
			WeatherCondition:   w.WeatherCondition,
			WeatherDescription: w.WeatherDescription,
			WeatherSource:      w.Source,
			VehicleDensity:     t.VehicleDensity,
			AvgSpeed:           t.AvgSpeed,
			Source:             t.Source,
		}, nil
	case domain.ModuleParking:
		return s.gateway.FetchParking(ctx, city, true), nil
	case domain.ModuleActivity:
		return s.gateway.FetchActivity(ctx, city, true), nil
	default:
		return nil, domain.ErrUnknownModule
	}
}
