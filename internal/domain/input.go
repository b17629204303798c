package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	errMissingField = errors.New("missing field")
	errNotNumeric   = errors.New("not a number")
)

// Fields is a loosely typed request body. Values may be JSON numbers or
// numeric strings.
type Fields map[string]any

// Float reads key as a float64.
func (f Fields) Float(key string) (float64, error) {
	v, ok := f[key]
	if !ok || v == nil {
		return 0, &InputError{Field: key, Err: errMissingField}
	}
	switch n := v.(type) {
	case float64:
		if !finite(n) {
			return 0, &InputError{Field: key, Err: fmt.Errorf("%w: %v", errNotNumeric, n)}
		}
		return n, nil
	case int:
		return float64(n), nil
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil || !finite(parsed) {
			return 0, &InputError{Field: key, Err: fmt.Errorf("%w: %q", errNotNumeric, n)}
		}
		return parsed, nil
	default:
		return 0, &InputError{Field: key, Err: fmt.Errorf("%w: %v", errNotNumeric, v)}
	}
}

// Int reads key as an int. JSON numbers are truncated toward zero; strings
// must be whole numbers.
func (f Fields) Int(key string) (int, error) {
	v, ok := f[key]
	if !ok || v == nil {
		return 0, &InputError{Field: key, Err: errMissingField}
	}
	switch n := v.(type) {
	case float64:
		if !finite(n) {
			return 0, &InputError{Field: key, Err: fmt.Errorf("%w: %v", errNotNumeric, n)}
		}
		return int(n), nil
	case int:
		return n, nil
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, &InputError{Field: key, Err: fmt.Errorf("%w: %q", errNotNumeric, n)}
		}
		return parsed, nil
	default:
		return 0, &InputError{Field: key, Err: fmt.Errorf("%w: %v", errNotNumeric, v)}
	}
}

// finite rejects NaN and the infinities, which strconv accepts but no
// formula can score.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// fieldReader accumulates the first decoding error so input structs can be
// filled field by field.
type fieldReader struct {
	fields Fields
	err    error
}

func (r *fieldReader) float(key string) float64 {
	if r.err != nil {
		return 0
	}
	v, err := r.fields.Float(key)
	r.err = err
	return v
}

func (r *fieldReader) int(key string) int {
	if r.err != nil {
		return 0
	}
	v, err := r.fields.Int(key)
	r.err = err
	return v
}

// AccidentInputFrom decodes an AccidentInput.
func AccidentInputFrom(f Fields) (AccidentInput, error) {
	r := &fieldReader{fields: f}
	in := AccidentInput{
		VehicleDensity:   r.float("vehicle_density"),
		AvgSpeed:         r.float("avg_speed"),
		RoadCondition:    r.int("road_condition"),
		WeatherCondition: r.int("weather_condition"),
		Visibility:       r.float("visibility"),
		TimeOfDay:        r.int("time_of_day"),
	}
	return in, r.err
}

// AirQualityInputFrom decodes an AirQualityInput.
func AirQualityInputFrom(f Fields) (AirQualityInput, error) {
	r := &fieldReader{fields: f}
	in := AirQualityInput{
		PM25:        r.float("pm25"),
		PM10:        r.float("pm10"),
		NO2:         r.float("no2"),
		CO:          r.float("co"),
		SO2:         r.float("so2"),
		Temperature: r.float("temperature"),
		Humidity:    r.float("humidity"),
		WindSpeed:   r.float("wind_speed"),
	}
	return in, r.err
}

// ActivityInputFrom decodes an ActivityInput.
func ActivityInputFrom(f Fields) (ActivityInput, error) {
	r := &fieldReader{fields: f}
	in := ActivityInput{
		PopulationDensity: r.int("population_density"),
		AvgAge:            r.int("avg_age"),
		WorkplaceCount:    r.int("workplace_count"),
		PublicEvents:      r.int("public_events"),
		Temperature:       r.float("temperature"),
		DayOfWeek:         r.int("day_of_week"),
	}
	return in, r.err
}

// ParkingInputFrom decodes a ParkingInput.
func ParkingInputFrom(f Fields) (ParkingInput, error) {
	r := &fieldReader{fields: f}
	in := ParkingInput{
		ParkingCapacity: r.int("parking_capacity"),
		OccupiedSlots:   r.int("occupied_slots"),
		EntryRate:       r.float("entry_rate"),
		ExitRate:        r.float("exit_rate"),
		TimeOfDay:       r.int("time_of_day"),
		Weekday:         r.int("weekday"),
		NearbyEvents:    r.int("nearby_events"),
	}
	return in, r.err
}
