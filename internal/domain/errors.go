package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCityNotFound is returned when a name or coordinate pair cannot be
	// resolved to a city.
	ErrCityNotFound = errors.New("could not determine city")

	// ErrZeroCapacity is returned by PredictParking when the lot has no capacity.
	ErrZeroCapacity = errors.New("parking capacity must be greater than zero")

	// ErrUnknownModule is returned when a prediction module name is not recognised.
	ErrUnknownModule = errors.New("invalid module")

	// ErrMissingLocation is returned when neither a city name nor coordinates were supplied.
	ErrMissingLocation = errors.New("city name or coordinates required")
)

// InputError reports a missing or malformed formula input field.
type InputError struct {
	Field string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }
