package domain

import "errors"

var (
	// ErrInvalidIndex is returned when a day index falls outside 0..DaysPerForecast-1.
	ErrInvalidIndex = errors.New("invalid day index")

	// ErrUnknownPreference is returned for a preference key not in the catalog.
	ErrUnknownPreference = errors.New("unknown preference")

	// ErrNoForecast is returned by a ForecastSource that has no data for a
	// region. Loaders keep the region with no data rather than failing.
	ErrNoForecast = errors.New("no forecast for region")
)
