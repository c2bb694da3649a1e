package domain

import "fmt"

// DaysPerForecast is the fixed forecast horizon: today plus six days ahead.
const DaysPerForecast = 7

// ForecastDay is one day's observation for one region.
type ForecastDay struct {
	HighTemperature int `json:"high_temperature"` // °F
	LowTemperature  int `json:"low_temperature"`  // °F
	Humidity        int `json:"humidity"`         // percent, 0–100
}

// Forecast is the 7-day sequence for a region. Index 0 is today.
type Forecast [DaysPerForecast]ForecastDay

// ForecastSet maps region code to its forecast. It is the unit of replacement
// for ForecastStore.
type ForecastSet map[string]Forecast

// ValidDay reports whether day is a usable forecast index.
func ValidDay(day int) bool {
	return day >= 0 && day < DaysPerForecast
}

// Validate checks the bounds the store relies on. Low above high is tolerated.
func (f Forecast) Validate() error {
	for i, d := range f {
		if d.Humidity < 0 || d.Humidity > 100 {
			return fmt.Errorf("day %d: humidity %d out of range 0-100", i, d.Humidity)
		}
	}
	return nil
}

// ForecastFromDays converts a decoded day slice into a Forecast, rejecting any
// length other than DaysPerForecast.
func ForecastFromDays(days []ForecastDay) (Forecast, error) {
	var f Forecast
	if len(days) != DaysPerForecast {
		return f, fmt.Errorf("forecast has %d days, want %d", len(days), DaysPerForecast)
	}
	copy(f[:], days)
	return f, nil
}
