package domain

import "context"

// RegionSource supplies the region catalog (code and display name).
type RegionSource interface {
	Regions(ctx context.Context) ([]Region, error)
}

// ForecastSource produces a 7-day forecast for a region. Implementations may
// be a real feed, a fixture file, or synthetic data.
type ForecastSource interface {
	Name() string
	FetchForecast(ctx context.Context, region Region) (Forecast, error)
}
