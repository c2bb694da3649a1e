package domain

import (
	"context"
	"log/slog"
)

// CentroidCountry scopes forward geocoding of region names.
const CentroidCountry = "us"

// EnrichWithCentroid fills in a region's centroid by geocoding its name.
// Regions that already have a centroid are returned unchanged. If geocoder is
// nil or the lookup fails, the region is returned as-is (graceful degradation).
func EnrichWithCentroid(ctx context.Context, region Region, geocoder Geocoder, logger *slog.Logger) Region {
	if geocoder == nil || !region.Centroid.IsZero() || region.Name == "" {
		return region
	}

	result, err := geocoder.ForwardGeocode(ctx, region.Name, CentroidCountry)
	if err != nil {
		logger.Warn("centroid geocoding failed",
			"region", region.Code,
			"name", region.Name,
			"error", err,
		)
		return region
	}
	if result.Lat == 0 && result.Lon == 0 {
		logger.Debug("centroid geocoding returned no match", "region", region.Code)
		return region
	}

	region.Centroid = Geo{Lat: result.Lat, Lon: result.Lon}
	return region
}
