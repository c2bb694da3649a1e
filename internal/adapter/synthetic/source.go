// Package synthetic generates random forecasts in place of a real feed.
package synthetic

import (
	"context"
	"hash/fnv"
	"math/rand/v2"

	"github.com/couchcryptid/suitability-map/internal/domain"
)

// Generation bounds, °F and percent.
const (
	minHigh     = 30
	maxHigh     = 100
	minSpread   = 5
	maxSpread   = 20
	minHumidity = 20
	maxHumidity = 90
)

// Source implements domain.ForecastSource with seeded pseudo-random data.
// A given seed and region code always produce the same forecast.
type Source struct {
	seed uint64
}

// NewSource creates a synthetic source. Use a fixed seed for reproducible
// fixtures.
func NewSource(seed int64) *Source {
	return &Source{seed: uint64(seed)}
}

// Name identifies the source in logs and metrics.
func (s *Source) Name() string { return "synthetic" }

// FetchForecast returns seven days of random weather for region.
func (s *Source) FetchForecast(ctx context.Context, region domain.Region) (domain.Forecast, error) {
	if err := ctx.Err(); err != nil {
		return domain.Forecast{}, err
	}
	return Generate(s.seed, region.Code), nil
}

// Generate builds a forecast from seed and region code. Highs fall in
// 30–100°F, lows 5–20°F below the high, humidity in 20–90%.
func Generate(seed uint64, code string) domain.Forecast {
	h := fnv.New64a()
	_, _ = h.Write([]byte(code))
	rng := rand.New(rand.NewPCG(seed, h.Sum64()))

	var f domain.Forecast
	for i := range f {
		high := minHigh + rng.IntN(maxHigh-minHigh+1)
		f[i] = domain.ForecastDay{
			HighTemperature: high,
			LowTemperature:  high - (minSpread + rng.IntN(maxSpread-minSpread+1)),
			Humidity:        minHumidity + rng.IntN(maxHumidity-minHumidity+1),
		}
	}
	return f
}
