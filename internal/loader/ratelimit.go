package loader

import (
	"context"
	"fmt"

	"github.com/couchcryptid/suitability-map/internal/domain"
	"golang.org/x/time/rate"
)

// RateLimitedSource wraps a ForecastSource with a token-bucket limiter.
type RateLimitedSource struct {
	source  domain.ForecastSource
	limiter *rate.Limiter
}

// NewRateLimitedSource throttles source to rps requests per second with the
// given burst. rps may be fractional.
func NewRateLimitedSource(source domain.ForecastSource, rps float64, burst int) *RateLimitedSource {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Name returns the wrapped source's name.
func (r *RateLimitedSource) Name() string {
	return r.source.Name()
}

// FetchForecast waits for a token, then forwards to the wrapped source.
func (r *RateLimitedSource) FetchForecast(ctx context.Context, region domain.Region) (domain.Forecast, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.Forecast{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.source.FetchForecast(ctx, region)
}
