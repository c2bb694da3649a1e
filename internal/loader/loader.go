// Package loader fetches the region catalog and forecasts and publishes them
// as one atomic snapshot.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/couchcryptid/suitability-map/internal/domain"
	"github.com/couchcryptid/suitability-map/internal/observability"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Sink receives a fully loaded dataset.
type Sink interface {
	Load(regions []domain.Region, set domain.ForecastSet) error
}

// Options tune a Loader. Zero values pick defaults.
type Options struct {
	Concurrency     int           // parallel forecast fetches; default 8
	RefreshInterval time.Duration // wait between successful loads; default 1h
	Geocoder        domain.Geocoder
	Clock           clockwork.Clock
	// OnLoad runs after every successful load, e.g. to broadcast a sweep.
	OnLoad func(ctx context.Context)
}

// Loader orchestrates the load cycle: regions, centroids, forecasts, publish.
type Loader struct {
	regions     domain.RegionSource
	source      domain.ForecastSource
	sink        Sink
	geocoder    domain.Geocoder
	onLoad      func(ctx context.Context)
	clock       clockwork.Clock
	concurrency int
	refresh     time.Duration
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
}

// New creates a Loader.
func New(regions domain.RegionSource, source domain.ForecastSource, sink Sink, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = time.Hour
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Loader{
		regions:     regions,
		source:      source,
		sink:        sink,
		geocoder:    opts.Geocoder,
		onLoad:      opts.OnLoad,
		clock:       opts.Clock,
		concurrency: opts.Concurrency,
		refresh:     opts.RefreshInterval,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once a dataset has been published.
func (l *Loader) CheckReadiness(_ context.Context) error {
	if !l.ready.Load() {
		return errors.New("forecast data has not been loaded yet")
	}
	return nil
}

// Load runs one complete load cycle. Any failure aborts the cycle and the
// previously published dataset stays in place.
func (l *Loader) Load(ctx context.Context) error {
	start := l.clock.Now()

	regions, set, err := l.fetch(ctx)
	if err == nil {
		err = l.sink.Load(regions, set)
	}
	if err != nil {
		l.metrics.ForecastLoads.WithLabelValues("error").Inc()
		return err
	}

	l.metrics.ForecastLoads.WithLabelValues("success").Inc()
	l.metrics.ForecastLoadDuration.Observe(l.clock.Since(start).Seconds())
	l.ready.Store(true)
	l.logger.Info("forecast loaded",
		"regions", len(regions),
		"source", l.source.Name(),
		"duration", l.clock.Since(start),
	)

	if l.onLoad != nil {
		l.onLoad(ctx)
	}
	return nil
}

func (l *Loader) fetch(ctx context.Context) ([]domain.Region, domain.ForecastSet, error) {
	regions, err := l.regions.Regions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load regions: %w", err)
	}
	if len(regions) == 0 {
		return nil, nil, errors.New("load regions: region source returned no regions")
	}

	enriched := make([]domain.Region, len(regions))
	forecasts := make([]*domain.Forecast, len(regions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, r := range regions {
		g.Go(func() error {
			enriched[i] = domain.EnrichWithCentroid(gctx, r, l.geocoder, l.logger)
			f, err := l.source.FetchForecast(gctx, r)
			if errors.Is(err, domain.ErrNoForecast) {
				l.logger.Debug("region has no forecast", "region", r.Code)
				return nil
			}
			if err != nil {
				l.metrics.ForecastFetchErrors.WithLabelValues(l.source.Name()).Inc()
				return fmt.Errorf("fetch forecast for %s: %w", r.Code, err)
			}
			forecasts[i] = &f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	set := make(domain.ForecastSet, len(regions))
	seen := make(map[string]bool, len(regions))
	for i, r := range enriched {
		if seen[r.Code] {
			return nil, nil, fmt.Errorf("load regions: duplicate region code %q", r.Code)
		}
		seen[r.Code] = true
		if forecasts[i] != nil {
			set[r.Code] = *forecasts[i]
		}
	}
	return enriched, set, nil
}

// Run loads immediately, then reloads every refresh interval until the
// context is cancelled. Failed loads are retried with exponential backoff.
func (l *Loader) Run(ctx context.Context) error {
	l.logger.Info("loader started", "source", l.source.Name(), "refresh_interval", l.refresh)
	l.metrics.LoaderRunning.Set(1)
	defer l.metrics.LoaderRunning.Set(0)

	backoff := initialBackoff
	for {
		wait := l.refresh
		if err := l.Load(ctx); err != nil {
			if ctx.Err() != nil {
				l.logger.Info("loader stopping", "reason", ctx.Err())
				return nil
			}
			l.logger.Error("forecast load failed", "error", err, "retry_in", backoff)
			wait = backoff
			backoff = retry.NextBackoff(backoff, maxBackoff)
		} else {
			backoff = initialBackoff
		}

		if !l.sleep(ctx, wait) {
			l.logger.Info("loader stopping", "reason", ctx.Err())
			return nil
		}
	}
}

func (l *Loader) sleep(ctx context.Context, d time.Duration) bool {
	timer := l.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
