package main

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/suitability-map/internal/adapter/fixture"
	"github.com/couchcryptid/suitability-map/internal/adapter/geo"
	httpadapter "github.com/couchcryptid/suitability-map/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/suitability-map/internal/adapter/kafka"
	"github.com/couchcryptid/suitability-map/internal/adapter/mapbox"
	"github.com/couchcryptid/suitability-map/internal/adapter/synthetic"
	"github.com/couchcryptid/suitability-map/internal/config"
	"github.com/couchcryptid/suitability-map/internal/dashboard"
	"github.com/couchcryptid/suitability-map/internal/domain"
	"github.com/couchcryptid/suitability-map/internal/loader"
	"github.com/couchcryptid/suitability-map/internal/observability"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	var (
		publisher dashboard.Publisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("sweep publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSweepTopic)
	}

	source := newForecastSource(cfg)
	logger.Info("forecast source selected", "source", source.Name())

	store := domain.NewForecastStore()
	ctrl := dashboard.New(store, publisher, cfg.ScoreCacheSize, logger, metrics)

	l := loader.New(geo.NewStateSource(), source, ctrl, loader.Options{
		Concurrency:     cfg.LoadConcurrency,
		RefreshInterval: cfg.RefreshInterval,
		Geocoder:        geocoder,
		OnLoad: func(ctx context.Context) {
			if err := ctrl.Broadcast(ctx); err != nil {
				logger.Error("broadcast after load failed", "error", err)
			}
		},
	}, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, ctrl, l, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start forecast loader.
	go func() {
		if err := l.Run(ctx); err != nil {
			logger.Error("loader error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

func newForecastSource(cfg *config.Config) domain.ForecastSource {
	var source domain.ForecastSource
	switch cfg.ForecastSource {
	case config.SourceFixture:
		source = fixture.NewSource(cfg.ForecastFixturePath)
	default:
		source = synthetic.NewSource(cfg.ForecastSeed)
	}
	if cfg.SourceRateLimit > 0 {
		burst := max(1, int(math.Ceil(cfg.SourceRateLimit)))
		source = loader.NewRateLimitedSource(source, cfg.SourceRateLimit, burst)
	}
	return source
}
