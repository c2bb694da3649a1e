package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Forecast source kinds accepted by FORECAST_SOURCE.
const (
	SourceSynthetic = "synthetic"
	SourceFixture   = "fixture"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Forecast loading.
	ForecastSource      string
	ForecastFixturePath string
	ForecastSeed        int64
	RefreshInterval     time.Duration
	LoadConcurrency     int
	SourceRateLimit     float64 // requests per second; 0 disables throttling
	ScoreCacheSize      int

	// Sweep publishing.
	KafkaEnabled    bool
	KafkaBrokers    []string
	KafkaSweepTopic string

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	refreshInterval, err := parsePositiveDuration("REFRESH_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}
	seed, err := strconv.ParseInt(sharedcfg.EnvOrDefault("FORECAST_SEED", "0"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid FORECAST_SEED")
	}
	concurrency, err := parsePositiveInt("LOAD_CONCURRENCY", 8)
	if err != nil {
		return nil, err
	}
	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("SOURCE_RATE_LIMIT", "0"), 64)
	if err != nil || rateLimit < 0 {
		return nil, errors.New("invalid SOURCE_RATE_LIMIT")
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ForecastSource:      sharedcfg.EnvOrDefault("FORECAST_SOURCE", SourceSynthetic),
		ForecastFixturePath: os.Getenv("FORECAST_FIXTURE_PATH"),
		ForecastSeed:        seed,
		RefreshInterval:     refreshInterval,
		LoadConcurrency:     concurrency,
		SourceRateLimit:     rateLimit,
		ScoreCacheSize:      parseCacheSize("SCORE_CACHE_SIZE", 4096),

		KafkaEnabled:    os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSweepTopic: sharedcfg.EnvOrDefault("KAFKA_SWEEP_TOPIC", "suitability-sweeps"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseCacheSize("MAPBOX_CACHE_SIZE", 1000),
	}

	switch cfg.ForecastSource {
	case SourceSynthetic:
	case SourceFixture:
		if cfg.ForecastFixturePath == "" {
			return nil, errors.New("FORECAST_FIXTURE_PATH is required when FORECAST_SOURCE is fixture")
		}
	default:
		return nil, fmt.Errorf("invalid FORECAST_SOURCE %q", cfg.ForecastSource)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if cfg.KafkaEnabled && cfg.KafkaSweepTopic == "" {
		return nil, errors.New("KAFKA_SWEEP_TOPIC is required when KAFKA_ENABLED is true")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseCacheSize(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}
