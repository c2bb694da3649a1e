package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultBroker   = "localhost:9092"
	testMapboxToken = "pk.test-token"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, SourceSynthetic, cfg.ForecastSource)
	assert.Empty(t, cfg.ForecastFixturePath)
	assert.Equal(t, int64(0), cfg.ForecastSeed)
	assert.Equal(t, time.Hour, cfg.RefreshInterval)
	assert.Equal(t, 8, cfg.LoadConcurrency)
	assert.Zero(t, cfg.SourceRateLimit)
	assert.Equal(t, 4096, cfg.ScoreCacheSize)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "suitability-sweeps", cfg.KafkaSweepTopic)
	assert.False(t, cfg.MapboxEnabled)
	assert.Empty(t, cfg.MapboxToken)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("FORECAST_SOURCE", "fixture")
	t.Setenv("FORECAST_FIXTURE_PATH", "testdata/forecast.json")
	t.Setenv("FORECAST_SEED", "42")
	t.Setenv("REFRESH_INTERVAL", "15m")
	t.Setenv("LOAD_CONCURRENCY", "4")
	t.Setenv("SOURCE_RATE_LIMIT", "2.5")
	t.Setenv("SCORE_CACHE_SIZE", "128")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SWEEP_TOPIC", "custom-sweeps")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_TIMEOUT", "10s")
	t.Setenv("MAPBOX_CACHE_SIZE", "500")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, SourceFixture, cfg.ForecastSource)
	assert.Equal(t, "testdata/forecast.json", cfg.ForecastFixturePath)
	assert.Equal(t, int64(42), cfg.ForecastSeed)
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 4, cfg.LoadConcurrency)
	assert.InDelta(t, 2.5, cfg.SourceRateLimit, 0)
	assert.Equal(t, 128, cfg.ScoreCacheSize)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-sweeps", cfg.KafkaSweepTopic)
	assert.True(t, cfg.MapboxEnabled)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 10*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 500, cfg.MapboxCacheSize)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidRefreshInterval(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "0s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REFRESH_INTERVAL")
}

func TestLoad_InvalidSeed(t *testing.T) {
	t.Setenv("FORECAST_SEED", "abc")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORECAST_SEED")
}

func TestLoad_InvalidConcurrency(t *testing.T) {
	t.Setenv("LOAD_CONCURRENCY", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOAD_CONCURRENCY")
}

func TestLoad_NegativeRateLimit(t *testing.T) {
	t.Setenv("SOURCE_RATE_LIMIT", "-1")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SOURCE_RATE_LIMIT")
}

func TestLoad_UnknownForecastSource(t *testing.T) {
	t.Setenv("FORECAST_SOURCE", "satellite")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORECAST_SOURCE")
}

func TestLoad_FixtureWithoutPath(t *testing.T) {
	t.Setenv("FORECAST_SOURCE", "fixture")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORECAST_FIXTURE_PATH")
}

func TestLoad_InvalidMapboxTimeout(t *testing.T) {
	t.Setenv("MAPBOX_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TIMEOUT")
}

func TestLoad_MapboxEnabledWithoutToken(t *testing.T) {
	t.Setenv("MAPBOX_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_MapboxTokenImpliesEnabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MapboxEnabled)
}

func TestLoad_MapboxExplicitlyDisabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.MapboxEnabled)
}

func TestLoad_InvalidCacheSizeFallsBack(t *testing.T) {
	t.Setenv("SCORE_CACHE_SIZE", "-3")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4096, cfg.ScoreCacheSize)
}
