//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/suitability-map/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://api.mapbox.com/geocoding/v5/mapbox.places",
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_ForwardGeocode_State(t *testing.T) {
	c := smokeClient(t)

	result, err := c.ForwardGeocode(context.Background(), "Colorado", "us")
	require.NoError(t, err)

	// Colorado's center is roughly 39°N, 105.5°W.
	assert.InDelta(t, 39.0, result.Lat, 2.0)
	assert.InDelta(t, -105.5, result.Lon, 2.0)
	assert.Contains(t, result.FormattedAddress, "Colorado")
}

func TestSmoke_ForwardGeocode_WashingtonIsTheState(t *testing.T) {
	c := smokeClient(t)

	result, err := c.ForwardGeocode(context.Background(), "Washington", "us")
	require.NoError(t, err)

	// The state, not the District of Columbia.
	assert.Greater(t, result.Lat, 45.0)
	assert.Less(t, result.Lon, -115.0)
}
