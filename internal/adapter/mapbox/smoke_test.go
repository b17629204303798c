//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/smart-city-service/internal/domain"
	"github.com/couchcryptid/smart-city-service/internal/observability"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return NewClient(token, 10*time.Second, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_ForwardGeocode(t *testing.T) {
	result, err := smokeClient(t).ForwardGeocode(context.Background(), "Lucknow")
	require.NoError(t, err)

	assert.InDelta(t, 26.85, result.Lat, 0.2)
	assert.InDelta(t, 80.95, result.Lon, 0.2)
	assert.Equal(t, "Lucknow", result.PlaceName)
}

func TestSmoke_ReverseGeocode(t *testing.T) {
	result, err := smokeClient(t).ReverseGeocode(context.Background(), 26.8467, 80.9462)
	require.NoError(t, err)

	assert.NotEmpty(t, result.PlaceName)
}

func TestSmoke_ResolverFallback(t *testing.T) {
	cached := NewCachedGeocoder(smokeClient(t), 10, observability.NewMetricsForTesting())
	resolver := domain.NewResolver(cached, slog.New(slog.NewTextHandler(io.Discard, nil)))

	city, err := resolver.Geocode(context.Background(), "Lucknow")
	require.NoError(t, err)

	assert.Equal(t, "Lucknow", city.Name)
	assert.InDelta(t, 26.85, city.Latitude, 0.2)
}
