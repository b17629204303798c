package airvisual

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/smart-city-service/internal/domain"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key", 5*time.Second)
	c.baseURL = srv.URL
	return c
}

func TestClient_AirQuality(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/city", r.URL.Path)
		assert.Equal(t, "Pune", r.URL.Query().Get("city"))
		assert.Equal(t, "India", r.URL.Query().Get("country"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{"status":"success","data":{"current":{"pollution":{"aqius":100},"weather":{"tp":31,"hu":55,"ws":4.5}}}}`))
	})

	got, err := c.AirQuality(context.Background(), domain.City{Name: "Pune"})
	require.NoError(t, err)

	assert.InDelta(t, 100, got.AQI, 1e-9)
	assert.InDelta(t, 100, got.PM25, 1e-9)
	assert.InDelta(t, 120, got.PM10, 1e-9)
	assert.InDelta(t, 30, got.NO2, 1e-9)
	assert.InDelta(t, 5, got.CO, 1e-9)
	assert.InDelta(t, 31, got.Temperature, 1e-9)
	assert.InDelta(t, 4.5, got.WindSpeed, 1e-9)
	assert.Equal(t, ProviderName, got.Source)
}

func TestClient_AirQuality_MissingWeatherUsesDefaults(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{"current":{"pollution":{"aqius":80}}}}`))
	})

	got, err := c.AirQuality(context.Background(), domain.City{Name: "Pune"})
	require.NoError(t, err)

	assert.InDelta(t, 25, got.Temperature, 1e-9)
	assert.InDelta(t, 60, got.Humidity, 1e-9)
	assert.InDelta(t, 10, got.WindSpeed, 1e-9)
}

func TestClient_AirQuality_FailStatus(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","data":{"message":"city_not_found"}}`))
	})

	_, err := c.AirQuality(context.Background(), domain.City{Name: "Atlantis"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fail")
}

func TestClient_AirQuality_HTTPError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.AirQuality(context.Background(), domain.City{Name: "Pune"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
