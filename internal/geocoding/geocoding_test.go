package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeocoder(t *testing.T, status int, body string) *GoogleGeocoder {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return NewGoogleGeocoder("test-key", time.Second, WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestGeocode_Success(t *testing.T) {
	g := newTestGeocoder(t, http.StatusOK, `{
		"results": [{
			"geometry": {"location": {"lat": 37.4419, "lng": -122.1430}},
			"formatted_address": "Menlo Park, CA 94025, USA"
		}],
		"status": "OK"
	}`)

	res, err := g.Geocode(context.Background(), "94025")
	require.NoError(t, err)
	assert.InDelta(t, 37.4419, res.Lat, 1e-9)
	assert.InDelta(t, -122.1430, res.Lng, 1e-9)
	assert.Equal(t, "Menlo Park, CA 94025, USA", res.DisplayName)
}

func TestGeocode_InvalidZIP(t *testing.T) {
	g := NewGoogleGeocoder("test-key", time.Second)

	for _, zip := range []string{"abc", "1234", "123456", ""} {
		_, err := g.Geocode(context.Background(), zip)
		assert.ErrorIs(t, err, ErrInvalidZIP, "zip=%q", zip)
	}
}

func TestGeocode_MissingAPIKey(t *testing.T) {
	g := NewGoogleGeocoder("", time.Second)

	_, err := g.Geocode(context.Background(), "94025")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGeocode_ZeroResults(t *testing.T) {
	g := newTestGeocoder(t, http.StatusOK, `{"results": [], "status": "ZERO_RESULTS"}`)

	_, err := g.Geocode(context.Background(), "00000")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestGeocode_ErrorMessage(t *testing.T) {
	g := newTestGeocoder(t, http.StatusOK, `{"results": [], "status": "REQUEST_DENIED", "error_message": "The provided API key is invalid."}`)

	_, err := g.Geocode(context.Background(), "94025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The provided API key is invalid.")
	assert.NotErrorIs(t, err, ErrNoResults)
}

func TestGeocode_HTTPError(t *testing.T) {
	g := newTestGeocoder(t, http.StatusInternalServerError, `oops`)

	_, err := g.Geocode(context.Background(), "94025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
