package pollen

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
	"regionCode": "us",
	"dailyInfo": [
		{
			"date": {"year": 2025, "month": 4, "day": 1},
			"pollenTypeInfo": [
				{"code": "GRASS", "displayName": "Grass", "inSeason": true,
				 "indexInfo": {"code": "UPI", "value": 2, "category": "Low", "color": {"green": 0.6}},
				 "healthRecommendations": ["Keep windows closed", "Wear sunglasses"]},
				{"code": "TREE", "displayName": "Tree", "inSeason": true,
				 "indexInfo": {"code": "UPI", "value": 4, "category": "High"},
				 "healthRecommendations": ["Keep windows closed", "Shower after being outside"]},
				{"code": "WEED", "displayName": "Weed"}
			]
		},
		{
			"date": {"year": 2025, "month": 4, "day": 2},
			"pollenTypeInfo": []
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *GoogleClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGoogleClient("test-key", time.Second, WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestGoogleClient_GetForecast(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast:lookup", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "40.7128", q.Get("location.latitude"))
		assert.Equal(t, "-74.006", q.Get("location.longitude"))
		assert.Equal(t, "3", q.Get("days"))
		assert.Equal(t, "true", q.Get("plantsDescription"))
		assert.Equal(t, "en", q.Get("languageCode"))
		_, _ = w.Write([]byte(sampleResponse))
	})

	raw, err := c.GetForecast(context.Background(), 40.7128, -74.006, 3)
	require.NoError(t, err)
	assert.Equal(t, "us", raw.RegionCode)
	require.Len(t, raw.DailyInfo, 2)
	assert.Equal(t, 2, raw.DailyInfo[0].PollenTypeInfo[0].IndexInfo.Value)
}

func TestGoogleClient_APIErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "API key not valid."}}`))
	})

	_, err := c.GetForecast(context.Background(), 1, 2, 1)
	assert.ErrorIs(t, err, ErrAPIRequest)
	assert.ErrorContains(t, err, "API key not valid.")
}

func TestGoogleClient_APIErrorWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.GetForecast(context.Background(), 1, 2, 1)
	assert.ErrorIs(t, err, ErrAPIRequest)
	assert.ErrorContains(t, err, "status 502")
}

func TestGoogleClient_Validation(t *testing.T) {
	c := NewGoogleClient("test-key", time.Second)
	for _, days := range []int{0, 6, -1} {
		_, err := c.GetForecast(context.Background(), 1, 2, days)
		assert.ErrorIs(t, err, ErrInvalidDays)
	}

	_, err := NewGoogleClient("", time.Second).GetForecast(context.Background(), 1, 2, 1)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
