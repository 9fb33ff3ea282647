package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollenow/pollenow/internal/auth"
	"github.com/pollenow/pollenow/internal/config"
	"github.com/pollenow/pollenow/internal/geocoding"
	"github.com/pollenow/pollenow/internal/location"
	"github.com/pollenow/pollenow/internal/logging"
	"github.com/pollenow/pollenow/internal/pollen"
	"github.com/pollenow/pollenow/internal/user"
)

type fixedGeocoder struct{}

func (fixedGeocoder) Geocode(ctx context.Context, zipCode string) (*geocoding.Result, error) {
	return &geocoding.Result{Lat: 40.75, Lng: -73.99}, nil
}

type fixedPollenClient struct{}

func (fixedPollenClient) GetForecast(ctx context.Context, lat, lng float64, days int) (*pollen.RawForecastResponse, error) {
	raw := &pollen.RawForecastResponse{RegionCode: "US"}
	for i := 0; i < days; i++ {
		raw.DailyInfo = append(raw.DailyInfo, pollen.DailyInfo{
			Date: pollen.DateInfo{Year: 2025, Month: 4, Day: 1 + i},
		})
	}
	return raw, nil
}

func newTestRouter(t *testing.T, env string) http.Handler {
	t.Helper()
	logger := logging.New(io.Discard, false)

	tokens, err := auth.NewJWTService([]byte("router-test-secret"), time.Hour, 7*24*time.Hour)
	require.NoError(t, err)

	authService := auth.NewService(user.NewMemoryRepository(), auth.NewPasswordHasher(4), tokens, nil, logger, time.Hour)
	locationService := location.NewService(location.NewMemoryRepository(), fixedGeocoder{}, logger)
	pollenService := pollen.NewService(locationService, fixedPollenClient{}, nil, time.Hour, logger)

	return NewRouter(
		config.ServerConfig{Env: env, AllowedOrigins: []string{"*"}},
		Handlers{
			Auth:     auth.NewHandler(authService, nil),
			Location: location.NewHandler(locationService),
			Pollen:   pollen.NewHandler(pollenService),
		},
		auth.NewMiddleware(tokens),
		logger,
	)
}

func do(t *testing.T, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_HealthAndHello(t *testing.T) {
	router := newTestRouter(t, "prod")

	rec := do(t, router, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"api is running"}`, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = do(t, router, http.MethodGet, "/hello", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Hello from pollenow!"}`, rec.Body.String())
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(t, "prod")

	req := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRouter_SwaggerOnlyInDevelopment(t *testing.T) {
	rec := do(t, newTestRouter(t, "prod"), http.MethodGet, "/swagger/index.html", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t, "prod")

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/auth/logout"},
		{http.MethodGet, "/protected"},
		{http.MethodGet, "/location"},
		{http.MethodPost, "/location"},
		{http.MethodDelete, "/location"},
		{http.MethodGet, "/pollen/forecast"},
	} {
		rec := do(t, router, tc.method, tc.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
		assert.JSONEq(t, `{"message":"No token provided","code":"MISSING_AUTH"}`, rec.Body.String(), tc.path)
	}
}

func TestRouter_EndToEnd(t *testing.T) {
	router := newTestRouter(t, "prod")

	rec := do(t, router, http.MethodPost, "/auth/register", map[string]string{
		"email": "a@example.com", "password": "password123", "name": "A",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var registered struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	token := registered.AccessToken

	rec = do(t, router, http.MethodGet, "/pollen/forecast", nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPost, "/location", map[string]string{"zipCode": "10001"}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/pollen/forecast?days=2", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var forecast struct {
		Success bool `json:"success"`
		Data    struct {
			Forecast []map[string]any `json:"forecast"`
			Meta     struct {
				RegionCode    string `json:"regionCode"`
				DaysRequested int    `json:"daysRequested"`
			} `json:"meta"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &forecast))
	assert.True(t, forecast.Success)
	assert.Len(t, forecast.Data.Forecast, 2)
	assert.Equal(t, "US", forecast.Data.Meta.RegionCode)
	assert.Equal(t, 2, forecast.Data.Meta.DaysRequested)

	rec = do(t, router, http.MethodDelete, "/location", nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPost, "/auth/logout", nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)
}
