package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollenow/pollenow/cmd/pollenow/settings"
	"github.com/pollenow/pollenow/internal/cache"
	"github.com/pollenow/pollenow/internal/config"
	"github.com/pollenow/pollenow/internal/geocoding"
	"github.com/pollenow/pollenow/internal/pollen"
)

type stubGeocoder struct {
	result *geocoding.Result
	err    error
	calls  int
}

func (g *stubGeocoder) Geocode(ctx context.Context, zip string) (*geocoding.Result, error) {
	g.calls++
	return g.result, g.err
}

type stubClient struct {
	raw   *pollen.RawForecastResponse
	err   error
	calls int
	days  int
}

func (c *stubClient) GetForecast(ctx context.Context, lat, lng float64, days int) (*pollen.RawForecastResponse, error) {
	c.calls++
	c.days = days
	return c.raw, c.err
}

func newTestForecaster(t *testing.T) (*forecaster, *stubGeocoder, *stubClient, *time.Time) {
	t.Helper()
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	g := &stubGeocoder{result: &geocoding.Result{Lat: 37.45, Lng: -122.18, DisplayName: "Menlo Park, CA 94025, USA"}}
	c := &stubClient{raw: &pollen.RawForecastResponse{
		RegionCode: "us",
		DailyInfo:  []pollen.DailyInfo{{Date: pollen.DateInfo{Year: 2025, Month: 4, Day: 1}}},
	}}
	f := &forecaster{
		geocoder: g,
		client:   c,
		cache:    cache.NewFileCache(t.TempDir()),
		now:      func() time.Time { return now },
	}
	return f, g, c, &now
}

func TestResolveZIP(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		def     string
		want    string
		wantErr bool
	}{
		{"argument wins", []string{"10001"}, "94025", "10001", false},
		{"falls back to default", nil, "94025", "94025", false},
		{"blank argument uses default", []string{" "}, "94025", "94025", false},
		{"nothing configured", nil, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveZIP(tt.args, &settings.Settings{DefaultZIP: tt.def})
			if tt.wantErr {
				require.ErrorIs(t, err, errNoZIP)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDays(t *testing.T) {
	tests := []struct {
		name     string
		flagDays int
		today    bool
		cfgDays  int
		want     int
		wantErr  bool
	}{
		{"today overrides everything", 4, true, 3, 1, false},
		{"flag overrides config", 2, false, 3, 2, false},
		{"config used when flag unset", 0, false, 3, 3, false},
		{"default when nothing set", 0, false, 0, settings.DefaultDays, false},
		{"flag out of range", 6, false, 3, 0, true},
		{"negative flag", -1, false, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveDays(tt.flagDays, tt.today, &settings.Settings{Days: tt.cfgDays})
			if tt.wantErr {
				require.ErrorIs(t, err, settings.ErrInvalidDay)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveAPIKey(t *testing.T) {
	key, err := resolveAPIKey(&settings.Settings{APIKey: "cli-key"}, config.GoogleConfig{APIKey: "server-key"})
	require.NoError(t, err)
	assert.Equal(t, "cli-key", key)

	key, err = resolveAPIKey(&settings.Settings{}, config.GoogleConfig{APIKey: "server-key"})
	require.NoError(t, err)
	assert.Equal(t, "server-key", key)

	_, err = resolveAPIKey(&settings.Settings{}, config.GoogleConfig{})
	require.ErrorIs(t, err, settings.ErrNoAPIKey)
}

func TestLookup_CachesForAnHour(t *testing.T) {
	f, g, c, now := newTestForecaster(t)
	ctx := context.Background()

	first, err := f.lookup(ctx, "94025", 3)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "Menlo Park, CA 94025, USA", first.Place)
	assert.Equal(t, 3, c.days)

	*now = now.Add(12 * time.Minute)
	second, err := f.lookup(ctx, "94025", 3)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 12*time.Minute, second.CacheAge)
	assert.Equal(t, first.Place, second.Place)
	assert.Equal(t, 1, g.calls)
	assert.Equal(t, 1, c.calls)
}

func TestLookup_KeyIncludesDays(t *testing.T) {
	f, _, c, _ := newTestForecaster(t)
	ctx := context.Background()

	_, err := f.lookup(ctx, "94025", 3)
	require.NoError(t, err)
	_, err = f.lookup(ctx, "94025", 1)
	require.NoError(t, err)

	assert.Equal(t, 2, c.calls)
}

func TestLookup_WithoutCache(t *testing.T) {
	f, _, c, _ := newTestForecaster(t)
	f.cache = nil

	for i := 0; i < 2; i++ {
		res, err := f.lookup(context.Background(), "94025", 1)
		require.NoError(t, err)
		assert.False(t, res.Cached)
	}
	assert.Equal(t, 2, c.calls)
}

func TestLookup_Errors(t *testing.T) {
	t.Run("invalid zip", func(t *testing.T) {
		f, _, c, _ := newTestForecaster(t)
		f.geocoder = &stubGeocoder{err: geocoding.ErrInvalidZIP}

		_, err := f.lookup(context.Background(), "abc", 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "5-digit")
		assert.Zero(t, c.calls)
	})

	t.Run("upstream failure is not cached", func(t *testing.T) {
		f, _, c, _ := newTestForecaster(t)
		c.err = errors.New("boom")

		_, err := f.lookup(context.Background(), "94025", 1)
		require.Error(t, err)

		c.err = nil
		res, err := f.lookup(context.Background(), "94025", 1)
		require.NoError(t, err)
		assert.False(t, res.Cached)
	})
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigCommands(t *testing.T) {
	t.Setenv(settings.APIKeyEnv, "")
	path := filepath.Join(t.TempDir(), "pollenow", "config.yaml")

	_, err := runCLI(t, "", "config", "set", "default_zip", "94025", "--config", path)
	require.NoError(t, err)
	_, err = runCLI(t, "", "config", "set", "DAYS", "3", "--config", path)
	require.NoError(t, err)
	out, err := runCLI(t, "", "config", "set", "api_key", "AIzaSyExampleKey123", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "api_key set to AIza...123")

	s, err := settings.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "94025", s.DefaultZIP)
	assert.Equal(t, 3, s.Days)
	assert.Equal(t, "AIzaSyExampleKey123", s.APIKey)

	out, err = runCLI(t, "", "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "default_zip: 94025")
	assert.Contains(t, out, "days:        3")
	assert.NotContains(t, out, "AIzaSyExampleKey123")

	out, err = runCLI(t, "", "config", "path", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
}

func TestConfigSet_Rejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := runCLI(t, "", "config", "set", "days", "9", "--config", path)
	require.ErrorIs(t, err, settings.ErrInvalidDay)

	_, err = runCLI(t, "", "config", "set", "color", "red", "--config", path)
	require.Error(t, err)
	assert.False(t, settings.Exists(path))
}

func TestConfigInit(t *testing.T) {
	t.Setenv(settings.APIKeyEnv, "")
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := runCLI(t, "my-key\n10001\n", "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Config saved to "+path)

	s, err := settings.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "my-key", s.APIKey)
	assert.Equal(t, "10001", s.DefaultZIP)

	_, err = runCLI(t, "\n", "config", "init", "--config", filepath.Join(t.TempDir(), "other.yaml"))
	require.Error(t, err)
}

func TestRoot_NoZIP(t *testing.T) {
	t.Setenv(settings.APIKeyEnv, "some-key")
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := runCLI(t, "", "--config", path, "--cache-dir", "")
	require.ErrorIs(t, err, errNoZIP)

	_, err = runCLI(t, "", "forecast", "--config", path, "--cache-dir", "")
	require.ErrorIs(t, err, errNoZIP)
}

func TestRoot_RejectsExtraArgs(t *testing.T) {
	_, err := runCLI(t, "", "10001", "94025")
	require.Error(t, err)
}

func TestConfigSet_DoesNotPersistEnvKey(t *testing.T) {
	t.Setenv(settings.APIKeyEnv, "env-key")
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := runCLI(t, "", "config", "set", "default_zip", "94025", "--config", path)
	require.NoError(t, err)

	s, err := settings.Read(path)
	require.NoError(t, err)
	assert.Empty(t, s.APIKey)
	assert.Equal(t, "94025", s.DefaultZIP)
}
