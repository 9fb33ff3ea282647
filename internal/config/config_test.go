package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("TOKEN_FORMAT", "")
	t.Setenv("ACCESS_TOKEN_DURATION", "")
	t.Setenv("REFRESH_TOKEN_DURATION", "")
	t.Setenv("ALLOWED_ORIGINS", "")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, TokenFormatJWT, cfg.Auth.TokenFormat)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenDuration)
	assert.Equal(t, time.Hour, cfg.Auth.ResetTokenTTL)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, time.Hour, cfg.Cache.ForecastTTL)
}

func TestLoad_DurationsInSeconds(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ACCESS_TOKEN_DURATION", "120")
	t.Setenv("REFRESH_TOKEN_DURATION", "3600")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, time.Hour, cfg.Auth.RefreshTokenDuration)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing jwt secret",
			env:     map[string]string{"JWT_SECRET": ""},
			wantErr: "JWT_SECRET",
		},
		{
			name:    "short paseto key",
			env:     map[string]string{"TOKEN_FORMAT": "paseto", "PASETO_KEY": "short"},
			wantErr: "PASETO_KEY",
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"DB_DRIVER": "sqlite"},
			wantErr: "DB_DRIVER",
		},
		{
			name:    "mongo without uri",
			env:     map[string]string{"DB_DRIVER": "mongo", "MONGODB_URI": ""},
			wantErr: "MONGODB_URI",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetSliceEnv(t *testing.T) {
	t.Setenv("TEST_ORIGINS", " http://a.test , ,http://b.test")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, getSliceEnv("TEST_ORIGINS", nil))

	t.Setenv("TEST_ORIGINS", " , ")
	assert.Equal(t, []string{"x"}, getSliceEnv("TEST_ORIGINS", []string{"x"}))
}

func TestConnectionString(t *testing.T) {
	db := DatabaseConfig{Host: "h", Port: "5432", User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable", db.ConnectionString())

	db.ChannelBinding = "require"
	assert.Contains(t, db.ConnectionString(), "channel_binding=require")
}
