package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollenow/pollenow/internal/config"
)

var testPasetoKey = []byte("0123456789abcdef0123456789abcdef")

func TestPasetoService_RoundTrip(t *testing.T) {
	s, err := NewPasetoService(testPasetoKey, time.Hour, 24*time.Hour)
	require.NoError(t, err)

	c := Claims{UserID: "user-1", Email: "a@example.com"}
	token, err := s.IssueAccessToken(c)
	require.NoError(t, err)

	got, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, c, got.Claims)
}

func TestPasetoService_Expiry(t *testing.T) {
	s, err := NewPasetoService(testPasetoKey, time.Minute, time.Hour)
	require.NoError(t, err)
	issued := time.Now().Truncate(time.Second)
	s.now = func() time.Time { return issued }

	token, err := s.IssueAccessToken(Claims{UserID: "user-1", Email: "a@example.com"})
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(time.Minute) }
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)

	got := s.Decode(token)
	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.UserID)
}

func TestPasetoService_WrongKey(t *testing.T) {
	s, err := NewPasetoService(testPasetoKey, time.Hour, time.Hour)
	require.NoError(t, err)
	other, err := NewPasetoService([]byte("abcdef0123456789abcdef0123456789"), time.Hour, time.Hour)
	require.NoError(t, err)

	token, err := s.IssueAccessToken(Claims{UserID: "user-1"})
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, other.Decode(token))
}

func TestNewPasetoService_KeyLength(t *testing.T) {
	_, err := NewPasetoService([]byte("short"), time.Hour, time.Hour)
	assert.Error(t, err)
}

func TestNewTokenService(t *testing.T) {
	jwtSvc, err := NewTokenService(config.AuthConfig{
		TokenFormat:          config.TokenFormatJWT,
		JWTSecret:            []byte("secret"),
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: time.Hour,
	})
	require.NoError(t, err)
	assert.IsType(t, &JWTService{}, jwtSvc)

	pasetoSvc, err := NewTokenService(config.AuthConfig{
		TokenFormat:          config.TokenFormatPaseto,
		PasetoKey:            testPasetoKey,
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: time.Hour,
	})
	require.NoError(t, err)
	assert.IsType(t, &PasetoService{}, pasetoSvc)

	_, err = NewTokenService(config.AuthConfig{TokenFormat: "saml"})
	assert.Error(t, err)
}
