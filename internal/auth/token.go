package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/pollenow/pollenow/internal/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = fmt.Errorf("%w: token has expired", ErrInvalidToken)
)

// Claims identifies the user a token was issued to.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// TokenClaims are Claims plus the validity window read from a token.
type TokenClaims struct {
	Claims
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenService mints and checks access and refresh tokens.
// Implementations include JWTService (HS256) and PasetoService (v4.local).
type TokenService interface {
	IssueAccessToken(c Claims) (string, error)
	IssueRefreshToken(c Claims) (string, error)
	// Verify checks signature and expiry. Expired tokens fail with
	// ErrExpiredToken, which matches ErrInvalidToken.
	Verify(token string) (*TokenClaims, error)
	// Decode reads claims without checking the signature or expiry and
	// returns nil when the token cannot be parsed.
	Decode(token string) *TokenClaims
}

// NewTokenService builds the token service selected by cfg.TokenFormat.
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	switch cfg.TokenFormat {
	case config.TokenFormatJWT, "":
		return NewJWTService(cfg.JWTSecret, cfg.AccessTokenDuration, cfg.RefreshTokenDuration)
	case config.TokenFormatPaseto:
		return NewPasetoService(cfg.PasetoKey, cfg.AccessTokenDuration, cfg.RefreshTokenDuration)
	default:
		return nil, fmt.Errorf("unknown token format %q", cfg.TokenFormat)
	}
}
