package auth

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

// PasetoService handles PASETO token creation and validation
// Uses v4.local (symmetric encryption with XChaCha20-Poly1305)
type PasetoService struct {
	symmetricKey paseto.V4SymmetricKey
	accessTTL    time.Duration
	refreshTTL   time.Duration
	now          func() time.Time
}

func NewPasetoService(symmetricKey []byte, accessTTL, refreshTTL time.Duration) (*PasetoService, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &PasetoService{
		symmetricKey: key,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
		now:          time.Now,
	}, nil
}

func (s *PasetoService) IssueAccessToken(c Claims) (string, error) {
	return s.issue(c, s.accessTTL), nil
}

func (s *PasetoService) IssueRefreshToken(c Claims) (string, error) {
	return s.issue(c, s.refreshTTL), nil
}

func (s *PasetoService) issue(c Claims, ttl time.Duration) string {
	now := s.now()

	token := paseto.NewToken()
	token.SetJti(uuid.NewString())
	token.SetIssuedAt(now)
	token.SetExpiration(now.Add(ttl))
	token.SetString("userId", c.UserID)
	token.SetString("email", c.Email)

	return token.V4Encrypt(s.symmetricKey, nil)
}

// Verify decrypts a v4.local token and checks expiry against the service clock.
func (s *PasetoService) Verify(tokenStr string) (*TokenClaims, error) {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !s.now().Before(claims.ExpiresAt) {
		return nil, ErrExpiredToken
	}
	return claims, nil
}

// Decode returns the claims of a token that decrypts with the service key,
// expired or not. Local tokens cannot be read without the key.
func (s *PasetoService) Decode(tokenStr string) *TokenClaims {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return nil
	}
	return claims
}

func (s *PasetoService) parse(tokenStr string) (*TokenClaims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		return nil, err
	}

	userID, err := token.GetString("userId")
	if err != nil {
		return nil, err
	}

	email, err := token.GetString("email")
	if err != nil {
		return nil, err
	}

	issuedAt, err := token.GetIssuedAt()
	if err != nil {
		return nil, err
	}

	expiresAt, err := token.GetExpiration()
	if err != nil {
		return nil, err
	}

	return &TokenClaims{
		Claims:    Claims{UserID: userID, Email: email},
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
