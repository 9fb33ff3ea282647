package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/pollenow/pollenow/internal/apperr"
	"github.com/pollenow/pollenow/internal/logging"
	"github.com/pollenow/pollenow/internal/user"
)

const resetTokenBytes = 32

// Client-facing messages.
const (
	msgMissingFields       = "Missing required fields"
	msgInvalidEmail        = "Invalid email format"
	msgUserExists          = "User already exists"
	msgInvalidCredentials  = "Invalid email or password"
	msgUserNotFound        = "User not found"
	msgInvalidRefreshToken = "Invalid refresh token"
	msgInvalidResetToken   = "Invalid or expired token"
)

// Mailer delivers password reset links.
type Mailer interface {
	SendPasswordResetEmail(ctx context.Context, toEmail, token string) error
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User         *user.Response `json:"user"`
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
}

// Service handles authentication business logic
type Service struct {
	users    user.Repository
	hasher   Hasher
	tokens   TokenService
	mailer   Mailer
	logger   *logging.Logger
	resetTTL time.Duration
	now      func() time.Time
}

// NewService wires the auth service. mailer may be nil, in which case reset
// tokens are only returned to the caller.
func NewService(
	users user.Repository,
	hasher Hasher,
	tokens TokenService,
	mailer Mailer,
	logger *logging.Logger,
	resetTTL time.Duration,
) *Service {
	return &Service{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		mailer:   mailer,
		logger:   logger,
		resetTTL: resetTTL,
		now:      time.Now,
	}
}

// Register creates a user and signs them in.
func (s *Service) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	if email == "" || password == "" || name == "" {
		return nil, apperr.Validation(msgMissingFields)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, apperr.Validation(msgInvalidEmail)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperr.AlreadyExists(msgUserExists)
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, apperr.Internal("failed to check existing user", err)
	}

	passwordHash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:           s.users.NewID(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
	}

	access, refresh, err := s.issuePair(Claims{UserID: u.ID, Email: u.Email})
	if err != nil {
		return nil, err
	}
	u.RefreshToken = &refresh

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, apperr.AlreadyExists(msgUserExists)
		}
		return nil, apperr.Internal("failed to create user", err)
	}

	return &AuthResult{User: u.Sanitize(), AccessToken: access, RefreshToken: refresh}, nil
}

// Login checks credentials and rotates the stored refresh token. Unknown
// emails and wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, apperr.Validation(msgMissingFields)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperr.InvalidCredentials(msgInvalidCredentials)
		}
		return nil, apperr.Internal("failed to get user", err)
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, apperr.InvalidCredentials(msgInvalidCredentials)
	}

	access, refresh, err := s.issuePair(Claims{UserID: u.ID, Email: u.Email})
	if err != nil {
		return nil, err
	}

	if err := s.users.SetRefreshToken(ctx, u.ID, refresh); err != nil {
		return nil, apperr.Internal("failed to store refresh token", err)
	}
	u.UpdatedAt = s.now()

	return &AuthResult{User: u.Sanitize(), AccessToken: access, RefreshToken: refresh}, nil
}

// Logout clears the stored refresh token. Access tokens already issued stay
// valid until they expire.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return apperr.NotFound(msgUserNotFound)
		}
		return apperr.Internal("failed to clear refresh token", err)
	}
	return nil
}

// Refresh returns a new access token when refreshToken is the one currently
// stored for userID.
func (s *Service) Refresh(ctx context.Context, userID, refreshToken string) (string, error) {
	if userID == "" || refreshToken == "" {
		return "", apperr.Validation(msgMissingFields)
	}

	invalid := apperr.New(apperr.KindInvalidRefreshToken, msgInvalidRefreshToken)

	claims, err := s.tokens.Verify(refreshToken)
	if err != nil || claims.UserID != userID {
		return "", invalid
	}

	u, err := s.users.GetByIDAndRefreshToken(ctx, userID, refreshToken)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", invalid
		}
		return "", apperr.Internal("failed to get user", err)
	}

	access, err := s.tokens.IssueAccessToken(Claims{UserID: u.ID, Email: u.Email})
	if err != nil {
		return "", apperr.Internal("failed to issue access token", err)
	}
	return access, nil
}

// ForgotPassword stores the hash of a fresh reset token and returns the raw
// token. When a mailer is configured the reset link is also sent in the
// background.
func (s *Service) ForgotPassword(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", apperr.Validation("Email is required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", apperr.NotFound(msgUserNotFound)
		}
		return "", apperr.Internal("failed to get user", err)
	}

	token, err := generateRandomToken()
	if err != nil {
		return "", apperr.Internal("failed to generate reset token", err)
	}

	expiresAt := s.now().Add(s.resetTTL)
	if err := s.users.SetPasswordReset(ctx, u.ID, hashToken(token), expiresAt); err != nil {
		return "", apperr.Internal("failed to store reset token", err)
	}

	if s.mailer != nil {
		mailCtx := context.WithoutCancel(ctx)
		go func() {
			if err := s.mailer.SendPasswordResetEmail(mailCtx, u.Email, token); err != nil {
				s.logger.Warn("failed to send password reset email", "user_id", u.ID, "error", err.Error())
			}
		}()
	}

	return token, nil
}

// ResetPassword sets a new password when token matches an unexpired reset
// request, and clears the reset request.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return apperr.Validation(msgMissingFields)
	}

	invalid := apperr.New(apperr.KindInvalidOrExpiredToken, msgInvalidResetToken)
	tokenHash := hashToken(token)

	if _, err := s.users.GetByValidResetToken(ctx, tokenHash, s.now()); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return invalid
		}
		return apperr.Internal("failed to get reset request", err)
	}

	passwordHash, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.ConsumePasswordReset(ctx, tokenHash, s.now(), passwordHash); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return invalid
		}
		return apperr.Internal("failed to reset password", err)
	}
	return nil
}

func (s *Service) issuePair(c Claims) (string, string, error) {
	access, err := s.tokens.IssueAccessToken(c)
	if err != nil {
		return "", "", apperr.Internal("failed to issue access token", err)
	}
	refresh, err := s.tokens.IssueRefreshToken(c)
	if err != nil {
		return "", "", apperr.Internal("failed to issue refresh token", err)
	}
	return access, refresh, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return "", apperr.Validation("Password must be at most 72 bytes")
		}
		return "", apperr.Internal("failed to hash password", err)
	}
	return hash, nil
}

// generateRandomToken returns 32 random bytes, hex encoded.
func generateRandomToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// hashToken is the stored form of a reset token.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
