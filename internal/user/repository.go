package user

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// Repository is the user directory. Every mutating method is a single
// atomic update of one record and refreshes UpdatedAt.
type Repository interface {
	// NewID returns an identifier in the store's native format so callers can
	// mint tokens before the insert.
	NewID() string
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByIDAndRefreshToken matches only when the stored refresh token
	// equals token exactly.
	GetByIDAndRefreshToken(ctx context.Context, id, token string) (*User, error)
	SetRefreshToken(ctx context.Context, id, token string) error
	ClearRefreshToken(ctx context.Context, id string) error
	SetPasswordReset(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	// GetByValidResetToken matches a stored reset hash whose expiry is after now.
	GetByValidResetToken(ctx context.Context, tokenHash string, now time.Time) (*User, error)
	// ConsumePasswordReset stores passwordHash and clears both reset fields,
	// provided the reset hash still matches and has not expired.
	ConsumePasswordReset(ctx context.Context, tokenHash string, now time.Time, passwordHash string) error
}
