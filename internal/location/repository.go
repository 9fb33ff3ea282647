package location

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("location not found")

// Repository stores at most one location per user.
type Repository interface {
	Get(ctx context.Context, userID string) (*Location, error)
	// Upsert creates or replaces the user's location. A nil coords clears any
	// previously stored coordinates.
	Upsert(ctx context.Context, userID, zipCode string, coords *Coordinates) (*Location, error)
	Delete(ctx context.Context, userID string) error
}
