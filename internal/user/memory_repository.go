package user

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory. Used by the memory store
// driver and by service tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *MemoryRepository) NewID() string {
	return uuid.NewString()
}

func (r *MemoryRepository) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[u.Email]; exists {
		return ErrDuplicateEmail
	}
	if u.ID == "" {
		u.ID = r.NewID()
	}

	now := r.now()
	u.CreatedAt = now
	u.UpdatedAt = now

	r.byID[u.ID] = u.clone()
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u.clone(), nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return r.byID[id].clone(), nil
}

func (r *MemoryRepository) GetByIDAndRefreshToken(ctx context.Context, id, token string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != token {
		return nil, ErrNotFound
	}
	return u.clone(), nil
}

func (r *MemoryRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	return r.update(id, func(u *User) {
		u.RefreshToken = &token
	})
}

func (r *MemoryRepository) ClearRefreshToken(ctx context.Context, id string) error {
	return r.update(id, func(u *User) {
		u.RefreshToken = nil
	})
}

func (r *MemoryRepository) SetPasswordReset(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	return r.update(id, func(u *User) {
		u.PasswordResetToken = &tokenHash
		u.PasswordResetExpires = &expiresAt
	})
}

func (r *MemoryRepository) GetByValidResetToken(ctx context.Context, tokenHash string, now time.Time) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u := r.findReset(tokenHash, now); u != nil {
		return u.clone(), nil
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) ConsumePasswordReset(ctx context.Context, tokenHash string, now time.Time, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.findReset(tokenHash, now)
	if u == nil {
		return ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.PasswordResetToken = nil
	u.PasswordResetExpires = nil
	u.UpdatedAt = r.now()
	return nil
}

// findReset must be called with the lock held.
func (r *MemoryRepository) findReset(tokenHash string, now time.Time) *User {
	for _, u := range r.byID {
		if u.PasswordResetToken == nil || u.PasswordResetExpires == nil {
			continue
		}
		if *u.PasswordResetToken == tokenHash && u.PasswordResetExpires.After(now) {
			return u
		}
	}
	return nil
}

func (r *MemoryRepository) update(id string, fn func(u *User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	fn(u)
	u.UpdatedAt = r.now()
	return nil
}
