package location

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu       sync.RWMutex
	byUserID map[string]*Location
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byUserID: make(map[string]*Location)}
}

func (r *MemoryRepository) Get(ctx context.Context, userID string) (*Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loc, ok := r.byUserID[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(loc), nil
}

func (r *MemoryRepository) Upsert(ctx context.Context, userID, zipCode string, coords *Coordinates) (*Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	loc, ok := r.byUserID[userID]
	if !ok {
		loc = &Location{ID: uuid.NewString(), UserID: userID, CreatedAt: now}
		r.byUserID[userID] = loc
	}
	loc.ZipCode = zipCode
	loc.Coordinates = nil
	if coords != nil {
		c := *coords
		loc.Coordinates = &c
	}
	loc.UpdatedAt = now

	return clone(loc), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUserID[userID]; !ok {
		return ErrNotFound
	}
	delete(r.byUserID, userID)
	return nil
}

func clone(l *Location) *Location {
	cp := *l
	if l.Coordinates != nil {
		c := *l.Coordinates
		cp.Coordinates = &c
	}
	return &cp
}
