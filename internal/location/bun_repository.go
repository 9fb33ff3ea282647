package location

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type locationModel struct {
	bun.BaseModel `bun:"table:user_locations,alias:ul"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	UserID    string    `bun:"user_id,notnull,unique"`
	ZipCode   string    `bun:"zip_code,notnull"`
	Lat       *float64  `bun:"lat"`
	Lng       *float64  `bun:"lng"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// BunRepository stores locations in PostgreSQL.
type BunRepository struct {
	db *bun.DB
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

// CreateTable creates the user_locations table if it does not exist.
func (r *BunRepository) CreateTable(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*locationModel)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create user_locations table: %w", err)
	}
	return nil
}

func (r *BunRepository) Get(ctx context.Context, userID string) (*Location, error) {
	m := new(locationModel)
	err := r.db.NewSelect().
		Model(m).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	return m.toModel(), nil
}

func (r *BunRepository) Upsert(ctx context.Context, userID, zipCode string, coords *Coordinates) (*Location, error) {
	now := time.Now()
	m := &locationModel{
		ID:        uuid.New(),
		UserID:    userID,
		ZipCode:   zipCode,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if coords != nil {
		m.Lat, m.Lng = &coords.Lat, &coords.Lng
	}

	_, err := r.db.NewInsert().
		Model(m).
		On("CONFLICT (user_id) DO UPDATE").
		Set("zip_code = EXCLUDED.zip_code").
		Set("lat = EXCLUDED.lat").
		Set("lng = EXCLUDED.lng").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to save location: %w", err)
	}
	return m.toModel(), nil
}

func (r *BunRepository) Delete(ctx context.Context, userID string) error {
	result, err := r.db.NewDelete().
		Model((*locationModel)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *locationModel) toModel() *Location {
	loc := &Location{
		ID:        m.ID.String(),
		UserID:    m.UserID,
		ZipCode:   m.ZipCode,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Lat != nil && m.Lng != nil {
		loc.Coordinates = &Coordinates{Lat: *m.Lat, Lng: *m.Lng}
	}
	return loc
}
