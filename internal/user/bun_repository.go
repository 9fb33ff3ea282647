package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/uptrace/bun"
)

const uniqueViolation = "23505"

type userModel struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                   uuid.UUID  `bun:"id,pk,type:uuid"`
	Email                string     `bun:"email,notnull,unique"`
	PasswordHash         string     `bun:"password_hash,notnull"`
	Name                 string     `bun:"name,notnull"`
	RefreshToken         *string    `bun:"refresh_token"`
	PasswordResetToken   *string    `bun:"password_reset_token"`
	PasswordResetExpires *time.Time `bun:"password_reset_expires"`
	CreatedAt            time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt            time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}

// BunRepository stores users in PostgreSQL.
type BunRepository struct {
	db *bun.DB
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

// CreateTable creates the users table if it does not exist.
func (r *BunRepository) CreateTable(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*userModel)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

func (r *BunRepository) NewID() string {
	return uuid.NewString()
}

func (r *BunRepository) Create(ctx context.Context, u *User) error {
	id, err := uuid.Parse(u.ID)
	if u.ID == "" {
		id, err = uuid.New(), nil
	}
	if err != nil {
		return fmt.Errorf("failed to create user: invalid id %q", u.ID)
	}

	now := time.Now()
	dbUser := &userModel{
		ID:           id,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		RefreshToken: u.RefreshToken,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = r.db.NewInsert().
		Model(dbUser).
		Returning("*").
		Exec(ctx)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	*u = *mapDBUserToModel(dbUser)
	return nil
}

func (r *BunRepository) GetByID(ctx context.Context, id string) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.selectOne(ctx, "get user by id", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("id = ?", uid)
	})
}

func (r *BunRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.selectOne(ctx, "get user by email", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("email = ?", email)
	})
}

func (r *BunRepository) GetByIDAndRefreshToken(ctx context.Context, id, token string) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.selectOne(ctx, "get user by refresh token", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("id = ?", uid).Where("refresh_token = ?", token)
	})
}

func (r *BunRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	return r.updateByID(ctx, id, "set refresh token", func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.Set("refresh_token = ?", token)
	})
}

func (r *BunRepository) ClearRefreshToken(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, "clear refresh token", func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.Set("refresh_token = NULL")
	})
}

func (r *BunRepository) SetPasswordReset(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	return r.updateByID(ctx, id, "set password reset", func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.Set("password_reset_token = ?", tokenHash).
			Set("password_reset_expires = ?", expiresAt)
	})
}

func (r *BunRepository) GetByValidResetToken(ctx context.Context, tokenHash string, now time.Time) (*User, error) {
	return r.selectOne(ctx, "get user by reset token", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("password_reset_token = ?", tokenHash).
			Where("password_reset_expires > ?", now)
	})
}

func (r *BunRepository) ConsumePasswordReset(ctx context.Context, tokenHash string, now time.Time, passwordHash string) error {
	result, err := r.db.NewUpdate().
		Model((*userModel)(nil)).
		Set("password_hash = ?", passwordHash).
		Set("password_reset_token = NULL").
		Set("password_reset_expires = NULL").
		Set("updated_at = NOW()").
		Where("password_reset_token = ?", tokenHash).
		Where("password_reset_expires > ?", now).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return checkAffected(result)
}

func (r *BunRepository) selectOne(ctx context.Context, op string, where func(*bun.SelectQuery) *bun.SelectQuery) (*User, error) {
	dbUser := new(userModel)
	err := where(r.db.NewSelect().Model(dbUser)).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return mapDBUserToModel(dbUser), nil
}

func (r *BunRepository) updateByID(ctx context.Context, id, op string, set func(*bun.UpdateQuery) *bun.UpdateQuery) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	q := r.db.NewUpdate().Model((*userModel)(nil))
	result, err := set(q).
		Set("updated_at = NOW()").
		Where("id = ?", uid).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *userModel) *User {
	return &User{
		ID:                   dbu.ID.String(),
		Email:                dbu.Email,
		PasswordHash:         dbu.PasswordHash,
		Name:                 dbu.Name,
		RefreshToken:         dbu.RefreshToken,
		PasswordResetToken:   dbu.PasswordResetToken,
		PasswordResetExpires: dbu.PasswordResetExpires,
		CreatedAt:            dbu.CreatedAt,
		UpdatedAt:            dbu.UpdatedAt,
	}
}
