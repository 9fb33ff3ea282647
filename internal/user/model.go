package user

import (
	"time"
)

// User is an account in the user directory.
type User struct {
	ID                   string
	Email                string
	PasswordHash         string
	Name                 string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	RefreshToken         *string
	PasswordResetToken   *string // SHA-256 hex of the raw reset token
	PasswordResetExpires *time.Time
}

// Response is the client-facing view of a user. Secrets never leave the
// service through it.
type Response struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Sanitize drops the password hash, refresh token and reset fields.
func (u *User) Sanitize() *Response {
	return &Response{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (u *User) clone() *User {
	cp := *u
	if u.RefreshToken != nil {
		token := *u.RefreshToken
		cp.RefreshToken = &token
	}
	if u.PasswordResetToken != nil {
		token := *u.PasswordResetToken
		cp.PasswordResetToken = &token
	}
	if u.PasswordResetExpires != nil {
		expires := *u.PasswordResetExpires
		cp.PasswordResetExpires = &expires
	}
	return &cp
}
