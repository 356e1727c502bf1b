package model

import (
	"strings"
	"time"
)

// User is the identity that authors and comments reference.
type User struct {
	ID           int64      `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	DateJoined   time.Time  `db:"date_joined" json:"date_joined"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName is "first last", trimmed; empty when neither is set.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayName prefers the full name and falls back to the username.
func (u *User) DisplayName() string {
	if name := u.FullName(); name != "" {
		return name
	}
	return u.Username
}

// Summary is the public, read-only view of a user nested in other payloads.
type Summary struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	DateJoined time.Time `json:"date_joined"`
}

func (u *User) ToSummary() *Summary {
	if u == nil {
		return nil
	}
	return &Summary{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		DateJoined: u.DateJoined,
	}
}
