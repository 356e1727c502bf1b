package model

import (
	"errors"
	"time"

	usermodel "blog-backend/internal/domains/user/model"
)

// MaxNameLength bounds Author.Name in runes.
const MaxNameLength = 100

var (
	// ErrEmailTaken is returned when a new profile's seed email already belongs to another author.
	ErrEmailTaken = errors.New("an author with this email already exists")
)

// Author is the publishing profile that owns posts.
// UserID is nil for profiles not (or no longer) linked to an account.
type Author struct {
	ID        int64              `json:"id" db:"id"`
	Name      string             `json:"name" db:"name"`
	Email     string             `json:"email" db:"email"`
	UserID    *int64             `json:"-" db:"user_id"`
	User      *usermodel.Summary `json:"user"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" db:"updated_at"`
}

// SeedFromUser builds the defaults of a lazily created profile: display name and account email.
func SeedFromUser(u *usermodel.User) Author {
	name := []rune(u.DisplayName())
	if len(name) > MaxNameLength {
		name = name[:MaxNameLength]
	}
	id := u.ID
	return Author{
		Name:   string(name),
		Email:  u.Email,
		UserID: &id,
		User:   u.ToSummary(),
	}
}
