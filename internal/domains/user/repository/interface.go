package repository

import (
	"context"

	"blog-backend/internal/domains/user/model"
)

// UserRepository is the persistence contract of the identity store.
type UserRepository interface {
	// Create inserts u and fills in ID and timestamps.
	// Errors: ErrUsernameTaken, ErrEmailTaken
	Create(ctx context.Context, u *model.User) error

	// FindByID returns ErrUserNotFound when absent.
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByUsername matches exactly; ErrUserNotFound when absent.
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	UpdateLastLogin(ctx context.Context, id int64) error

	// Delete removes the user; authors and comments keep their rows with user_id set to NULL.
	Delete(ctx context.Context, id int64) error
}
