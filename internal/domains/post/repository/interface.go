package repository

import (
	"context"

	"blog-backend/internal/domains/post/model"
)

// RepositoryInterface reads and writes posts.
// Reads that serve the public API only ever see active posts; owner-scoped writes see
// every post of the caller's author profile.
type RepositoryInterface interface {
	// List returns one page of active posts matching f, in f.Ordering.
	List(ctx context.Context, f model.ListFilter, limit, offset int) ([]*model.Post, error)
	Count(ctx context.Context, f model.ListFilter) (int64, error)

	// GetActiveByID loads an active post with its author (and the author's user).
	// Errors: ErrPostNotFound
	GetActiveByID(ctx context.Context, id int64) (*model.Post, error)

	// FindByID loads a post regardless of its active flag.
	// Errors: ErrPostNotFound
	FindByID(ctx context.Context, id int64) (*model.Post, error)

	// Create inserts p (status and active as given) and fills ID, PublishedDate and timestamps.
	Create(ctx context.Context, p *model.Post) error

	// UpdateOwned applies patch to post id if its author is linked to userID.
	// Errors: ErrPostNotFound (absent or not owned)
	UpdateOwned(ctx context.Context, id, userID int64, patch model.Patch) (*model.Post, error)

	// IsOwned reports whether post id exists and belongs to userID, whatever its state.
	IsOwned(ctx context.Context, id, userID int64) (bool, error)

	// DeleteOwned deletes post id (and, by cascade, its comments) if owned by userID.
	// Errors: ErrPostNotFound (absent or not owned)
	DeleteOwned(ctx context.Context, id, userID int64) error
}
