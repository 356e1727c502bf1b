package repository

import (
	"context"

	"blog-backend/internal/domains/author/model"
)

type RepositoryInterface interface {
	// GetOrCreateByUser returns the author linked to seed.UserID, inserting seed when none exists.
	// Concurrent callers for the same user all end up with the same row.
	// created reports whether this call inserted it. Errors: ErrEmailTaken
	GetOrCreateByUser(ctx context.Context, seed model.Author) (a *model.Author, created bool, err error)
}
