package repository

import (
	"context"

	"blog-backend/internal/domains/comment/model"
)

type RepositoryInterface interface {
	// Create inserts c and fills ID and timestamps.
	// Errors: ErrPostGone when the post was deleted in the meantime
	Create(ctx context.Context, c *model.Comment) error

	// ListByPost returns the comments of a post, newest first, with their users.
	ListByPost(ctx context.Context, postID int64) ([]*model.Comment, error)
}
