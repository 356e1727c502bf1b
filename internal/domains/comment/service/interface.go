package service

import (
	"context"

	"blog-backend/internal/domains/comment/model"
	postmodel "blog-backend/internal/domains/post/model"
	usermodel "blog-backend/internal/domains/user/model"
)

// PostLookup finds a comment's target post whatever its active flag.
type PostLookup interface {
	FindByID(ctx context.Context, id int64) (*postmodel.Post, error)
}

// UserLookup resolves the commenting account.
type UserLookup interface {
	GetUser(ctx context.Context, userID int64) (*usermodel.User, error)
}

type ServiceInterface interface {
	// CreateComment adds a comment to an active post; userID is nil for anonymous callers.
	// A missing or inactive post is a validation error on "post".
	CreateComment(ctx context.Context, userID *int64, req model.CreateCommentRequest) (*model.Created, error)

	// ListForPost returns the post's comments newest first.
	ListForPost(ctx context.Context, postID int64) ([]*model.View, error)
}
