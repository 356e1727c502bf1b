package service

import (
	"context"

	authormodel "blog-backend/internal/domains/author/model"
	commentmodel "blog-backend/internal/domains/comment/model"
	"blog-backend/internal/domains/post/model"
)

// AuthorResolver finds or lazily creates the caller's author profile.
type AuthorResolver interface {
	ResolveForUser(ctx context.Context, userID int64) (*authormodel.Author, error)
}

// CommentLister supplies the comments nested in a post detail.
type CommentLister interface {
	ListForPost(ctx context.Context, postID int64) ([]*commentmodel.View, error)
}

type ServiceInterface interface {
	// ListPosts filters, orders and paginates active posts.
	// Errors: validation.Errors for malformed parameters, ErrInvalidPage past the last page.
	ListPosts(ctx context.Context, q model.ListPostsQuery) (*model.PostList, error)

	GetPost(ctx context.Context, id int64) (*model.Detail, error)

	CreatePost(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.Created, error)

	// UpdatePost applies req to a post owned by userID; partial selects PATCH semantics.
	UpdatePost(ctx context.Context, userID, id int64, req model.UpdatePostRequest, partial bool) (*model.Updated, error)

	DeletePost(ctx context.Context, userID, id int64) error
}
