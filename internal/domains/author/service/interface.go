package service

import (
	"context"

	"blog-backend/internal/domains/author/model"
	usermodel "blog-backend/internal/domains/user/model"
)

// UserLookup is the slice of the user service authors need.
type UserLookup interface {
	GetUser(ctx context.Context, userID int64) (*usermodel.User, error)
}

type ServiceInterface interface {
	// ResolveForUser returns the caller's author profile, creating it on first use.
	// Errors: usermodel.ErrUserNotFound, model.ErrEmailTaken
	ResolveForUser(ctx context.Context, userID int64) (*model.Author, error)
}
