package service

import (
	"context"

	"blog-backend/internal/domains/user/model"
	"blog-backend/pkg/jwt"
)

// ServiceInterface covers registration, token issuance and the caller's own account.
type ServiceInterface interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.Summary, error)

	// Login verifies credentials and issues an access/refresh pair.
	// Repeated failures for a username lock it out for a while (ErrTooManyAttempts).
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)

	// Refresh trades a refresh token for a new access token.
	Refresh(ctx context.Context, req model.RefreshTokenRequest) (*model.RefreshTokenResponse, error)

	// Logout revokes the presented access token until it would have expired anyway.
	Logout(ctx context.Context, claims *jwt.Claims) error

	GetProfile(ctx context.Context, userID int64) (*model.Summary, error)

	// GetUser returns the full entity; used to seed author profiles.
	GetUser(ctx context.Context, userID int64) (*model.User, error)

	// AccountActive reports whether tokens issued to userID may still authenticate.
	AccountActive(ctx context.Context, userID int64) (bool, error)

	DeleteAccount(ctx context.Context, userID int64) error
}
