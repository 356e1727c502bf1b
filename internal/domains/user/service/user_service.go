package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"blog-backend/internal/domains/user/model"
	"blog-backend/internal/domains/user/repository"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/jwt"
)

// LockoutPolicy bounds failed logins per username.
type LockoutPolicy struct {
	MaxAttempts int
	Duration    time.Duration
}

type userService struct {
	repo     repository.UserRepository
	cache    cache.Cache
	tokens   *jwt.Manager
	lockout  LockoutPolicy
	hashCost int
	now      func() time.Time
}

func NewUserService(
	repo repository.UserRepository,
	cache cache.Cache,
	tokens *jwt.Manager,
	lockout LockoutPolicy,
) ServiceInterface {
	return &userService{
		repo:     repo,
		cache:    cache,
		tokens:   tokens,
		lockout:  lockout,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

func attemptsKey(username string) string {
	return "login_attempts:" + strings.ToLower(username)
}

func lockKey(username string) string {
	return "login_locked:" + strings.ToLower(username)
}

// =====================================================
// REGISTER
// =====================================================

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.Summary, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	log.Info().Int64("user_id", u.ID).Str("username", u.Username).Msg("user registered")
	return u.ToSummary(), nil
}

// =====================================================
// LOGIN
// =====================================================

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 1. Refuse early while the username is locked out
	locked, err := s.cache.Exists(ctx, lockKey(req.Username))
	if err != nil {
		log.Warn().Err(err).Msg("login lockout lookup failed")
	}
	if locked {
		return nil, model.ErrTooManyAttempts
	}

	// 2. Verify credentials; every failure looks the same to the caller
	u, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}
	if u == nil || !u.IsActive ||
		bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		s.recordFailure(ctx, req.Username)
		return nil, model.ErrInvalidCredentials
	}

	if err := s.cache.Delete(ctx, attemptsKey(req.Username)); err != nil {
		log.Warn().Err(err).Msg("reset login attempts failed")
	}

	// 3. Issue tokens
	access, accessClaims, err := s.tokens.GenerateAccessToken(u.ID, u.Username)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.tokens.GenerateRefreshToken(u.ID, u.Username)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateLastLogin(ctx, u.ID); err != nil {
		log.Warn().Err(err).Int64("user_id", u.ID).Msg("update last login failed")
	}

	return &model.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessClaims.ExpiresAt.Time,
		User:         u.ToSummary(),
	}, nil
}

// recordFailure counts a failed login and locks the username once the threshold is hit.
// Cache errors are logged and swallowed so a cache outage never blocks logins.
func (s *userService) recordFailure(ctx context.Context, username string) {
	key := attemptsKey(username)

	attempts, err := s.cache.Increment(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("count failed login failed")
		return
	}
	if attempts == 1 {
		if err := s.cache.Expire(ctx, key, s.lockout.Duration); err != nil {
			log.Warn().Err(err).Msg("set failed login window failed")
		}
	}

	if attempts >= int64(s.lockout.MaxAttempts) {
		if err := s.cache.Set(ctx, lockKey(username), true, s.lockout.Duration); err != nil {
			log.Warn().Err(err).Msg("lock username failed")
			return
		}
		_ = s.cache.Delete(ctx, key)

		log.Warn().
			Str("username", username).
			Int64("attempts", attempts).
			Dur("lockout", s.lockout.Duration).
			Msg("username locked after failed logins")
	}
}

// =====================================================
// TOKENS
// =====================================================

func (s *userService) Refresh(ctx context.Context, req model.RefreshTokenRequest) (*model.RefreshTokenResponse, error) {
	claims, err := s.tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, model.ErrInvalidRefreshToken
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidRefreshToken
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, model.ErrInvalidRefreshToken
	}

	access, accessClaims, err := s.tokens.GenerateAccessToken(u.ID, u.Username)
	if err != nil {
		return nil, err
	}

	return &model.RefreshTokenResponse{
		AccessToken: access,
		ExpiresAt:   accessClaims.ExpiresAt.Time,
	}, nil
}

func (s *userService) Logout(ctx context.Context, claims *jwt.Claims) error {
	ttl := claims.ExpiresIn(s.now())
	if ttl <= 0 || claims.TokenID() == "" {
		return nil
	}
	if err := s.cache.Set(ctx, jwt.RevocationKey(claims.TokenID()), true, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// =====================================================
// ACCOUNT
// =====================================================

func (s *userService) GetProfile(ctx context.Context, userID int64) (*model.Summary, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.ToSummary(), nil
}

func (s *userService) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// AccountActive is false for deleted and deactivated accounts.
func (s *userService) AccountActive(ctx context.Context, userID int64) (bool, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, model.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.IsActive, nil
}

func (s *userService) DeleteAccount(ctx context.Context, userID int64) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	log.Info().Int64("user_id", userID).Msg("user deleted")
	return nil
}
