package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/shared/response"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/jwt"
)

// Context keys set by Authenticate.
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextClaims   = "token_claims"
)

const (
	msgNotProvided  = "Authentication credentials were not provided."
	msgInvalidToken = "Given token not valid for any token type."
	msgUserNotFound = "User not found."
)

// TokenValidator is satisfied by *jwt.Manager.
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// AccountChecker reports whether the account a token was issued to can still act.
// Satisfied by the user service.
type AccountChecker interface {
	AccountActive(ctx context.Context, userID int64) (bool, error)
}

// Authenticate resolves the caller from an optional "Authorization: Bearer <token>" header.
// A missing header leaves the request anonymous; a present but unusable token is rejected with 403.
// Logged-out tokens are looked up in store; if the store is unavailable the token is accepted.
// Tokens of deleted or deactivated accounts are rejected on every route. A nil accounts skips that lookup.
func Authenticate(tokens TokenValidator, store cache.Cache, accounts AccountChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		raw, ok := bearerToken(header)
		if !ok {
			response.NotAuthenticated(c, msgInvalidToken)
			c.Abort()
			return
		}

		claims, err := tokens.ValidateAccessToken(raw)
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString(ContextRequestID)).Msg("rejected access token")
			response.NotAuthenticated(c, msgInvalidToken)
			c.Abort()
			return
		}

		if revoked(c.Request.Context(), store, claims) {
			response.NotAuthenticated(c, msgInvalidToken)
			c.Abort()
			return
		}

		if accounts != nil {
			active, err := accounts.AccountActive(c.Request.Context(), claims.UserID)
			if err != nil {
				log.Error().Err(err).Int64("user_id", claims.UserID).
					Str("request_id", c.GetString(ContextRequestID)).Msg("account lookup failed")
				response.InternalServerError(c, "Internal server error")
				c.Abort()
				return
			}
			if !active {
				response.NotAuthenticated(c, msgUserNotFound)
				c.Abort()
				return
			}
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// RequireAuth rejects anonymous callers before the handler runs.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserID(c); !ok {
			response.NotAuthenticated(c, msgNotProvided)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated caller, if any.
func GetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// GetClaims returns the validated access token claims, if any.
func GetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func revoked(ctx context.Context, store cache.Cache, claims *jwt.Claims) bool {
	if store == nil || claims.TokenID() == "" {
		return false
	}
	found, err := store.Exists(ctx, jwt.RevocationKey(claims.TokenID()))
	if err != nil {
		log.Warn().Err(err).Msg("token revocation lookup failed, accepting token")
		return false
	}
	return found
}
