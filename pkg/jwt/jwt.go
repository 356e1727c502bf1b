package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrInvalidTokenType = errors.New("invalid token type")

// Claims represents JWT claims structure
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Type     string `json:"type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// TokenID is the jti used to revoke a single token.
func (c *Claims) TokenID() string {
	return c.ID
}

// ExpiresIn is the remaining lifetime at now, never negative.
func (c *Claims) ExpiresIn(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if d := c.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Manager handles JWT operations
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewManager creates new JWT manager
func NewManager(secret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (m *Manager) generate(userID int64, username, tokenType string, ttl time.Duration) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		Type:     tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, claims, nil
}

// GenerateAccessToken issues a short-lived access token.
func (m *Manager) GenerateAccessToken(userID int64, username string) (string, *Claims, error) {
	return m.generate(userID, username, TokenTypeAccess, m.accessTTL)
}

// GenerateRefreshToken issues a long-lived refresh token.
func (m *Manager) GenerateRefreshToken(userID int64, username string) (string, *Claims, error) {
	return m.generate(userID, username, TokenTypeRefresh, m.refreshTTL)
}

// ValidateToken validates and parses token
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// ValidateAccessToken validates access token specifically
func (m *Manager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return m.validateType(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken validates refresh token specifically
func (m *Manager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return m.validateType(tokenString, TokenTypeRefresh)
}

func (m *Manager) validateType(tokenString, want string) (*Claims, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Type != want {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrInvalidTokenType, want, claims.Type)
	}

	return claims, nil
}

// RevocationKey is the cache key marking an access token (by jti) as logged out.
func RevocationKey(tokenID string) string {
	return "revoked_token:" + tokenID
}
