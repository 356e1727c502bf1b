package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_AccessTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", 15*time.Minute, 72*time.Hour)

	token, issued, err := m.GenerateAccessToken(42, "alice")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, issued.TokenID(), claims.TokenID())
	assert.NotEmpty(t, claims.TokenID())
}

func TestManager_TokenIDsAreUnique(t *testing.T) {
	m := NewManager("secret", time.Minute, time.Hour)

	_, a, err := m.GenerateAccessToken(1, "a")
	require.NoError(t, err)
	_, b, err := m.GenerateAccessToken(1, "a")
	require.NoError(t, err)

	assert.NotEqual(t, a.TokenID(), b.TokenID())
}

func TestManager_RejectsWrongType(t *testing.T) {
	m := NewManager("secret", time.Minute, time.Hour)

	refresh, _, err := m.GenerateRefreshToken(1, "a")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	claims, err := m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.Type)
}

func TestManager_RejectsForeignSignature(t *testing.T) {
	issuer := NewManager("one", time.Minute, time.Hour)
	verifier := NewManager("two", time.Minute, time.Hour)

	token, _, err := issuer.GenerateAccessToken(1, "a")
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestManager_RejectsExpired(t *testing.T) {
	m := NewManager("secret", time.Minute, time.Hour)
	start := time.Now().Truncate(time.Second)
	m.now = func() time.Time { return start }

	token, claims, err := m.GenerateAccessToken(1, "a")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, claims.ExpiresIn(start))

	m.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
	assert.Equal(t, time.Duration(0), claims.ExpiresIn(start.Add(2*time.Minute)))
}

func TestManager_RejectsGarbage(t *testing.T) {
	m := NewManager("secret", time.Minute, time.Hour)

	_, err := m.ValidateAccessToken("not-a-jwt")
	assert.Error(t, err)
}
