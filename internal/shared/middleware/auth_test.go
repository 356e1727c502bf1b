package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"blog-backend/pkg/cache"
	"blog-backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// accountsFake maps user ids to their active flag; unknown ids are deleted accounts.
type accountsFake struct {
	active map[int64]bool
	err    error
}

func (f accountsFake) AccountActive(_ context.Context, userID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.active[userID], nil
}

func newAuthRouter(m *jwt.Manager, store cache.Cache, accounts ...AccountChecker) *gin.Engine {
	var checker AccountChecker
	if len(accounts) > 0 {
		checker = accounts[0]
	}

	r := gin.New()
	r.Use(RequestID(), Authenticate(m, store, checker))

	r.GET("/open", func(c *gin.Context) {
		id, ok := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id, "authenticated": ok})
	})
	r.GET("/closed", RequireAuth(), func(c *gin.Context) {
		id, _ := GetUserID(c)
		claims, _ := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id, "username": claims.Username})
	})
	return r
}

func do(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	m := jwt.NewManager("secret", time.Minute, time.Hour)
	store := cache.NewMemoryCache()
	r := newAuthRouter(m, store)

	access, _, err := m.GenerateAccessToken(7, "carol")
	require.NoError(t, err)
	refresh, _, err := m.GenerateRefreshToken(7, "carol")
	require.NoError(t, err)

	t.Run("anonymous on open route", func(t *testing.T) {
		w := do(r, "/open", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, gjson.Get(w.Body.String(), "authenticated").Bool())
	})

	t.Run("anonymous on closed route is 403", func(t *testing.T) {
		w := do(r, "/closed", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "NOT_AUTHENTICATED", gjson.Get(w.Body.String(), "error.code").String())
		assert.Equal(t, msgNotProvided, gjson.Get(w.Body.String(), "error.message").String())
	})

	t.Run("valid token", func(t *testing.T) {
		w := do(r, "/closed", "Bearer "+access)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(7), gjson.Get(w.Body.String(), "user_id").Int())
		assert.Equal(t, "carol", gjson.Get(w.Body.String(), "username").String())
	})

	t.Run("scheme is case insensitive", func(t *testing.T) {
		w := do(r, "/closed", "bearer "+access)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("garbage token is rejected even on open route", func(t *testing.T) {
		w := do(r, "/open", "Bearer nope")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := do(r, "/closed", "Token "+access)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("refresh token cannot authenticate", func(t *testing.T) {
		w := do(r, "/closed", "Bearer "+refresh)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	m := jwt.NewManager("secret", time.Minute, time.Hour)
	store := cache.NewMemoryCache()
	r := newAuthRouter(m, store)

	access, claims, err := m.GenerateAccessToken(7, "carol")
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, do(r, "/closed", "Bearer "+access).Code)

	require.NoError(t, store.Set(context.Background(), jwt.RevocationKey(claims.TokenID()), true, time.Minute))
	assert.Equal(t, http.StatusForbidden, do(r, "/closed", "Bearer "+access).Code)
}

func TestAuthenticate_AccountChecks(t *testing.T) {
	m := jwt.NewManager("secret", time.Minute, time.Hour)
	accounts := accountsFake{active: map[int64]bool{7: true, 8: false}}
	r := newAuthRouter(m, cache.NewMemoryCache(), accounts)

	token := func(id int64) string {
		access, _, err := m.GenerateAccessToken(id, "someone")
		require.NoError(t, err)
		return "Bearer " + access
	}

	t.Run("live account", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(r, "/closed", token(7)).Code)
	})

	for name, id := range map[string]int64{"deleted account": 9, "deactivated account": 8} {
		t.Run(name, func(t *testing.T) {
			for _, path := range []string{"/open", "/closed"} {
				w := do(r, path, token(id))
				assert.Equal(t, http.StatusForbidden, w.Code, path)
				assert.Equal(t, msgUserNotFound, gjson.Get(w.Body.String(), "error.message").String(), path)
			}
		})
	}

	t.Run("lookup failure", func(t *testing.T) {
		r := newAuthRouter(m, cache.NewMemoryCache(), accountsFake{err: errors.New("db down")})
		w := do(r, "/open", token(7))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("anonymous requests skip the lookup", func(t *testing.T) {
		r := newAuthRouter(m, cache.NewMemoryCache(), accountsFake{err: errors.New("db down")})
		assert.Equal(t, http.StatusOK, do(r, "/open", "").Code)
	})
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	w := do(r, "/", "")
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
	assert.Equal(t, w.Header().Get(HeaderRequestID), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "3f1b0c1e-8a52-4b0e-9d55-0d5f0e7b9a11")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "3f1b0c1e-8a52-4b0e-9d55-0d5f0e7b9a11", w.Body.String())
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/", func(c *gin.Context) { panic("kaboom") })

	w := do(r, "/", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", gjson.Get(w.Body.String(), "error.code").String())
}
