package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/user/model"
	"blog-backend/internal/domains/user/service"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/response"
)

const (
	codeInvalidCredentials = "INVALID_CREDENTIALS"
	codeInvalidToken       = "TOKEN_INVALID"
)

// =====================================================
// USER HANDLER
// =====================================================

type UserHandler struct {
	userService service.ServiceInterface
}

func NewUserHandler(userService service.ServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes mounts /auth and /users. The auth middleware must already run on rg.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", middleware.RequireAuth(), h.Logout)
	}

	users := rg.Group("/users", middleware.RequireAuth())
	{
		users.GET("/me", h.Me)
		users.DELETE("/me", h.DeleteMe)
	}
}

// =====================================================
// AUTH ENDPOINTS
// =====================================================

// Register creates an account
// POST /api/v1/auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, user)
}

// Login exchanges credentials for tokens
// POST /api/v1/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	tokens, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, tokens)
}

// Refresh issues a new access token
// POST /api/v1/auth/refresh
func (h *UserHandler) Refresh(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	tokens, err := h.userService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, tokens)
}

// Logout revokes the current access token
// POST /api/v1/auth/logout
func (h *UserHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.NotAuthenticated(c, "Authentication credentials were not provided.")
		return
	}

	if err := h.userService.Logout(c.Request.Context(), claims); err != nil {
		h.handleError(c, err)
		return
	}

	response.NoContent(c)
}

// =====================================================
// ACCOUNT ENDPOINTS
// =====================================================

// Me returns the caller's profile
// GET /api/v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

// DeleteMe removes the caller's account and revokes the token used to do it
// DELETE /api/v1/users/me
func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	ctx := c.Request.Context()

	if err := h.userService.DeleteAccount(ctx, userID); err != nil {
		h.handleError(c, err)
		return
	}

	if claims, ok := middleware.GetClaims(c); ok {
		if err := h.userService.Logout(ctx, claims); err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Msg("revoke token after account deletion failed")
		}
	}

	response.NoContent(c)
}

// =====================================================
// ERROR MAPPING
// =====================================================

func (h *UserHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors

	switch {
	case errors.As(err, &verrs):
		response.ValidationError(c, verrs)

	case errors.Is(err, model.ErrUsernameTaken):
		response.ValidationError(c, validation.Errors{"username": err})
	case errors.Is(err, model.ErrEmailTaken):
		response.ValidationError(c, validation.Errors{"email": err})

	case errors.Is(err, model.ErrInvalidCredentials):
		response.ErrorResponse(c, http.StatusUnauthorized, codeInvalidCredentials, err.Error())
	case errors.Is(err, model.ErrInvalidRefreshToken):
		response.ErrorResponse(c, http.StatusUnauthorized, codeInvalidToken, err.Error())
	case errors.Is(err, model.ErrTooManyAttempts):
		response.TooManyRequests(c, err.Error())

	// A token whose user has since been deleted no longer identifies anyone.
	case errors.Is(err, model.ErrUserNotFound):
		response.NotAuthenticated(c, "User not found.")

	default:
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.ContextRequestID)).
			Str("path", c.FullPath()).
			Msg("user request failed")
		response.InternalServerError(c, "Internal server error")
	}
}
