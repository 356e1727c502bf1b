package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/comment/model"
	"blog-backend/internal/domains/comment/service"
	usermodel "blog-backend/internal/domains/user/model"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/response"
)

type CommentHandler struct {
	commentService service.ServiceInterface
}

func NewCommentHandler(commentService service.ServiceInterface) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterRoutes mounts comment creation, open to anonymous callers.
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/posts/comments/create/", h.CreateComment)
}

// CreateComment comments on an active post
// POST /api/v1/posts/comments/create/
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	var userID *int64
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}

	created, err := h.commentService.CreateComment(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created)
}

func (h *CommentHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors

	switch {
	case errors.As(err, &verrs):
		response.ValidationError(c, verrs)
	case errors.Is(err, usermodel.ErrUserNotFound):
		response.NotAuthenticated(c, "User not found.")
	default:
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.ContextRequestID)).
			Msg("comment request failed")
		response.InternalServerError(c, "Internal server error")
	}
}
