package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	authormodel "blog-backend/internal/domains/author/model"
	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/post/service"
	usermodel "blog-backend/internal/domains/user/model"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/response"
)

// =====================================================
// POST HANDLER
// =====================================================

type PostHandler struct {
	postService service.ServiceInterface
}

func NewPostHandler(postService service.ServiceInterface) *PostHandler {
	return &PostHandler{postService: postService}
}

// RegisterRoutes mounts the post endpoints; every one of them needs an authenticated caller.
func (h *PostHandler) RegisterRoutes(rg *gin.RouterGroup) {
	posts := rg.Group("/posts", middleware.RequireAuth())
	{
		posts.GET("/", h.ListPosts)
		posts.GET("/:id/", h.GetPost)
		posts.POST("/create/", h.CreatePost)
		posts.PUT("/:id/update/", h.UpdatePost)
		posts.PATCH("/:id/update/", h.PatchPost)
		posts.DELETE("/:id/delete/", h.DeletePost)
	}
}

// postID parses the :id path segment. Non-numeric ids are simply not found.
func postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.NotFound(c, "Not found.")
		return 0, false
	}
	return id, true
}

// =====================================================
// READ ENDPOINTS
// =====================================================

// ListPosts lists active posts
// GET /api/v1/posts/
func (h *PostHandler) ListPosts(c *gin.Context) {
	var q model.ListPostsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	list, err := h.postService.ListPosts(c.Request.Context(), q)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, list.Items, response.NewMeta(list.Page, list.Limit, list.Total))
}

// GetPost returns an active post with its comments and author
// GET /api/v1/posts/:id/
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	detail, err := h.postService.GetPost(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// =====================================================
// WRITE ENDPOINTS
// =====================================================

// CreatePost publishes a post under the caller's author profile
// POST /api/v1/posts/create/
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req model.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	created, err := h.postService.CreatePost(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created)
}

// UpdatePost replaces title and content (and optionally active)
// PUT /api/v1/posts/:id/update/
func (h *PostHandler) UpdatePost(c *gin.Context) {
	h.update(c, false)
}

// PatchPost updates any subset of title, content and active
// PATCH /api/v1/posts/:id/update/
func (h *PostHandler) PatchPost(c *gin.Context) {
	h.update(c, true)
}

func (h *PostHandler) update(c *gin.Context, partial bool) {
	userID, _ := middleware.GetUserID(c)
	id, ok := postID(c)
	if !ok {
		return
	}

	var req model.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	updated, err := h.postService.UpdatePost(c.Request.Context(), userID, id, req, partial)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated)
}

// DeletePost removes one of the caller's posts
// DELETE /api/v1/posts/:id/delete/
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := postID(c)
	if !ok {
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), userID, id); err != nil {
		h.handleError(c, err)
		return
	}

	response.NoContent(c)
}

// =====================================================
// ERROR MAPPING
// =====================================================

func (h *PostHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors

	switch {
	case errors.As(err, &verrs):
		response.ValidationError(c, verrs)

	case errors.Is(err, model.ErrPostNotFound):
		response.NotFound(c, "Not found.")
	case errors.Is(err, model.ErrInvalidPage):
		response.NotFound(c, "Invalid page.")

	case errors.Is(err, authormodel.ErrEmailTaken):
		response.ValidationError(c, validation.Errors{"author": err})

	// The token outlived its account.
	case errors.Is(err, usermodel.ErrUserNotFound):
		response.NotAuthenticated(c, "User not found.")

	default:
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.ContextRequestID)).
			Str("path", c.FullPath()).
			Msg("post request failed")
		response.InternalServerError(c, "Internal server error")
	}
}
