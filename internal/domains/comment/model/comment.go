package model

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	usermodel "blog-backend/internal/domains/user/model"
)

// AnonymousName is shown for comments without a (surviving) user.
const AnonymousName = "Anonymous"

// ErrPostGone is returned when the target post disappears between lookup and insert.
var ErrPostGone = errors.New("comment target post no longer exists")

// Comment is a reply on a post; UserID is nil for anonymous comments.
type Comment struct {
	ID        int64
	PostID    int64
	Content   string
	UserID    *int64
	User      *usermodel.Summary
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuthorName is the commenter's username, or AnonymousName.
func (c *Comment) AuthorName() string {
	if c.User != nil {
		return c.User.Username
	}
	return AnonymousName
}

// =====================================================
// DTOs
// =====================================================

// CreateCommentRequest - POST /posts/comments/create/
type CreateCommentRequest struct {
	Post    *int64 `json:"post" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (r *CreateCommentRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

func (r CreateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Post, validation.NotNil.Error("This field is required.")),
		validation.Field(&r.Content, validation.Required.Error("This field may not be blank.")),
	)
}

// View is a comment nested in a post detail.
type View struct {
	ID         int64              `json:"id"`
	Content    string             `json:"content"`
	User       *usermodel.Summary `json:"user"`
	AuthorName string             `json:"author_name"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// Created is the 201 body of a new comment.
type Created struct {
	ID         int64     `json:"id"`
	Post       int64     `json:"post"`
	Content    string    `json:"content"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

func (c *Comment) ToView() *View {
	return &View{
		ID:         c.ID,
		Content:    c.Content,
		User:       c.User,
		AuthorName: c.AuthorName(),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func (c *Comment) ToCreated() *Created {
	return &Created{
		ID:         c.ID,
		Post:       c.PostID,
		Content:    c.Content,
		AuthorName: c.AuthorName(),
		CreatedAt:  c.CreatedAt,
	}
}
