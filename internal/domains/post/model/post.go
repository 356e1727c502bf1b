package model

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	authormodel "blog-backend/internal/domains/author/model"
)

const (
	MaxTitleLength = 200
)

var (
	// ErrPostNotFound covers absent, inactive and not-owned posts alike.
	ErrPostNotFound = errors.New("post not found")
	ErrInvalidPage  = errors.New("invalid page")
)

// Status is the publication state of a post.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// ValidateStatus is the "post_status" binding rule. Empty passes; presence is a separate rule.
func ValidateStatus(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || Status(s).Valid()
}

// Post is a content item owned by an Author.
// AuthorName is always loaded; Author only on detail reads.
type Post struct {
	ID            int64
	Title         string
	Content       string
	PublishedDate time.Time
	AuthorID      int64
	Status        Status
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	AuthorName string
	Author     *authormodel.Author
}

// IsPublished is true for published posts that are still visible.
func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished && p.Active
}

// Patch carries the mutable fields of an update; nil leaves a field unchanged.
type Patch struct {
	Title   *string
	Content *string
	Active  *bool
}
