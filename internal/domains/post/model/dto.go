package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	authormodel "blog-backend/internal/domains/author/model"
	commentmodel "blog-backend/internal/domains/comment/model"
)

var (
	errRequired = validation.NewError("validation_required", "This field is required.")
	errBlank    = validation.NewError("validation_blank", "This field may not be blank.")
	errTooLong  = validation.NewError("validation_title_length", "Ensure this field has no more than 200 characters.")
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreatePostRequest - POST /posts/create/
type CreatePostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Status  Status `json:"status" binding:"post_status"`
}

func (r *CreatePostRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	if r.Status == "" {
		r.Status = StatusDraft
	}
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.ErrorObject(errBlank),
			validation.RuneLength(0, MaxTitleLength).ErrorObject(errTooLong),
		),
		validation.Field(&r.Content, validation.Required.ErrorObject(errBlank)),
		validation.Field(&r.Status, validation.By(statusRule)),
	)
}

func statusRule(v interface{}) error {
	s, _ := v.(Status)
	if !s.Valid() {
		return validation.NewError("validation_choice", `"`+string(s)+`" is not a valid choice.`)
	}
	return nil
}

// UpdatePostRequest - PUT/PATCH /posts/{id}/update/
// PUT replaces title and content (both required); PATCH applies any subset.
// Status is not updatable.
type UpdatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Active  *bool   `json:"active"`
}

func (r *UpdatePostRequest) Normalize() {
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		r.Title = &t
	}
	if r.Content != nil {
		c := strings.TrimSpace(*r.Content)
		r.Content = &c
	}
}

// Validate checks the request; partial is true for PATCH.
func (r UpdatePostRequest) Validate(partial bool) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.When(!partial, validation.NotNil.ErrorObject(errRequired)),
			validation.By(notBlank),
			validation.By(titleLength),
		),
		validation.Field(&r.Content,
			validation.When(!partial, validation.NotNil.ErrorObject(errRequired)),
			validation.By(notBlank),
		),
	)
}

func notBlank(v interface{}) error {
	if s, ok := v.(*string); ok && s != nil && *s == "" {
		return errBlank
	}
	return nil
}

func titleLength(v interface{}) error {
	if s, ok := v.(*string); ok && s != nil && len([]rune(*s)) > MaxTitleLength {
		return errTooLong
	}
	return nil
}

func (r UpdatePostRequest) ToPatch() Patch {
	return Patch{Title: r.Title, Content: r.Content, Active: r.Active}
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// ListItem is one row of GET /posts/.
type ListItem struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	PublishedDate time.Time `json:"published_date"`
	AuthorName    string    `json:"author_name"`
	Active        bool      `json:"active"`
}

// Detail is GET /posts/{id}/.
type Detail struct {
	ID            int64                `json:"id"`
	Title         string               `json:"title"`
	Content       string               `json:"content"`
	PublishedDate time.Time            `json:"published_date"`
	Status        Status               `json:"status"`
	Active        bool                 `json:"active"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	Comments      []*commentmodel.View `json:"comments"`
	Author        *authormodel.Author  `json:"author"`
}

// Created is the 201 body of POST /posts/create/.
type Created struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	PublishedDate time.Time `json:"published_date"`
	AuthorName    string    `json:"author_name"`
	Status        Status    `json:"status"`
}

// Updated is the body of a successful update.
type Updated struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Active    bool      `json:"active"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Post) ToListItem() *ListItem {
	return &ListItem{
		ID:            p.ID,
		Title:         p.Title,
		Content:       p.Content,
		PublishedDate: p.PublishedDate,
		AuthorName:    p.AuthorName,
		Active:        p.Active,
	}
}

func (p *Post) ToDetail(comments []*commentmodel.View) *Detail {
	if comments == nil {
		comments = []*commentmodel.View{}
	}
	return &Detail{
		ID:            p.ID,
		Title:         p.Title,
		Content:       p.Content,
		PublishedDate: p.PublishedDate,
		Status:        p.Status,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Comments:      comments,
		Author:        p.Author,
	}
}

func (p *Post) ToCreated() *Created {
	return &Created{
		ID:            p.ID,
		Title:         p.Title,
		Content:       p.Content,
		PublishedDate: p.PublishedDate,
		AuthorName:    p.AuthorName,
		Status:        p.Status,
	}
}

func (p *Post) ToUpdated() *Updated {
	return &Updated{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Active:    p.Active,
		UpdatedAt: p.UpdatedAt,
	}
}

// PostList is one page of list results.
type PostList struct {
	Items []*ListItem
	Page  int
	Limit int
	Total int64
}
