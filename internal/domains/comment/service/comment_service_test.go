package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/domains/comment/model"
	postmodel "blog-backend/internal/domains/post/model"
	usermodel "blog-backend/internal/domains/user/model"
)

type fakeRepo struct {
	mu       sync.Mutex
	nextID   int64
	comments []*model.Comment
	clock    time.Time
}

func (r *fakeRepo) Create(_ context.Context, c *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.clock = r.clock.Add(time.Second)
	c.ID = r.nextID
	c.CreatedAt = r.clock
	c.UpdatedAt = r.clock
	cp := *c
	r.comments = append(r.comments, &cp)
	return nil
}

func (r *fakeRepo) ListByPost(_ context.Context, postID int64) ([]*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakePosts map[int64]*postmodel.Post

func (f fakePosts) FindByID(_ context.Context, id int64) (*postmodel.Post, error) {
	p, ok := f[id]
	if !ok {
		return nil, postmodel.ErrPostNotFound
	}
	return p, nil
}

type fakeUsers map[int64]*usermodel.User

func (f fakeUsers) GetUser(_ context.Context, id int64) (*usermodel.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, usermodel.ErrUserNotFound
	}
	return u, nil
}

func newService() (ServiceInterface, *fakeRepo) {
	repo := &fakeRepo{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	posts := fakePosts{
		1: {ID: 1, Active: true},
		2: {ID: 2, Active: false},
	}
	users := fakeUsers{7: {ID: 7, Username: "carol", Email: "carol@example.com"}}
	return NewCommentService(repo, posts, users), repo
}

func ptr(v int64) *int64 { return &v }

func fieldError(t *testing.T, err error, field string) string {
	t.Helper()
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs), "want validation.Errors, got %v", err)
	require.Contains(t, verrs, field)
	return verrs[field].Error()
}

func TestCreateComment(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	t.Run("anonymous", func(t *testing.T) {
		c, err := svc.CreateComment(ctx, nil, model.CreateCommentRequest{Post: ptr(1), Content: " hello "})
		require.NoError(t, err)
		assert.Equal(t, int64(1), c.Post)
		assert.Equal(t, "hello", c.Content)
		assert.Equal(t, "Anonymous", c.AuthorName)
	})

	t.Run("authenticated", func(t *testing.T) {
		c, err := svc.CreateComment(ctx, ptr(7), model.CreateCommentRequest{Post: ptr(1), Content: "hi"})
		require.NoError(t, err)
		assert.Equal(t, "carol", c.AuthorName)
	})

	t.Run("inactive post", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, nil, model.CreateCommentRequest{Post: ptr(2), Content: "hi"})
		assert.Equal(t, "Comments can only be created on active posts.", fieldError(t, err, "post"))
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, nil, model.CreateCommentRequest{Post: ptr(99), Content: "hi"})
		assert.Equal(t, `Invalid pk "99" - object does not exist.`, fieldError(t, err, "post"))
	})

	t.Run("no post given", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, nil, model.CreateCommentRequest{Content: "hi"})
		assert.Equal(t, "This field is required.", fieldError(t, err, "post"))
	})

	t.Run("blank content", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, nil, model.CreateCommentRequest{Post: ptr(1), Content: "   "})
		assert.Equal(t, "This field may not be blank.", fieldError(t, err, "content"))
	})

	t.Run("deleted account", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, ptr(8), model.CreateCommentRequest{Post: ptr(1), Content: "hi"})
		assert.ErrorIs(t, err, usermodel.ErrUserNotFound)
	})
}

func TestListForPost(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.CreateComment(ctx, nil, model.CreateCommentRequest{Post: ptr(1), Content: "first"})
	require.NoError(t, err)
	_, err = svc.CreateComment(ctx, ptr(7), model.CreateCommentRequest{Post: ptr(1), Content: "second"})
	require.NoError(t, err)

	views, err := svc.ListForPost(ctx, 1)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, "second", views[0].Content, "newest first")
	assert.Equal(t, "carol", views[0].AuthorName)
	require.NotNil(t, views[0].User)
	assert.Equal(t, "carol@example.com", views[0].User.Email)

	assert.Equal(t, "Anonymous", views[1].AuthorName)
	assert.Nil(t, views[1].User)

	none, err := svc.ListForPost(ctx, 2)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
