package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authormodel "blog-backend/internal/domains/author/model"
	authorrepo "blog-backend/internal/domains/author/repository"
	commentmodel "blog-backend/internal/domains/comment/model"
	commentrepo "blog-backend/internal/domains/comment/repository"
	"blog-backend/internal/domains/post/model"
	usermodel "blog-backend/internal/domains/user/model"
	userrepo "blog-backend/internal/domains/user/repository"
	"blog-backend/internal/infrastructure/database"
)

// openTestPool connects to TEST_DATABASE_URL, migrates and empties the schema.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE comments, posts, authors, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

type fixture struct {
	pool     *pgxpool.Pool
	users    userrepo.UserRepository
	authors  authorrepo.RepositoryInterface
	posts    RepositoryInterface
	comments commentrepo.RepositoryInterface
}

func newFixture(t *testing.T) *fixture {
	pool := openTestPool(t)
	return &fixture{
		pool:     pool,
		users:    userrepo.NewPostgresRepository(pool),
		authors:  authorrepo.NewPostgresRepository(pool),
		posts:    NewPostgresRepository(pool, "UTC"),
		comments: commentrepo.NewPostgresRepository(pool),
	}
}

func (f *fixture) author(t *testing.T, username, first, last string) (*usermodel.User, *authormodel.Author) {
	t.Helper()
	ctx := context.Background()
	u := &usermodel.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		FirstName:    first,
		LastName:     last,
		IsActive:     true,
	}
	require.NoError(t, f.users.Create(ctx, u))

	a, created, err := f.authors.GetOrCreateByUser(ctx, authormodel.SeedFromUser(u))
	require.NoError(t, err)
	require.True(t, created)
	return u, a
}

func (f *fixture) post(t *testing.T, authorID int64, title string, published time.Time, active bool) *model.Post {
	t.Helper()
	ctx := context.Background()
	p := &model.Post{
		Title:    title,
		Content:  "body of " + title,
		AuthorID: authorID,
		Status:   model.StatusPublished,
		Active:   active,
	}
	require.NoError(t, f.posts.Create(ctx, p))
	_, err := f.pool.Exec(ctx, `UPDATE posts SET published_date = $2 WHERE id = $1`, p.ID, published)
	require.NoError(t, err)
	p.PublishedDate = published
	return p
}

func titles(posts []*model.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Title)
	}
	return out
}

func TestPostgres_AuthorGetOrCreateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	u, first := f.author(t, "alice", "Alice", "Smith")

	again, created, err := f.authors.GetOrCreateByUser(context.Background(), authormodel.SeedFromUser(u))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Alice Smith", again.Name)
}

func TestPostgres_ListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, alice := f.author(t, "alice", "Alice", "Smith")
	_, bob := f.author(t, "bob", "Bob", "Jones")

	f.post(t, alice.ID, "Go generics", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), true)
	f.post(t, alice.ID, "100% coverage", time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), true)
	f.post(t, bob.ID, "Learning Django", time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC), true)
	f.post(t, bob.ID, "Hidden draft", time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC), false)

	tests := []struct {
		name   string
		filter model.ListFilter
		want   []string
	}{
		{"default ordering newest first", model.ListFilter{}, []string{"Learning Django", "100% coverage", "Go generics"}},
		{"title is case-insensitive", model.ListFilter{Title: "GO"}, []string{"Learning Django", "Go generics"}},
		{"wildcards are literal", model.ListFilter{Title: "100%"}, []string{"100% coverage"}},
		{"author name", model.ListFilter{AuthorName: "jones"}, []string{"Learning Django"}},
		{"exact date", model.ListFilter{PublishedDate: date("2024-03-10")}, []string{"Learning Django"}},
		{"inclusive range", model.ListFilter{DateFrom: date("2024-03-01"), DateTo: date("2024-03-05")}, []string{"100% coverage", "Go generics"}},
		{"search matches title or author", model.ListFilter{SearchTerms: []string{"smith"}}, []string{"100% coverage", "Go generics"}},
		{"every search term must match", model.ListFilter{SearchTerms: []string{"alice", "generics"}}, []string{"Go generics"}},
		{"ordering by title", model.ListFilter{Ordering: []model.SortField{{Field: "title"}}}, []string{"100% coverage", "Go generics", "Learning Django"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.posts.List(ctx, tt.filter, 10, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(got))

			total, err := f.posts.Count(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), total)
		})
	}

	page, err := f.posts.List(ctx, model.ListFilter{}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go generics"}, titles(page))
}

func TestPostgres_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, alice := f.author(t, "alice", "", "")
	hidden := f.post(t, alice.ID, "Hidden", time.Now().UTC(), false)

	_, err := f.posts.GetActiveByID(ctx, hidden.ID)
	assert.ErrorIs(t, err, model.ErrPostNotFound)

	found, err := f.posts.FindByID(ctx, hidden.ID)
	require.NoError(t, err)
	assert.False(t, found.Active)
	assert.Equal(t, "alice", found.AuthorName)
}

func TestPostgres_OwnershipScopedWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, a := f.author(t, "alice", "Alice", "")
	bob, _ := f.author(t, "bob", "Bob", "")
	p := f.post(t, a.ID, "Original", time.Now().UTC(), true)

	title := "Renamed"
	_, err := f.posts.UpdateOwned(ctx, p.ID, bob.ID, model.Patch{Title: &title})
	assert.ErrorIs(t, err, model.ErrPostNotFound)

	owned, err := f.posts.IsOwned(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, owned)

	inactive := false
	updated, err := f.posts.UpdateOwned(ctx, p.ID, alice.ID, model.Patch{Title: &title, Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "body of Original", updated.Content)
	assert.False(t, updated.Active)

	// Owners still reach their inactive posts.
	active := true
	updated, err = f.posts.UpdateOwned(ctx, p.ID, alice.ID, model.Patch{Active: &active})
	require.NoError(t, err)
	assert.True(t, updated.Active)

	assert.ErrorIs(t, f.posts.DeleteOwned(ctx, p.ID, bob.ID), model.ErrPostNotFound)
	require.NoError(t, f.posts.DeleteOwned(ctx, p.ID, alice.ID))
	_, err = f.posts.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, model.ErrPostNotFound)
}

func TestPostgres_CommentsAndAccountDeletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, a := f.author(t, "alice", "Alice", "")
	p := f.post(t, a.ID, "Commented", time.Now().UTC(), true)

	require.NoError(t, f.comments.Create(ctx, &commentmodel.Comment{PostID: p.ID, Content: "anonymous"}))
	require.NoError(t, f.comments.Create(ctx, &commentmodel.Comment{PostID: p.ID, Content: "mine", UserID: &alice.ID}))

	err := f.comments.Create(ctx, &commentmodel.Comment{PostID: p.ID + 100, Content: "orphan"})
	assert.ErrorIs(t, err, commentmodel.ErrPostGone)

	list, err := f.comments.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "mine", list[0].Content)
	require.NotNil(t, list[0].User)
	assert.Equal(t, "alice", list[0].User.Username)

	require.NoError(t, f.users.Delete(ctx, alice.ID))

	list, err = f.comments.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, c := range list {
		assert.Nil(t, c.UserID)
		assert.Equal(t, commentmodel.AnonymousName, c.AuthorName())
	}

	detail, err := f.posts.GetActiveByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", detail.Author.Name)
	assert.Nil(t, detail.Author.User)
	assert.Nil(t, detail.Author.UserID)

	// Removing the author takes its posts and their comments with it.
	_, err = f.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, a.ID)
	require.NoError(t, err)

	_, err = f.posts.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, model.ErrPostNotFound)
	list, err = f.comments.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
