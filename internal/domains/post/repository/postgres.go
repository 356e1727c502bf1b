package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	authormodel "blog-backend/internal/domains/author/model"
	"blog-backend/internal/domains/post/model"
	usermodel "blog-backend/internal/domains/user/model"
)

type postgresRepository struct {
	pool    *pgxpool.Pool
	builder queryBuilder
}

// NewPostgresRepository creates the post repository.
// timeZone names the zone whose calendar days the published_date filters use.
func NewPostgresRepository(pool *pgxpool.Pool, timeZone string) RepositoryInterface {
	return &postgresRepository{
		pool:    pool,
		builder: queryBuilder{timeZone: timeZone},
	}
}

const postColumns = `p.id, p.title, p.content, p.published_date, p.author_id,
	p.status, p.active, p.created_at, p.updated_at, a.name`

func scanPost(row pgx.Row) (*model.Post, error) {
	var p model.Post
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.PublishedDate,
		&p.AuthorID,
		&p.Status,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.AuthorName,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// =====================================================
// LIST
// =====================================================

func (r *postgresRepository) List(ctx context.Context, f model.ListFilter, limit, offset int) ([]*model.Post, error) {
	q := r.builder.build(f)

	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		JOIN authors a ON a.id = p.author_id
		WHERE %s
		ORDER BY %s
		LIMIT %s OFFSET %s
	`, postColumns, q.where, q.orderBy, q.args.Add(limit), q.args.Add(offset))

	rows, err := r.pool.Query(ctx, query, q.args.Values()...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*model.Post, 0, limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, nil
}

func (r *postgresRepository) Count(ctx context.Context, f model.ListFilter) (int64, error) {
	q := r.builder.build(f)

	query := `
		SELECT COUNT(*)
		FROM posts p
		JOIN authors a ON a.id = p.author_id
		WHERE ` + q.where

	var total int64
	if err := r.pool.QueryRow(ctx, query, q.args.Values()...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return total, nil
}

// =====================================================
// READ ONE
// =====================================================

func (r *postgresRepository) GetActiveByID(ctx context.Context, id int64) (*model.Post, error) {
	query := `
		SELECT ` + postColumns + `,
			a.email, a.user_id, a.created_at, a.updated_at,
			u.id, u.username, u.email, u.first_name, u.last_name, u.date_joined
		FROM posts p
		JOIN authors a ON a.id = p.author_id
		LEFT JOIN users u ON u.id = a.user_id
		WHERE p.id = $1 AND p.active = TRUE
	`

	var (
		p    model.Post
		a    authormodel.Author
		user struct {
			ID         *int64
			Username   *string
			Email      *string
			FirstName  *string
			LastName   *string
			DateJoined *time.Time
		}
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Content, &p.PublishedDate, &p.AuthorID,
		&p.Status, &p.Active, &p.CreatedAt, &p.UpdatedAt, &a.Name,
		&a.Email, &a.UserID, &a.CreatedAt, &a.UpdatedAt,
		&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName, &user.DateJoined,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}

	a.ID = p.AuthorID
	p.AuthorName = a.Name
	if user.ID != nil {
		a.User = &usermodel.Summary{
			ID:         *user.ID,
			Username:   *user.Username,
			Email:      *user.Email,
			FirstName:  *user.FirstName,
			LastName:   *user.LastName,
			DateJoined: *user.DateJoined,
		}
	}
	p.Author = &a

	return &p, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN authors a ON a.id = p.author_id
		WHERE p.id = $1
	`

	p, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post %d: %w", id, err)
	}
	return p, nil
}

// =====================================================
// WRITE
// =====================================================

func (r *postgresRepository) Create(ctx context.Context, p *model.Post) error {
	query := `
		INSERT INTO posts (title, content, author_id, status, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, published_date, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		p.Title,
		p.Content,
		p.AuthorID,
		p.Status,
		p.Active,
	).Scan(&p.ID, &p.PublishedDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdateOwned(ctx context.Context, id, userID int64, patch model.Patch) (*model.Post, error) {
	query := `
		UPDATE posts p
		SET title      = COALESCE($3, p.title),
		    content    = COALESCE($4, p.content),
		    active     = COALESCE($5, p.active),
		    updated_at = NOW()
		FROM authors a
		WHERE p.id = $1
		  AND a.id = p.author_id
		  AND a.user_id = $2
		RETURNING ` + postColumns

	p, err := scanPost(r.pool.QueryRow(ctx, query, id, userID, patch.Title, patch.Content, patch.Active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}
	return p, nil
}

func (r *postgresRepository) IsOwned(ctx context.Context, id, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM posts p
			JOIN authors a ON a.id = p.author_id
			WHERE p.id = $1 AND a.user_id = $2
		)
	`

	var owned bool
	if err := r.pool.QueryRow(ctx, query, id, userID).Scan(&owned); err != nil {
		return false, fmt.Errorf("check post %d ownership: %w", id, err)
	}
	return owned, nil
}

func (r *postgresRepository) DeleteOwned(ctx context.Context, id, userID int64) error {
	query := `
		DELETE FROM posts p
		USING authors a
		WHERE p.id = $1
		  AND a.id = p.author_id
		  AND a.user_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}
	return nil
}
