package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/comment/model"
	usermodel "blog-backend/internal/domains/user/model"
	"blog-backend/internal/infrastructure/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, c *model.Comment) error {
	query := `
		INSERT INTO comments (post_id, content, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, c.PostID, c.Content, c.UserID).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if constraint, ok := database.ForeignKeyViolation(err); ok && constraint == "comments_post_id_fkey" {
			return model.ErrPostGone
		}
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListByPost(ctx context.Context, postID int64) ([]*model.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.content, c.user_id, c.created_at, c.updated_at,
			u.username, u.email, u.first_name, u.last_name, u.date_joined
		FROM comments c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC, c.id DESC
	`

	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments of post %d: %w", postID, err)
	}
	defer rows.Close()

	comments := make([]*model.Comment, 0)
	for rows.Next() {
		var (
			c    model.Comment
			user struct {
				Username   *string
				Email      *string
				FirstName  *string
				LastName   *string
				DateJoined *time.Time
			}
		)
		err := rows.Scan(
			&c.ID, &c.PostID, &c.Content, &c.UserID, &c.CreatedAt, &c.UpdatedAt,
			&user.Username, &user.Email, &user.FirstName, &user.LastName, &user.DateJoined,
		)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}

		if c.UserID != nil && user.Username != nil {
			c.User = &usermodel.Summary{
				ID:         *c.UserID,
				Username:   *user.Username,
				Email:      *user.Email,
				FirstName:  *user.FirstName,
				LastName:   *user.LastName,
				DateJoined: *user.DateJoined,
			}
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}
