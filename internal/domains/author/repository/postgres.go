package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/author/model"
	"blog-backend/internal/infrastructure/database"
	pkgdb "blog-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const authorColumns = `id, name, email, user_id, created_at, updated_at`

func scanAuthor(row pgx.Row) (*model.Author, error) {
	var a model.Author
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.UserID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

type getOrCreateResult struct {
	author  *model.Author
	created bool
}

// GetOrCreateByUser relies on the partial unique index authors_user_id_key:
// the first insert wins and every other caller falls through to the lookup.
func (r *postgresRepository) GetOrCreateByUser(ctx context.Context, seed model.Author) (*model.Author, bool, error) {
	if seed.UserID == nil {
		return nil, false, errors.New("get or create author: seed has no user")
	}

	res, err := pkgdb.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (getOrCreateResult, error) {
		insert := `
			INSERT INTO authors (name, email, user_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id) WHERE user_id IS NOT NULL DO NOTHING
			RETURNING ` + authorColumns

		a, err := scanAuthor(tx.QueryRow(ctx, insert, seed.Name, seed.Email, *seed.UserID))
		if err == nil {
			return getOrCreateResult{author: a, created: true}, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return getOrCreateResult{}, err
		}

		// Lost the race (or the profile already existed): read the winner.
		lookup := `SELECT ` + authorColumns + ` FROM authors WHERE user_id = $1`
		a, err = scanAuthor(tx.QueryRow(ctx, lookup, *seed.UserID))
		if err != nil {
			return getOrCreateResult{}, err
		}
		return getOrCreateResult{author: a}, nil
	})
	if err != nil {
		if constraint, ok := database.UniqueViolation(err); ok && constraint == "authors_email_key" {
			return nil, false, model.ErrEmailTaken
		}
		return nil, false, fmt.Errorf("get or create author for user %d: %w", *seed.UserID, err)
	}

	return res.author, res.created, nil
}
