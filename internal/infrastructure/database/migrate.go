package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migrationLockID serializes concurrent migrators (several app instances starting at once).
const migrationLockID = 7346281

// MigrationsFS returns the embedded goose migrations rooted at their directory.
func MigrationsFS() (fs.FS, error) {
	return fs.Sub(migrationFiles, "migrations")
}

func newMigrator(db *sql.DB) (*goose.Provider, error) {
	fsys, err := MigrationsFS()
	if err != nil {
		return nil, err
	}

	locker, err := lock.NewPostgresSessionLocker(lock.WithLockID(migrationLockID))
	if err != nil {
		return nil, fmt.Errorf("create migration lock: %w", err)
	}

	return goose.NewProvider(goose.DialectPostgres, db, fsys, goose.WithSessionLocker(locker))
}

// Migrate applies every pending embedded migration. Applied versions are
// tracked in goose_db_version, so re-running is a no-op.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	// Closing the wrapper leaves the pool open.
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	migrator, err := newMigrator(db)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	results, err := migrator.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	for _, r := range results {
		log.Info().
			Int64("version", r.Source.Version).
			Str("file", r.Source.Path).
			Dur("duration", r.Duration).
			Msg("[DATABASE] Migration applied")
	}
	return nil
}
