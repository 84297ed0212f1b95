package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migration updates the schema by a single version. Statements run in order inside the
// migration transaction; the runner commits or rolls back.
type Migration struct {
	Name       string
	Statements func(d Dialect) []string
}

const createVersionTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER NOT NULL PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

// runner applies migrations in a single transaction and records each applied version
type runner struct {
	db         *sqlx.DB
	dialect    Dialect
	migrations []Migration
}

// Migrate applies every pending migration and returns how many were applied.
func (r *runner) Migrate(ctx context.Context) (applied int, retErr error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if retErr != nil {
			tx.Rollback()
		}
	}()

	if r.dialect.lockQuery != "" {
		if _, err := tx.ExecContext(ctx, r.dialect.lockQuery); err != nil {
			return 0, fmt.Errorf("acquiring migration lock: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, createVersionTable); err != nil {
		return 0, fmt.Errorf("creating version table: %w", err)
	}

	version, err := currentVersion(ctx, tx)
	if err != nil {
		return 0, err
	}

	// The version we're migrating to is the length of the migrations slice.
	target := len(r.migrations)
	if version == target {
		return 0, tx.Commit()
	}
	if version > target {
		return 0, fmt.Errorf("database version (%d) is newer than the target version (%d)", version, target)
	}

	for i := version; i < target; i++ {
		m := r.migrations[i]
		for _, stmt := range m.Statements(r.dialect) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return 0, fmt.Errorf("when migrating from %d to %d (%s): %w", i, i+1, m.Name, err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			tx.Rebind(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`),
			i+1, m.Name,
		); err != nil {
			return 0, fmt.Errorf("recording migration version %d: %w", i+1, err)
		}
		applied++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return applied, nil
}

func currentVersion(ctx context.Context, q sqlx.QueryerContext) (int, error) {
	var version int
	if err := sqlx.GetContext(ctx, q, &version, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`); err != nil {
		return 0, fmt.Errorf("getting database version: %w", err)
	}
	return version, nil
}
