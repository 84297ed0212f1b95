// Package database owns the shared relational connection pool and the schema bootstrap
// that gates every store operation.
package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Config describes how to reach the database
type Config struct {
	Driver          string
	URL             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DB is the process-wide connection handle shared by the stores
type DB struct {
	*sqlx.DB
	Dialect Dialect
	schema  *SchemaInitializer
}

// Open connects to the database and runs the schema bootstrap. The returned handle is ready.
func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (*DB, error) {
	db, err := Connect(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Connect opens the connection pool without touching the schema. Store operations issued
// on the handle wait until EnsureSchema has succeeded.
func Connect(ctx context.Context, cfg Config, logger zerolog.Logger) (*DB, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn := cfg.URL
	if dialect.Name == SQLite.Name {
		dsn, err = sqliteDSN(cfg.URL)
		if err != nil {
			return nil, err
		}
	}

	sqlDB, err := sqlx.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if dialect.maxOpenConns > 0 {
		maxOpen = dialect.maxOpenConns
	}
	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info().Str("driver", dialect.Name).Msg("Database connection established")
	return New(sqlDB, dialect, logger.With().Str("component", "schema").Logger()), nil
}

// New wraps an open pool. The schema is not touched until EnsureSchema.
func New(db *sqlx.DB, dialect Dialect, logger zerolog.Logger) *DB {
	return &DB{
		DB:      db,
		Dialect: dialect,
		schema:  NewSchemaInitializer(db, dialect, logger),
	}
}

// EnsureSchema runs the single-flight schema bootstrap
func (db *DB) EnsureSchema(ctx context.Context) error {
	return db.schema.EnsureSchema(ctx)
}

// Ready returns a channel closed once the schema exists
func (db *DB) Ready() <-chan struct{} {
	return db.schema.Ready()
}

// Wait blocks until the schema exists. Every store operation calls it before querying.
func (db *DB) Wait(ctx context.Context) error {
	return db.schema.Wait(ctx)
}

// Schema exposes the initializer for catalog inspection
func (db *DB) Schema() *SchemaInitializer {
	return db.schema
}

// sqliteDSN turns a file path or file: URI into a modernc DSN with the pragmas the stores rely on
func sqliteDSN(url string) (string, error) {
	path := strings.TrimPrefix(url, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "", fmt.Errorf("sqlite database path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", fmt.Errorf("creating database directory: %w", err)
		}
	}

	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	if !strings.HasPrefix(url, "file:") {
		url = "file:" + url
	}
	return url + sep + "_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", nil
}
