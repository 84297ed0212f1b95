// Package databasetest opens throwaway SQLite databases for tests.
package databasetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"qrcode-shopify-layer/internal/infrastructure/database"
)

// Connect opens a SQLite database under tb.TempDir() without running the schema bootstrap
func Connect(tb testing.TB) *database.DB {
	tb.Helper()

	cfg := database.Config{
		Driver: database.SQLite.Name,
		URL:    filepath.Join(tb.TempDir(), "test.db"),
	}
	db, err := database.Connect(context.Background(), cfg, zerolog.Nop())
	require.NoError(tb, err)
	tb.Cleanup(func() { db.Close() })
	return db
}

// New opens a SQLite database under tb.TempDir() with the schema in place
func New(tb testing.TB) *database.DB {
	tb.Helper()

	db := Connect(tb)
	require.NoError(tb, db.EnsureSchema(context.Background()))
	return db
}
