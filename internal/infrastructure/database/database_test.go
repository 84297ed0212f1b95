package database_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrcode-shopify-layer/internal/infrastructure/database"
	"qrcode-shopify-layer/internal/infrastructure/database/databasetest"
)

func countRelation(t *testing.T, db *database.DB, name string) int {
	t.Helper()
	var n int
	err := db.Get(&n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name)
	require.NoError(t, err)
	return n
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	db := databasetest.Connect(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, db.EnsureSchema(ctx), "call %d", i)
	}

	for _, rel := range database.Relations {
		assert.Equal(t, 1, countRelation(t, db, rel), rel)
	}

	var versions int
	require.NoError(t, db.Get(&versions, `SELECT COUNT(*) FROM schema_migrations`))
	assert.Equal(t, len(database.Relations), versions)

	missing, err := db.Schema().MissingRelations(ctx)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestEnsureSchemaAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	cfg := database.Config{Driver: "sqlite", URL: path}
	ctx := context.Background()

	first, err := database.Open(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	_, err = first.Exec(`INSERT INTO qr_codes (shop_domain, title, product_id, variant_id, handle, discount_id, discount_code, destination)
		VALUES ('shop', 't', 'p', 'v', 'h', '', '', 'product')`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := database.Open(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer second.Close()

	var n int
	require.NoError(t, second.Get(&n, `SELECT COUNT(*) FROM qr_codes`))
	assert.Equal(t, 1, n, "existing rows must survive a second bootstrap")
}

func TestEnsureSchemaAdoptsExistingRelation(t *testing.T) {
	db := databasetest.Connect(t)
	ctx := context.Background()

	// A relation created before versioning existed.
	_, err := db.Exec(`CREATE TABLE accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		company VARCHAR(255) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL,
		order_count_per_month VARCHAR(16) NOT NULL,
		overview TEXT NOT NULL DEFAULT '',
		order_average_price BIGINT NOT NULL DEFAULT 0,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	require.NoError(t, err)

	missing, err := db.Schema().MissingRelations(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{database.QRCodesTable, database.SessionsTable}, missing)

	require.NoError(t, db.EnsureSchema(ctx))
	assert.Equal(t, 1, countRelation(t, db, database.AccountsTable))
}

func TestEnsureSchemaConcurrentCallers(t *testing.T) {
	db := databasetest.Connect(t)
	ctx := context.Background()

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = db.EnsureSchema(ctx)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "caller %d", i)
	}
	var versions int
	require.NoError(t, db.Get(&versions, `SELECT COUNT(*) FROM schema_migrations`))
	assert.Equal(t, len(database.Relations), versions, "migrations must be applied exactly once")
}

func TestWaitBlocksUntilReady(t *testing.T) {
	db := databasetest.Connect(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, db.Wait(ctx), context.DeadlineExceeded)

	select {
	case <-db.Ready():
		t.Fatal("ready before bootstrap")
	default:
	}

	waited := make(chan error, 1)
	go func() { waited <- db.Wait(context.Background()) }()

	require.NoError(t, db.EnsureSchema(context.Background()))
	select {
	case err := <-waited:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("waiter not released")
	}
	<-db.Ready()
}

func TestFailureIsReportedToWaiters(t *testing.T) {
	db := databasetest.Connect(t)
	require.NoError(t, db.Close())

	waited := make(chan error, 1)
	go func() { waited <- db.Wait(context.Background()) }()

	err := db.EnsureSchema(context.Background())
	require.Error(t, err)

	select {
	case werr := <-waited:
		assert.Error(t, werr)
	case <-time.After(5 * time.Second):
		t.Fatal("waiter not released after failed bootstrap")
	}

	// A later waiter sees the failure instead of blocking.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.Error(t, db.Wait(ctx))
	assert.NotErrorIs(t, db.Wait(ctx), context.DeadlineExceeded)
}

func TestDialectFor(t *testing.T) {
	d, err := database.DialectFor("postgresql")
	require.NoError(t, err)
	assert.Equal(t, database.Postgres.Name, d.Name)

	d, err = database.DialectFor("sqlite3")
	require.NoError(t, err)
	assert.Equal(t, database.SQLite.Name, d.Name)

	_, err = database.DialectFor("mysql")
	assert.Error(t, err)
}
