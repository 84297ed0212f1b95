package database

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect captures the differences between the supported relational engines
type Dialect struct {
	Name       string
	DriverName string

	// serialPrimaryKey is the column definition of a generated integer id
	serialPrimaryKey string

	// tableExistsQuery counts catalog entries for a relation name
	tableExistsQuery string

	// lockQuery serializes concurrent migrations across processes, empty when not needed
	lockQuery string

	// maxOpenConns caps the connection pool, 0 means unlimited
	maxOpenConns int
}

// Postgres is the production dialect, driven by lib/pq
var Postgres = Dialect{
	Name:             "postgres",
	DriverName:       "postgres",
	serialPrimaryKey: "BIGSERIAL PRIMARY KEY",
	tableExistsQuery: `
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = ?`,
	lockQuery: `SELECT pg_advisory_xact_lock(7342519)`,
}

// SQLite is used for local development and tests, driven by modernc.org/sqlite
var SQLite = Dialect{
	Name:             "sqlite",
	DriverName:       "sqlite",
	serialPrimaryKey: "INTEGER PRIMARY KEY AUTOINCREMENT",
	tableExistsQuery: `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name = ?`,
	// A single connection serializes writers instead of surfacing SQLITE_BUSY
	maxOpenConns: 1,
}

// DialectFor returns the dialect registered under name
func DialectFor(name string) (Dialect, error) {
	switch name {
	case Postgres.Name, "postgresql", "pq":
		return Postgres, nil
	case SQLite.Name, "sqlite3":
		return SQLite, nil
	}
	return Dialect{}, fmt.Errorf("unsupported database driver %q", name)
}

// IsUniqueViolation reports whether err was caused by a UNIQUE constraint
func (d Dialect) IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
