// Package dbtest opens throwaway SQLite databases behind bun for tests.
package dbtest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/extra/bundebug"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// NewSQLite returns a bun DB over a fresh SQLite file in t.TempDir().
// Set BUNDEBUG=1 (or 2 for all queries) to print SQL.
func NewSQLite(t *testing.T) *bun.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"

	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// SQLite allows a single writer.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	db.AddQueryHook(bundebug.NewQueryHook(bundebug.FromEnv("BUNDEBUG")))

	t.Cleanup(func() { _ = db.Close() })

	return db
}
