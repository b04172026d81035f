package testutil

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/alexanderramin/plancraft/internal/db"
)

// NewTestDB opens a migrated in-memory catalog closed at test cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// FailingUoW runs real transactions but fails the first statement whose
// SQL contains Match, so tests can break a catalog update halfway through
// (for example Match "INSERT INTO plan_runs" after the plan row was
// written). Reads are never failed.
type FailingUoW struct {
	DB    *sql.DB
	Match string
	Err   error
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingTx{DBTX: tx, match: u.Match, err: u.Err})
	})
}

type failingTx struct {
	db.DBTX
	match  string
	err    error
	failed bool
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if !f.failed && strings.Contains(query, f.match) {
		f.failed = true
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
