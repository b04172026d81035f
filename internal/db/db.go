package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory catalog.
const MemoryPath = ":memory:"

// fileParams are applied by the driver to every pooled connection.
const fileParams = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

var setup = []struct {
	stmt, what string
}{
	{"PRAGMA journal_mode = WAL", "setting WAL mode"},
	{"PRAGMA foreign_keys = ON", "enabling foreign keys"},
}

// OpenDB opens the plan catalog at path and brings its schema up to date.
// Parent directories are created for file-backed catalogs.
func OpenDB(path string) (*sql.DB, error) {
	dsn := path
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
		dsn += fileParams
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == MemoryPath {
		// a second connection would see a different, empty database
		conn.SetMaxOpenConns(1)
	}

	for _, s := range setup {
		if _, err := conn.Exec(s.stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("%s: %w", s.what, err)
		}
	}
	if err := Migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return conn, nil
}
