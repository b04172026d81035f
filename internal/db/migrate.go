package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS plans (
		name           TEXT PRIMARY KEY,
		goal           TEXT NOT NULL,
		title          TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL DEFAULT 'in_progress'
		               CHECK(status IN ('in_progress','finalized','cancelled','failed')),
		question_count INTEGER NOT NULL DEFAULT 0,
		answered_count INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS plan_runs (
		id         TEXT PRIMARY KEY,
		plan_name  TEXT NOT NULL REFERENCES plans(name) ON DELETE CASCADE,
		started_at TEXT NOT NULL,
		ended_at   TEXT,
		outcome    TEXT NOT NULL DEFAULT 'running'
		           CHECK(outcome IN ('running','saved','cancelled','invalid','no_questions','failed'))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plans_updated ON plans(updated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_plan_runs_plan ON plan_runs(plan_name, started_at)`,
}
