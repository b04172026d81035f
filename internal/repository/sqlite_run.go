package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/plancraft/internal/db"
	"github.com/alexanderramin/plancraft/internal/domain"
)

// SQLiteRunRepo implements RunRepo using a SQLite database.
type SQLiteRunRepo struct {
	db db.DBTX
}

// NewSQLiteRunRepo creates a new SQLiteRunRepo.
func NewSQLiteRunRepo(conn db.DBTX) *SQLiteRunRepo {
	return &SQLiteRunRepo{db: conn}
}

func (r *SQLiteRunRepo) Create(ctx context.Context, run *domain.PlanRun) error {
	query := `INSERT INTO plan_runs (id, plan_name, started_at, ended_at, outcome) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.PlanName,
		formatTime(run.StartedAt),
		optionalTime(run.EndedAt),
		string(run.Outcome),
	)
	if err != nil {
		return fmt.Errorf("inserting plan run: %w", err)
	}
	return nil
}

// Finish records how a run ended.
func (r *SQLiteRunRepo) Finish(ctx context.Context, id string, outcome domain.RunOutcome, endedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE plan_runs SET outcome = ?, ended_at = ? WHERE id = ?`,
		string(outcome), formatTime(endedAt), id,
	)
	if err != nil {
		return fmt.Errorf("finishing plan run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing plan run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("plan run %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListByPlan returns a plan's runs, oldest first.
func (r *SQLiteRunRepo) ListByPlan(ctx context.Context, planName string) ([]*domain.PlanRun, error) {
	query := `SELECT id, plan_name, started_at, ended_at, outcome
		FROM plan_runs WHERE plan_name = ? ORDER BY started_at, id`
	rows, err := r.db.QueryContext(ctx, query, planName)
	if err != nil {
		return nil, fmt.Errorf("listing plan runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.PlanRun
	for rows.Next() {
		var (
			run       domain.PlanRun
			startedAt string
			endedAt   sql.NullString
			outcome   string
		)
		if err := rows.Scan(&run.ID, &run.PlanName, &startedAt, &endedAt, &outcome); err != nil {
			return nil, fmt.Errorf("scanning plan run: %w", err)
		}
		if run.StartedAt, err = parseTime(startedAt); err != nil {
			return nil, fmt.Errorf("parsing plan run started_at: %w", err)
		}
		run.EndedAt = scanOptionalTime(endedAt)
		run.Outcome = domain.RunOutcome(outcome)
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan runs: %w", err)
	}
	return runs, nil
}
