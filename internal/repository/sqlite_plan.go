package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/plancraft/internal/db"
	"github.com/alexanderramin/plancraft/internal/domain"
)

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo.
func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

const planColumns = `name, goal, title, status, question_count, answered_count, created_at, updated_at`

// Upsert inserts the plan or updates every column except created_at.
func (r *SQLitePlanRepo) Upsert(ctx context.Context, p *domain.PlanRecord) error {
	query := `INSERT INTO plans (` + planColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			goal = excluded.goal,
			title = excluded.title,
			status = excluded.status,
			question_count = excluded.question_count,
			answered_count = excluded.answered_count,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Goal,
		p.Title,
		string(p.Status),
		p.QuestionCount,
		p.AnsweredCount,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) GetByName(ctx context.Context, name string) (*domain.PlanRecord, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE name = ?`
	p, err := scanPlan(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("plan %s: %w", name, ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

// List returns every plan, most recently updated first.
func (r *SQLitePlanRepo) List(ctx context.Context) ([]*domain.PlanRecord, error) {
	query := `SELECT ` + planColumns + ` FROM plans ORDER BY updated_at DESC, name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.PlanRecord
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return plans, nil
}

func (r *SQLitePlanRepo) Delete(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(s scanner) (*domain.PlanRecord, error) {
	var (
		p                    domain.PlanRecord
		status               string
		createdAt, updatedAt string
	)
	err := s.Scan(&p.Name, &p.Goal, &p.Title, &status, &p.QuestionCount, &p.AnsweredCount, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}
	p.Status = domain.PlanStatus(status)
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing plan created_at: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing plan updated_at: %w", err)
	}
	return &p, nil
}
