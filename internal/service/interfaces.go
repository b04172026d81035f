package service

import (
	"context"

	"github.com/alexanderramin/plancraft/internal/domain"
)

// PlanProgress is what a finished run reports about its plan.
type PlanProgress struct {
	Title         string
	QuestionCount int
	AnsweredCount int
}

// CatalogService maintains the SQLite index of plans and their runs. The
// plan directories stay the source of truth; the catalog only mirrors them.
type CatalogService interface {
	StartRun(ctx context.Context, name, goal string) (*domain.PlanRun, error)
	FinishRun(ctx context.Context, run *domain.PlanRun, outcome domain.RunOutcome, progress PlanProgress) error
	List(ctx context.Context) ([]*domain.PlanRecord, error)
	Get(ctx context.Context, name string) (*domain.PlanRecord, error)
	History(ctx context.Context, name string) ([]*domain.PlanRun, error)
}
