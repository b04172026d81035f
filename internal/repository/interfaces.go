package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/plancraft/internal/domain"
)

type PlanRepo interface {
	Upsert(ctx context.Context, p *domain.PlanRecord) error
	GetByName(ctx context.Context, name string) (*domain.PlanRecord, error)
	List(ctx context.Context) ([]*domain.PlanRecord, error)
	Delete(ctx context.Context, name string) error
}

type RunRepo interface {
	Create(ctx context.Context, r *domain.PlanRun) error
	Finish(ctx context.Context, id string, outcome domain.RunOutcome, endedAt time.Time) error
	ListByPlan(ctx context.Context, planName string) ([]*domain.PlanRun, error)
}
