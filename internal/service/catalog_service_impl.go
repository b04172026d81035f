package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/plancraft/internal/db"
	"github.com/alexanderramin/plancraft/internal/domain"
	"github.com/alexanderramin/plancraft/internal/repository"
	"github.com/google/uuid"
)

type catalogService struct {
	plans    repository.PlanRepo
	runs     repository.RunRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
	now      func() time.Time
}

func NewCatalogService(plans repository.PlanRepo, runs repository.RunRepo, uow db.UnitOfWork, observers ...UseCaseObserver) CatalogService {
	return &catalogService{
		plans:    plans,
		runs:     runs,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// StartRun marks the plan in progress and opens a run for it, in one
// transaction. Title and counts from earlier runs are kept.
func (s *catalogService) StartRun(ctx context.Context, name, goal string) (*domain.PlanRun, error) {
	now := s.now()
	run := &domain.PlanRun{
		ID:        uuid.New().String(),
		PlanName:  name,
		StartedAt: now,
		Outcome:   domain.OutcomeRunning,
	}

	err := observe(ctx, s.observer, "catalog.start_run", map[string]any{"plan": name, "run_id": run.ID}, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txPlans := repository.NewSQLitePlanRepo(tx)
			txRuns := repository.NewSQLiteRunRepo(tx)

			plan, err := txPlans.GetByName(ctx, name)
			if errors.Is(err, repository.ErrNotFound) {
				plan = &domain.PlanRecord{Name: name, CreatedAt: now}
			} else if err != nil {
				return err
			}
			plan.Goal = goal
			plan.Status = domain.PlanInProgress
			plan.UpdatedAt = now
			if err := txPlans.Upsert(ctx, plan); err != nil {
				return err
			}
			return txRuns.Create(ctx, run)
		})
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FinishRun closes the run and moves the plan to the status its outcome
// implies. Zero progress fields leave the stored values alone.
func (s *catalogService) FinishRun(ctx context.Context, run *domain.PlanRun, outcome domain.RunOutcome, progress PlanProgress) error {
	now := s.now()
	fields := map[string]any{"plan": run.PlanName, "run_id": run.ID, "outcome": string(outcome)}

	err := observe(ctx, s.observer, "catalog.finish_run", fields, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txPlans := repository.NewSQLitePlanRepo(tx)
			txRuns := repository.NewSQLiteRunRepo(tx)

			if err := txRuns.Finish(ctx, run.ID, outcome, now); err != nil {
				return err
			}
			plan, err := txPlans.GetByName(ctx, run.PlanName)
			if err != nil {
				return err
			}
			plan.Status = domain.PlanStatusForOutcome(outcome)
			plan.Title = domain.FirstNonEmpty(progress.Title, plan.Title)
			if progress.QuestionCount > 0 {
				plan.QuestionCount = progress.QuestionCount
			}
			if progress.QuestionCount > 0 || progress.AnsweredCount > 0 {
				plan.AnsweredCount = progress.AnsweredCount
			}
			plan.UpdatedAt = now
			return txPlans.Upsert(ctx, plan)
		})
	})
	if err != nil {
		return err
	}
	run.Outcome = outcome
	run.EndedAt = &now
	return nil
}

func (s *catalogService) List(ctx context.Context) ([]*domain.PlanRecord, error) {
	return s.plans.List(ctx)
}

func (s *catalogService) Get(ctx context.Context, name string) (*domain.PlanRecord, error) {
	return s.plans.GetByName(ctx, name)
}

func (s *catalogService) History(ctx context.Context, name string) ([]*domain.PlanRun, error) {
	if _, err := s.plans.GetByName(ctx, name); err != nil {
		return nil, err
	}
	return s.runs.ListByPlan(ctx, name)
}
