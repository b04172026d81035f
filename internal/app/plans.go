package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/alexanderramin/plancraft/internal/domain"
	"github.com/alexanderramin/plancraft/internal/repository"
	"github.com/alexanderramin/plancraft/internal/service"
	"github.com/alexanderramin/plancraft/internal/store"
	"github.com/rs/zerolog"
)

// ErrPlanNotFound indicates no plan directory exists under the name.
var ErrPlanNotFound = errors.New("plan not found")

// ErrCatalogDisabled indicates a query needs the catalog but none is configured.
var ErrCatalogDisabled = errors.New("plan catalog is disabled")

// CatalogReader is the read side of the plan catalog.
type CatalogReader interface {
	List(ctx context.Context) ([]*domain.PlanRecord, error)
	History(ctx context.Context, name string) ([]*domain.PlanRun, error)
}

// PlanQueries reads plans back for the plans commands.
type PlanQueries struct {
	store   PlanStore
	catalog CatalogReader
	logger  zerolog.Logger
}

// NewPlanQueries creates PlanQueries. catalog may be nil.
func NewPlanQueries(planStore PlanStore, catalog CatalogReader, logger zerolog.Logger) *PlanQueries {
	return &PlanQueries{store: planStore, catalog: catalog, logger: logger}
}

// List returns the plans of a workspace, newest first. Plans the catalog
// does not know yet (or every plan, when the catalog is off or failing)
// come from scanning the plan directories.
func (q *PlanQueries) List(ctx context.Context, workspace string) ([]*domain.PlanRecord, error) {
	metas, err := q.store.ListPlans(workspace)
	if err != nil {
		return nil, err
	}

	var records []*domain.PlanRecord
	known := map[string]bool{}
	if q.catalog != nil {
		catalogued, err := q.catalog.List(ctx)
		if err != nil {
			q.logger.Warn().Err(err).Msg("catalog: list failed, scanning plan directories")
		}
		onDisk := make(map[string]bool, len(metas))
		for _, m := range metas {
			onDisk[m.Name] = true
		}
		for _, r := range catalogued {
			if onDisk[r.Name] {
				records = append(records, r)
				known[r.Name] = true
			}
		}
	}
	for _, m := range metas {
		if known[m.Name] {
			continue
		}
		records = append(records, &domain.PlanRecord{
			Name:      m.Name,
			Goal:      m.Goal,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		})
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].UpdatedAt.After(records[j].UpdatedAt)
	})
	return records, nil
}

// Document returns plan.md of a plan.
func (q *PlanQueries) Document(workspace, name string) (string, error) {
	planDir, err := q.planDir(workspace, name)
	if err != nil {
		return "", err
	}
	return q.store.ReadDocument(planDir)
}

// Answers returns the answer snapshot of a plan.
func (q *PlanQueries) Answers(workspace, name string) (domain.AnswerMap, error) {
	planDir, err := q.planDir(workspace, name)
	if err != nil {
		return nil, err
	}
	return q.store.ReadAnswers(planDir), nil
}

// History returns the recorded runs of a plan, oldest first.
func (q *PlanQueries) History(ctx context.Context, name string) ([]*domain.PlanRun, error) {
	if q.catalog == nil {
		return nil, ErrCatalogDisabled
	}
	runs, err := q.catalog.History(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", name, ErrPlanNotFound)
	}
	return runs, err
}

func (q *PlanQueries) planDir(workspace, name string) (string, error) {
	if domain.Slugify(name) != name || name == "" {
		return "", fmt.Errorf("%q: %w", name, ErrPlanNotFound)
	}
	planDir := store.PlanDir(workspace, name)
	if _, err := os.Stat(planDir); err != nil {
		return "", fmt.Errorf("%s: %w", name, ErrPlanNotFound)
	}
	return planDir, nil
}

// PlansCommand answers "/plans", "/plans list" and "/plans show <name>".
type PlansCommand struct {
	queries *PlanQueries
}

func NewPlansCommand(queries *PlanQueries) *PlansCommand {
	return &PlansCommand{queries: queries}
}

func (c *PlansCommand) Handle(ctx context.Context, req CommandRequest) (Reply, error) {
	args, ok := parseCommand(req.Body, "/plans")
	if !ok {
		return NotHandled, nil
	}
	verb, rest, _ := strings.Cut(args, " ")
	rest = strings.TrimSpace(rest)

	switch verb {
	case "", "list":
		plans, err := c.queries.List(ctx, req.WorkspaceDir)
		if err != nil {
			return Reply{}, err
		}
		if len(plans) == 0 {
			return Reply{Handled: true, Text: "No plans yet. Start one with /plan <goal>."}, nil
		}
		lines := make([]string, 0, len(plans))
		for _, p := range plans {
			lines = append(lines, fmt.Sprintf("- %s: %s", p.Name, p.Goal))
		}
		return Reply{Handled: true, Text: strings.Join(lines, "\n")}, nil

	case "show":
		if rest == "" {
			return reply(domain.OutcomeInvalid, "Usage: /plans show <name>"), nil
		}
		doc, err := c.queries.Document(req.WorkspaceDir, rest)
		if errors.Is(err, ErrPlanNotFound) {
			return reply(domain.OutcomeInvalid, "Plan not found: "+rest), nil
		}
		if err != nil {
			return reply(domain.OutcomeInvalid, "Plan "+rest+" has not been finalized yet."), nil
		}
		return Reply{Handled: true, Text: strings.TrimRight(doc, "\n"), PlanName: rest}, nil

	default:
		return reply(domain.OutcomeInvalid, "Usage: /plans [list|show <name>]"), nil
	}
}

var _ CatalogReader = (service.CatalogService)(nil)
