package app

import (
	"context"

	"github.com/alexanderramin/plancraft/internal/domain"
	"github.com/alexanderramin/plancraft/internal/service"
)

// QuestionSource produces the question set for a goal.
type QuestionSource interface {
	Generate(ctx context.Context, goal string, existing domain.AnswerMap) (*domain.QuestionSet, error)
}

// ReachabilityChecker is implemented by question sources that can check their backend
// before a session asks it for questions.
type ReachabilityChecker interface {
	Available(ctx context.Context) bool
}

// PlanStore is the file-backed plan store the handlers work through.
type PlanStore interface {
	EnsurePlanDir(planDir string) error
	ReadAnswers(planDir string) domain.AnswerMap
	WriteAnswers(planDir string, answers domain.AnswerMap) error
	ReadMetadata(planDir string) (domain.PlanMeta, bool)
	WriteMetadata(planDir string, meta domain.PlanMeta) (domain.PlanMeta, error)
	WriteDocument(planDir, text string) error
	ReadDocument(planDir string) (string, error)
	ListPlans(workspaceRoot string) ([]domain.PlanMeta, error)
}

// RunRecorder is the part of the catalog a plan session reports to.
type RunRecorder interface {
	StartRun(ctx context.Context, name, goal string) (*domain.PlanRun, error)
	FinishRun(ctx context.Context, run *domain.PlanRun, outcome domain.RunOutcome, progress service.PlanProgress) error
}

// Handler answers one command message. A Reply with Handled false means
// the message is not for this handler and should fall through.
type Handler interface {
	Handle(ctx context.Context, req CommandRequest) (Reply, error)
}
