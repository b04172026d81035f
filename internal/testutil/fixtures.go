package testutil

import (
	"time"

	"github.com/alexanderramin/plancraft/internal/domain"
	"github.com/google/uuid"
)

// Plan options
type PlanOption func(*domain.PlanRecord)

func WithPlanStatus(s domain.PlanStatus) PlanOption {
	return func(p *domain.PlanRecord) {
		p.Status = s
	}
}

func WithUpdatedAt(t time.Time) PlanOption {
	return func(p *domain.PlanRecord) {
		p.UpdatedAt = t
	}
}

func WithCounts(questions, answered int) PlanOption {
	return func(p *domain.PlanRecord) {
		p.QuestionCount = questions
		p.AnsweredCount = answered
	}
}

func NewTestPlanRecord(name string, opts ...PlanOption) *domain.PlanRecord {
	now := time.Now().UTC()
	p := &domain.PlanRecord{
		Name:      name,
		Goal:      "goal for " + name,
		Status:    domain.PlanInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func NewTestRun(planName string, startedAt time.Time) *domain.PlanRun {
	return &domain.PlanRun{
		ID:        uuid.New().String(),
		PlanName:  planName,
		StartedAt: startedAt,
		Outcome:   domain.OutcomeRunning,
	}
}

// TripQuestionsJSON is a backend payload with one required select and one
// optional text question.
const TripQuestionsJSON = `{
  "goal": "plan a trip",
  "questions": [
    {"id": "budget", "section": "Constraints", "prompt": "Budget?", "kind": "select", "required": true, "options": ["$", "$$"]},
    {"id": "deadline", "section": "Timeline", "prompt": "Deadline?", "kind": "text"}
  ]
}`
