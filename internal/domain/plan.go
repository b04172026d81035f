package domain

import "time"

// PlanMeta is the persisted metadata of one plan directory.
type PlanMeta struct {
	Name      string    `json:"name"`
	Goal      string    `json:"goal"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PlanRecord is the catalog row describing a plan.
type PlanRecord struct {
	Name          string
	Goal          string
	Title         string
	Status        PlanStatus
	QuestionCount int
	AnsweredCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PlanRun is one invocation of the plan builder against a plan name.
type PlanRun struct {
	ID        string
	PlanName  string
	StartedAt time.Time
	EndedAt   *time.Time
	Outcome   RunOutcome
}
