package domain

// QuestionKind selects how a question is prompted and how its answer is shaped.
type QuestionKind string

const (
	KindText        QuestionKind = "text"
	KindSelect      QuestionKind = "select"
	KindMultiSelect QuestionKind = "multiselect"
	KindConfirm     QuestionKind = "confirm"
)

// ValidQuestionKinds is the closed set of kinds accepted from the backend.
var ValidQuestionKinds = map[QuestionKind]bool{
	KindText:        true,
	KindSelect:      true,
	KindMultiSelect: true,
	KindConfirm:     true,
}

type PlanStatus string

const (
	PlanInProgress PlanStatus = "in_progress"
	PlanFinalized  PlanStatus = "finalized"
	PlanCancelled  PlanStatus = "cancelled"
	PlanFailed     PlanStatus = "failed"
)

// RunOutcome records how a single plan session ended.
type RunOutcome string

const (
	OutcomeRunning     RunOutcome = "running"
	OutcomeSaved       RunOutcome = "saved"
	OutcomeCancelled   RunOutcome = "cancelled"
	OutcomeInvalid     RunOutcome = "invalid"
	OutcomeNoQuestions RunOutcome = "no_questions"
	OutcomeFailed      RunOutcome = "failed"
)

// PlanStatusForOutcome maps a finished run onto the catalog status of its plan.
func PlanStatusForOutcome(o RunOutcome) PlanStatus {
	switch o {
	case OutcomeSaved:
		return PlanFinalized
	case OutcomeCancelled:
		return PlanCancelled
	case OutcomeRunning:
		return PlanInProgress
	default:
		return PlanFailed
	}
}
