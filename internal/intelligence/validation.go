package intelligence

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/plancraft/internal/domain"
)

// questionSetPayload mirrors QuestionsSchema. Questions is a pointer so an
// absent array can be told apart from an empty one.
type questionSetPayload struct {
	Title     string                 `json:"title"`
	Goal      string                 `json:"goal"`
	Questions *[]domain.QuestionSpec `json:"questions"`
}

// validateQuestionSet checks a decoded payload against the structural rules
// the schema cannot express on its own.
func validateQuestionSet(p questionSetPayload) error {
	if p.Questions == nil {
		return fmt.Errorf("missing questions")
	}
	if len(*p.Questions) == 0 {
		return fmt.Errorf("empty questions")
	}
	seen := make(map[string]bool, len(*p.Questions))
	for i, q := range *p.Questions {
		id := strings.TrimSpace(q.ID)
		if id == "" {
			return fmt.Errorf("question %d has a blank id", i)
		}
		if seen[id] {
			return fmt.Errorf("duplicate question id %q", id)
		}
		seen[id] = true
		if strings.TrimSpace(q.Prompt) == "" {
			return fmt.Errorf("question %q has a blank prompt", id)
		}
		if !domain.ValidQuestionKinds[q.Kind] {
			return fmt.Errorf("question %q has unknown kind %q", id, q.Kind)
		}
	}
	return nil
}
