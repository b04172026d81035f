package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/plancraft/internal/domain"
)

// ValidateQuestionFile checks a question file before conversion and
// returns every problem found.
func ValidateQuestionFile(file *QuestionFile) []error {
	var errs []error

	if len(file.Questions) == 0 {
		return []error{fmt.Errorf("questions: at least one question is required")}
	}

	seen := make(map[string]bool, len(file.Questions))
	for i, q := range file.Questions {
		prefix := fmt.Sprintf("questions[%d]", i)
		id := strings.TrimSpace(q.ID)
		if id == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else {
			prefix = fmt.Sprintf("questions[%d] (%s)", i, id)
			if seen[id] {
				errs = append(errs, fmt.Errorf("%s: duplicate id", prefix))
			}
			seen[id] = true
		}
		if strings.TrimSpace(q.Prompt) == "" {
			errs = append(errs, fmt.Errorf("%s.prompt is required", prefix))
		}
		kind := domain.QuestionKind(q.Kind)
		if !domain.ValidQuestionKinds[kind] {
			errs = append(errs, fmt.Errorf("%s.kind: invalid value %q", prefix, q.Kind))
		}
		if len(q.Options) > 0 && kind != domain.KindSelect && kind != domain.KindMultiSelect {
			errs = append(errs, fmt.Errorf("%s.options: only select and multiselect questions take options", prefix))
		}
	}
	return errs
}
