package importer

import (
	"strings"

	"github.com/alexanderramin/plancraft/internal/domain"
)

// Convert turns a validated file into a question set. A blank file goal
// falls back to goal.
func Convert(file *QuestionFile, goal string) *domain.QuestionSet {
	set := &domain.QuestionSet{
		Title:     strings.TrimSpace(file.Title),
		Goal:      domain.FirstNonEmpty(strings.TrimSpace(file.Goal), goal),
		Questions: make([]domain.QuestionSpec, 0, len(file.Questions)),
	}
	for _, q := range file.Questions {
		set.Questions = append(set.Questions, domain.QuestionSpec{
			ID:          strings.TrimSpace(q.ID),
			Section:     strings.TrimSpace(q.Section),
			Prompt:      q.Prompt,
			Kind:        domain.QuestionKind(q.Kind),
			Required:    q.Required,
			Options:     q.Options,
			Placeholder: q.Placeholder,
		})
	}
	return set
}
