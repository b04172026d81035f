package questionnaire

import (
	"strings"

	"github.com/alexanderramin/plancraft/internal/domain"
)

// Render produces the plan document. Sections follow first-seen order and
// list one line per answered question; unanswered questions and sections
// without answers are left out. The output depends only on its inputs.
func Render(goal string, answers domain.AnswerMap, questions []domain.QuestionSpec) string {
	var b strings.Builder
	b.WriteString("# Plan\n\n## Goal\n")
	b.WriteString(strings.TrimSpace(goal))
	b.WriteString("\n")

	idx := NewSectionIndex(questions)
	for _, section := range idx.Order() {
		var lines []string
		for _, q := range idx.Questions(section) {
			v, ok := answers[q.ID]
			if !ok {
				continue
			}
			text := domain.FormatAnswer(v)
			if text == "" {
				continue
			}
			lines = append(lines, "- "+q.Prompt+": "+text)
		}
		if len(lines) == 0 {
			continue
		}
		b.WriteString("\n## ")
		b.WriteString(section)
		b.WriteString("\n")
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String()) + "\n"
}
