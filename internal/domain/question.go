package domain

import "strings"

// DefaultSection is the grouping used for questions whose section is blank.
const DefaultSection = "General"

// QuestionSpec describes one generated question.
type QuestionSpec struct {
	ID          string       `json:"id"`
	Section     string       `json:"section"`
	Prompt      string       `json:"prompt"`
	Kind        QuestionKind `json:"kind"`
	Required    bool         `json:"required,omitempty"`
	Options     []string     `json:"options,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
}

// SectionName returns the trimmed section label, falling back to DefaultSection.
func (q QuestionSpec) SectionName() string {
	if s := strings.TrimSpace(q.Section); s != "" {
		return s
	}
	return DefaultSection
}

// QuestionSet is a backend-generated questionnaire for one goal.
type QuestionSet struct {
	Title     string         `json:"title,omitempty"`
	Goal      string         `json:"goal"`
	Questions []QuestionSpec `json:"questions"`
}

// ByID indexes the questions by id. Later duplicates never occur in a
// validated set, so the first question for an id wins.
func (s *QuestionSet) ByID() map[string]QuestionSpec {
	out := make(map[string]QuestionSpec, len(s.Questions))
	for _, q := range s.Questions {
		if _, ok := out[q.ID]; !ok {
			out[q.ID] = q
		}
	}
	return out
}
