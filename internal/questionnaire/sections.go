package questionnaire

import "github.com/alexanderramin/plancraft/internal/domain"

// SectionIndex groups questions by section in first-seen order. It is built
// once per question set and never changes afterwards.
type SectionIndex struct {
	order     []string
	questions map[string][]domain.QuestionSpec
}

// NewSectionIndex indexes questions. Blank sections go under domain.DefaultSection.
func NewSectionIndex(questions []domain.QuestionSpec) *SectionIndex {
	idx := &SectionIndex{questions: make(map[string][]domain.QuestionSpec)}
	for _, q := range questions {
		name := q.SectionName()
		if _, ok := idx.questions[name]; !ok {
			idx.order = append(idx.order, name)
		}
		idx.questions[name] = append(idx.questions[name], q)
	}
	return idx
}

// Order returns the section names in first-seen order.
func (idx *SectionIndex) Order() []string {
	return append([]string(nil), idx.order...)
}

// Questions returns the questions of a section in list order.
func (idx *SectionIndex) Questions(section string) []domain.QuestionSpec {
	return idx.questions[section]
}

// Progress counts the questions of a section that have a stored answer.
func (idx *SectionIndex) Progress(section string, answers domain.AnswerMap) (answered, total int) {
	qs := idx.questions[section]
	for _, q := range qs {
		if _, ok := answers[q.ID]; ok {
			answered++
		}
	}
	return answered, len(qs)
}
