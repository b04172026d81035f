package questionnaire

import (
	"strings"
	"testing"

	"github.com/alexanderramin/plancraft/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRender_GroupsBySectionInFirstSeenOrder(t *testing.T) {
	t.Parallel()
	questions := []domain.QuestionSpec{
		{ID: "deadline", Section: "Timeline", Prompt: "Deadline?", Kind: domain.KindText},
		{ID: "budget", Section: "Constraints", Prompt: "Budget?", Kind: domain.KindSelect, Options: []string{"$", "$$"}},
		{ID: "remote", Section: "Timeline", Prompt: "Remote?", Kind: domain.KindConfirm},
		{ID: "tags", Section: "", Prompt: "Tags?", Kind: domain.KindMultiSelect},
	}
	answers := domain.AnswerMap{
		"deadline": "June",
		"budget":   "$$",
		"remote":   false,
		"tags":     []string{"beach", "food"},
	}

	want := `# Plan

## Goal
plan a trip

## Timeline
- Deadline?: June
- Remote?: no

## Constraints
- Budget?: $$

## General
- Tags?: beach, food
`
	assert.Equal(t, want, Render("plan a trip", answers, questions))
}

func TestRender_OmitsUnansweredAndStale(t *testing.T) {
	t.Parallel()
	questions := []domain.QuestionSpec{
		{ID: "budget", Section: "Constraints", Prompt: "Budget?", Kind: domain.KindSelect},
		{ID: "deadline", Section: "Timeline", Prompt: "Deadline?", Kind: domain.KindText},
	}
	answers := domain.AnswerMap{"budget": "$$", "old_question": "ignored", "deadline": ""}

	doc := Render("plan a trip", answers, questions)

	assert.True(t, strings.HasPrefix(doc, "# Plan\n"))
	assert.Contains(t, doc, "## Constraints\n- Budget?: $$\n")
	assert.NotContains(t, doc, "Timeline")
	assert.NotContains(t, doc, "ignored")
}

func TestRender_NoAnswers(t *testing.T) {
	t.Parallel()
	doc := Render("  ship it  ", nil, []domain.QuestionSpec{{ID: "a", Prompt: "A?"}})
	assert.Equal(t, "# Plan\n\n## Goal\nship it\n", doc)
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()
	questions := []domain.QuestionSpec{
		{ID: "a", Section: "S1", Prompt: "A?"},
		{ID: "b", Section: "S2", Prompt: "B?"},
		{ID: "c", Section: "S1", Prompt: "C?"},
	}
	answers := domain.AnswerMap{"a": "1", "b": true, "c": []string{"x"}}

	first := Render("g", answers, questions)
	for range 20 {
		assert.Equal(t, first, Render("g", answers, questions))
	}
}
