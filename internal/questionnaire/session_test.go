package questionnaire_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/plancraft/internal/domain"
	"github.com/alexanderramin/plancraft/internal/questionnaire"
	"github.com/alexanderramin/plancraft/internal/store"
	"github.com/alexanderramin/plancraft/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tripSet() *domain.QuestionSet {
	return &domain.QuestionSet{
		Goal: "plan a trip",
		Questions: []domain.QuestionSpec{
			{ID: "budget", Section: "Constraints", Prompt: "Budget?", Kind: domain.KindSelect, Required: true, Options: []string{"$", "$$"}},
			{ID: "deadline", Section: "Timeline", Prompt: "Deadline?", Kind: domain.KindText},
		},
	}
}

func newSession(t *testing.T, qs *domain.QuestionSet, answers domain.AnswerMap) *questionnaire.Session {
	t.Helper()
	return &questionnaire.Session{
		PlanName:  "trip",
		PlanDir:   store.PlanDir(t.TempDir(), "trip"),
		Goal:      qs.Goal,
		Questions: qs,
		Answers:   answers,
	}
}

func TestEngine_TripScenario(t *testing.T) {
	t.Parallel()
	fs := store.New()
	p := testutil.NewScriptedPrompter(
		testutil.Section("Constraints"), testutil.Choose("$$"),
		testutil.Section("Timeline"), testutil.Type(""),
		testutil.Review(),
	)
	s := newSession(t, tripSet(), nil)
	e := questionnaire.NewEngine(p, fs, zerolog.Nop())

	require.NoError(t, e.Run(context.Background(), s))
	_, err := e.Finalize(s)
	require.NoError(t, err)

	assert.Equal(t, domain.AnswerMap{"budget": "$$"}, fs.ReadAnswers(s.PlanDir))
	raw, err := os.ReadFile(filepath.Join(s.PlanDir, store.AnswersFileName))
	require.NoError(t, err)
	assert.JSONEq(t, `{"budget":"$$"}`, string(raw))

	doc, err := fs.ReadDocument(s.PlanDir)
	require.NoError(t, err)
	assert.Contains(t, doc, "## Constraints\n- Budget?: $$")
	assert.NotContains(t, doc, "Timeline")

	meta, ok := fs.ReadMetadata(s.PlanDir)
	require.True(t, ok)
	assert.Equal(t, "trip", meta.Name)
	assert.Equal(t, "plan a trip", meta.Goal)
	assert.Zero(t, p.Remaining())
}

func TestEngine_MenuListsSectionsThenReview(t *testing.T) {
	t.Parallel()
	qs := tripSet()
	qs.Title = "Trip"
	var captured questionnaire.SelectRequest
	p := &capturingPrompter{ScriptedPrompter: testutil.NewScriptedPrompter(testutil.Review()), onSelect: func(r questionnaire.SelectRequest) { captured = r }}

	s := newSession(t, qs, domain.AnswerMap{"budget": "$"})
	require.NoError(t, questionnaire.NewEngine(p, store.New(), zerolog.Nop()).Run(context.Background(), s))

	assert.Equal(t, "Trip: choose a section", captured.Title)
	require.Len(t, captured.Options, 3)
	assert.Equal(t, questionnaire.Option{Label: "Constraints (1/1)", Value: "section:Constraints"}, captured.Options[0])
	assert.Equal(t, questionnaire.Option{Label: "Timeline (0/1)", Value: "section:Timeline"}, captured.Options[1])
	assert.Equal(t, questionnaire.ReviewLabel, captured.Options[2].Label)
	assert.Equal(t, "section:Timeline", captured.Initial, "first incomplete section is pre-selected")
}

func TestEngine_RevisitReasksEveryQuestion(t *testing.T) {
	t.Parallel()
	p := testutil.NewScriptedPrompter(
		testutil.Section("Constraints"), testutil.Choose("$"),
		testutil.Section("Constraints"), testutil.Choose("$$"),
		testutil.Review(),
	)
	s := newSession(t, tripSet(), nil)
	require.NoError(t, questionnaire.NewEngine(p, store.New(), zerolog.Nop()).Run(context.Background(), s))

	assert.Equal(t, "$$", s.Answers["budget"])
	var budgetPrompts []testutil.Asked
	for _, a := range p.Asked() {
		if a.Message == "Budget?" {
			budgetPrompts = append(budgetPrompts, a)
		}
	}
	require.Len(t, budgetPrompts, 2)
	assert.Equal(t, "", budgetPrompts[0].Initial)
	assert.Equal(t, "$", budgetPrompts[1].Initial, "revisit pre-fills the latest answer")
}

func TestEngine_ResumesFromStoredAnswers(t *testing.T) {
	t.Parallel()
	fs := store.New()
	s := newSession(t, tripSet(), nil)
	require.NoError(t, fs.WriteAnswers(s.PlanDir, domain.AnswerMap{"deadline": "June", "retired": "x"}))
	s.Answers = fs.ReadAnswers(s.PlanDir)

	p := testutil.NewScriptedPrompter(testutil.Section("Timeline"), testutil.Type("June"), testutil.Review())
	require.NoError(t, questionnaire.NewEngine(p, fs, zerolog.Nop()).Run(context.Background(), s))

	asked := p.Asked()
	require.Len(t, asked, 3)
	assert.Equal(t, "June", asked[1].Initial)
	assert.Equal(t, domain.AnswerMap{"deadline": "June", "retired": "x"}, fs.ReadAnswers(s.PlanDir))
}

func TestEngine_CancelKeepsWrittenAnswers(t *testing.T) {
	t.Parallel()
	fs := store.New()
	p := testutil.NewScriptedPrompter(
		testutil.Section("Constraints"), testutil.Choose("$$"),
		testutil.Section("Timeline"), testutil.CancelText(),
	)
	s := newSession(t, tripSet(), nil)

	err := questionnaire.NewEngine(p, fs, zerolog.Nop()).Run(context.Background(), s)
	assert.ErrorIs(t, err, domain.ErrCancelled)
	assert.Equal(t, domain.AnswerMap{"budget": "$$"}, fs.ReadAnswers(s.PlanDir))
	_, err = fs.ReadDocument(s.PlanDir)
	assert.Error(t, err, "no document without finalize")
}

func TestEngine_CancelAtMenu(t *testing.T) {
	t.Parallel()
	s := newSession(t, tripSet(), nil)
	err := questionnaire.NewEngine(testutil.NewScriptedPrompter(testutil.CancelSelect()), store.New(), zerolog.Nop()).Run(context.Background(), s)
	assert.ErrorIs(t, err, domain.ErrCancelled)
}

func TestEngine_MissingRequiredStopsSection(t *testing.T) {
	t.Parallel()
	qs := &domain.QuestionSet{
		Goal: "g",
		Questions: []domain.QuestionSpec{
			{ID: "name", Section: "Basics", Prompt: "Name?", Kind: domain.KindText, Required: true},
			{ID: "tags", Section: "Basics", Prompt: "Tags?", Kind: domain.KindMultiSelect},
		},
	}
	p := testutil.NewScriptedPrompter(testutil.Section("Basics"), testutil.Type(" "))
	s := newSession(t, qs, nil)

	err := questionnaire.NewEngine(p, store.New(), zerolog.Nop()).Run(context.Background(), s)
	assert.EqualError(t, err, "missing required answer: name")
	assert.Len(t, p.Asked(), 2, "no further questions are prompted")
}

func TestEngine_EmptyQuestionSet(t *testing.T) {
	t.Parallel()
	s := newSession(t, &domain.QuestionSet{Goal: "g"}, nil)
	p := testutil.NewScriptedPrompter()
	err := questionnaire.NewEngine(p, store.New(), zerolog.Nop()).Run(context.Background(), s)
	assert.ErrorIs(t, err, domain.ErrGeneration)
	assert.Empty(t, p.Asked())
}

func TestEngine_FinalizePreservesCreatedAt(t *testing.T) {
	t.Parallel()
	created := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	finished := created.Add(2 * time.Hour)
	s := newSession(t, tripSet(), domain.AnswerMap{"budget": "$"})

	_, err := store.New(store.WithClock(func() time.Time { return created })).
		WriteMetadata(s.PlanDir, domain.PlanMeta{Name: "trip", Goal: "plan a trip"})
	require.NoError(t, err)

	fs := store.New(store.WithClock(func() time.Time { return finished }))
	meta, err := questionnaire.NewEngine(testutil.NewScriptedPrompter(), fs, zerolog.Nop()).Finalize(s)
	require.NoError(t, err)
	assert.Equal(t, created, meta.CreatedAt)
	assert.Equal(t, finished, meta.UpdatedAt)
}

type capturingPrompter struct {
	*testutil.ScriptedPrompter
	onSelect func(questionnaire.SelectRequest)
}

func (p *capturingPrompter) Select(ctx context.Context, req questionnaire.SelectRequest) (questionnaire.Result[string], error) {
	p.onSelect(req)
	return p.ScriptedPrompter.Select(ctx, req)
}
