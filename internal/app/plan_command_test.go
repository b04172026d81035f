package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/plancraft/internal/domain"
	"github.com/alexanderramin/plancraft/internal/intelligence"
	"github.com/alexanderramin/plancraft/internal/llm"
	"github.com/alexanderramin/plancraft/internal/repository"
	"github.com/alexanderramin/plancraft/internal/service"
	"github.com/alexanderramin/plancraft/internal/store"
	"github.com/alexanderramin/plancraft/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLLMClient struct {
	response string
	err      error
	down     bool
	calls    int
}

func (m *mockLLMClient) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &llm.GenerateResponse{Text: m.response, Model: "test"}, nil
}

func (m *mockLLMClient) Available(ctx context.Context) bool { return !m.down }

type failingRecorder struct{}

func (failingRecorder) StartRun(context.Context, string, string) (*domain.PlanRun, error) {
	return nil, errors.New("catalog locked")
}

func (failingRecorder) FinishRun(context.Context, *domain.PlanRun, domain.RunOutcome, service.PlanProgress) error {
	return errors.New("catalog locked")
}

var fixedNow = time.Date(2026, 3, 7, 9, 5, 0, 0, time.UTC)

const tripPlanName = "2026-03-07-0905-plan-a-trip"

type harness struct {
	workspace string
	client    *mockLLMClient
	prompter  *testutil.ScriptedPrompter
	catalog   service.CatalogService
	store     *store.FileStore
	cmd       *PlanCommand
}

func newHarness(t *testing.T, response string, steps ...testutil.Step) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	h := &harness{
		workspace: t.TempDir(),
		client:    &mockLLMClient{response: response},
		prompter:  testutil.NewScriptedPrompter(steps...),
		catalog: service.NewCatalogService(
			repository.NewSQLitePlanRepo(database),
			repository.NewSQLiteRunRepo(database),
			testutil.NewTestUoW(database),
		),
		store: store.New(),
	}
	h.cmd = NewPlanCommand(
		intelligence.NewQuestionSetService(h.client),
		h.store,
		h.prompter,
		WithCatalog(h.catalog),
		WithInteractive(func() bool { return true }),
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(zerolog.Nop()),
	)
	return h
}

func (h *harness) handle(t *testing.T, body string) Reply {
	t.Helper()
	r, err := h.cmd.Handle(context.Background(), CommandRequest{Body: body, Source: SourceCLI, WorkspaceDir: h.workspace})
	require.NoError(t, err)
	return r
}

func (h *harness) planDir(name string) string {
	return store.PlanDir(h.workspace, name)
}

func TestPlanCommand_TripScenario(t *testing.T) {
	h := newHarness(t, testutil.TripQuestionsJSON,
		testutil.Type(tripPlanName),
		testutil.Section("Constraints"), testutil.Choose("$$"),
		testutil.Section("Timeline"), testutil.Type(""),
		testutil.Review(),
	)

	r := h.handle(t, "/plan plan a trip")

	assert.True(t, r.Handled)
	assert.Equal(t, domain.OutcomeSaved, r.Outcome)
	assert.False(t, r.Failed())
	assert.Contains(t, r.Text, "Plan saved")
	assert.Contains(t, r.Text, "✅ Plan saved: "+tripPlanName)
	assert.Contains(t, r.Text, "Use /plans show "+tripPlanName+" to view it.")
	assert.Equal(t, []string{
		"plans/" + tripPlanName + "/plan.md",
		"plans/" + tripPlanName + "/answers.json",
	}, r.Files)

	asked := h.prompter.Asked()
	require.NotEmpty(t, asked)
	assert.Equal(t, "Plan name", asked[0].Message)
	assert.Equal(t, tripPlanName, asked[0].Initial)

	raw, err := os.ReadFile(filepath.Join(h.planDir(tripPlanName), store.AnswersFileName))
	require.NoError(t, err)
	assert.JSONEq(t, `{"budget":"$$"}`, string(raw))

	doc, err := h.store.ReadDocument(h.planDir(tripPlanName))
	require.NoError(t, err)
	assert.Contains(t, doc, "## Constraints\n- Budget?: $$")

	plan, err := h.catalog.Get(context.Background(), tripPlanName)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanFinalized, plan.Status)
	assert.Equal(t, 2, plan.QuestionCount)
	assert.Equal(t, 1, plan.AnsweredCount)

	runs, err := h.catalog.History(context.Background(), tripPlanName)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.OutcomeSaved, runs[0].Outcome)
}

func TestPlanCommand_EmptyQuestionSet(t *testing.T) {
	h := newHarness(t, `{"goal": "plan a trip", "questions": []}`, testutil.Type(tripPlanName))

	r := h.handle(t, "/plan plan a trip")

	assert.Equal(t, domain.OutcomeNoQuestions, r.Outcome)
	assert.Equal(t, "No questions generated (unexpected).", r.Text)
	assert.True(t, r.Failed())
	assert.Equal(t, 1, h.client.calls, "no retry")

	entries, err := os.ReadDir(h.planDir(tripPlanName))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, store.MetaFileName, entries[0].Name())
}

func TestPlanCommand_NotHandled(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		source      Source
		interactive bool
	}{
		{"non interactive", "/plan a trip", SourceCLI, false},
		{"remote source", "/plan a trip", SourceRemote, true},
		{"plans command", "/plans list", SourceCLI, true},
		{"prefix only", "/planner go", SourceCLI, true},
		{"plain text", "hello", SourceCLI, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testutil.NewScriptedPrompter()
			cmd := NewPlanCommand(intelligence.NewQuestionSetService(&mockLLMClient{}), store.New(), p,
				WithInteractive(func() bool { return tt.interactive }))

			r, err := cmd.Handle(context.Background(), CommandRequest{Body: tt.body, Source: tt.source, WorkspaceDir: t.TempDir()})
			require.NoError(t, err)
			assert.False(t, r.Handled)
			assert.Empty(t, p.Asked())
		})
	}
}

func TestPlanCommand_DefaultIsNotInteractive(t *testing.T) {
	cmd := NewPlanCommand(intelligence.NewQuestionSetService(&mockLLMClient{}), store.New(), testutil.NewScriptedPrompter())
	r, err := cmd.Handle(context.Background(), CommandRequest{Body: "/plan x", Source: SourceCLI})
	require.NoError(t, err)
	assert.False(t, r.Handled)
}

func TestPlanCommand_Usage(t *testing.T) {
	h := newHarness(t, testutil.TripQuestionsJSON)
	for _, body := range []string{"/plan", "/plan   ", "  /plan\t", "/PLAN"} {
		r := h.handle(t, body)
		assert.True(t, r.Handled)
		assert.Equal(t, "Usage: /plan <goal>", r.Text)
	}
	assert.Zero(t, h.client.calls)
}

func TestPlanCommand_NameIsSlugged(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Trip to Rome!", "trip-to-rome"},
		{"!!!", tripPlanName},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			h := newHarness(t, `{"goal": "g", "questions": []}`, testutil.Type(tt.input))
			r := h.handle(t, "/plan plan a trip")
			assert.Equal(t, tt.want, r.PlanName)
			assert.DirExists(t, h.planDir(tt.want))
		})
	}
}

func TestPlanCommand_CancelAtNamePrompt(t *testing.T) {
	h := newHarness(t, testutil.TripQuestionsJSON, testutil.CancelText())

	r := h.handle(t, "/plan plan a trip")

	assert.Equal(t, "Cancelled.", r.Text)
	assert.Equal(t, domain.OutcomeCancelled, r.Outcome)
	assert.NoDirExists(t, h.planDir(tripPlanName))
	assert.Zero(t, h.client.calls)
}

func TestPlanCommand_CancelMidSessionKeepsAnswers(t *testing.T) {
	h := newHarness(t, testutil.TripQuestionsJSON,
		testutil.Type(tripPlanName),
		testutil.Section("Constraints"), testutil.Choose("$"),
		testutil.CancelSelect(),
	)

	r := h.handle(t, "/plan plan a trip")

	assert.Equal(t, "Cancelled.", r.Text)
	assert.Equal(t, domain.AnswerMap{"budget": "$"}, h.store.ReadAnswers(h.planDir(tripPlanName)))
	assert.NoFileExists(t, filepath.Join(h.planDir(tripPlanName), store.DocumentName))

	plan, err := h.catalog.Get(context.Background(), tripPlanName)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanCancelled, plan.Status)
}

func TestPlanCommand_MissingRequiredAnswer(t *testing.T) {
	questions := `{"goal": "g", "questions": [
		{"id": "who", "section": "Basics", "prompt": "Who?", "kind": "text", "required": true},
		{"id": "when", "section": "Basics", "prompt": "When?", "kind": "text"}
	]}`
	h := newHarness(t, questions,
		testutil.Type(tripPlanName),
		testutil.Section("Basics"), testutil.Type("  "),
	)

	r := h.handle(t, "/plan plan a trip")

	assert.Equal(t, "Missing required answer: who", r.Text)
	assert.Equal(t, domain.OutcomeInvalid, r.Outcome)
	assert.Zero(t, h.prompter.Remaining())
}

func TestPlanCommand_ResumesStoredAnswers(t *testing.T) {
	h := newHarness(t, testutil.TripQuestionsJSON,
		testutil.Type(tripPlanName),
		testutil.Section("Timeline"), testutil.Type("June"),
		testutil.Review(),
	)
	require.NoError(t, h.store.WriteAnswers(h.planDir(tripPlanName), domain.AnswerMap{"budget": "$$", "deadline": "May"}))

	r := h.handle(t, "/plan plan a trip")
	require.Equal(t, domain.OutcomeSaved, r.Outcome)

	asked := h.prompter.Asked()
	assert.Equal(t, "May", asked[2].Initial, "stored answer pre-fills the question")
	doc, err := h.store.ReadDocument(h.planDir(tripPlanName))
	require.NoError(t, err)
	assert.Contains(t, doc, "- Budget?: $$")
	assert.Contains(t, doc, "- Deadline?: June")
}

func TestPlanCommand_BackendUnavailable(t *testing.T) {
	h := newHarness(t, "", testutil.Type(tripPlanName))
	h.client.down = true

	r := h.handle(t, "/plan plan a trip")

	assert.Equal(t, domain.OutcomeFailed, r.Outcome)
	assert.Equal(t, backendDownText, r.Text)
	assert.Zero(t, h.client.calls, "unreachable backend is not asked for questions")
	_, ok := h.store.ReadMetadata(h.planDir(tripPlanName))
	assert.True(t, ok, "plan metadata is written before the backend check")
}

func TestPlanCommand_GenerateFailureWhenReachable(t *testing.T) {
	h := newHarness(t, "", testutil.Type(tripPlanName))
	h.client.err = llm.ErrTimeout

	r := h.handle(t, "/plan plan a trip")

	assert.Equal(t, domain.OutcomeFailed, r.Outcome)
	assert.Contains(t, r.Text, "llm request timed out")
	assert.Equal(t, 1, h.client.calls)
}

func TestPlanCommand_CatalogFailureIsNotFatal(t *testing.T) {
	client := &mockLLMClient{response: testutil.TripQuestionsJSON}
	p := testutil.NewScriptedPrompter(
		testutil.Type(tripPlanName),
		testutil.Section("Constraints"), testutil.Choose("$$"),
		testutil.Review(),
	)
	workspace := t.TempDir()
	cmd := NewPlanCommand(intelligence.NewQuestionSetService(client), store.New(), p,
		WithCatalog(failingRecorder{}),
		WithInteractive(func() bool { return true }),
		WithClock(func() time.Time { return fixedNow }),
	)

	r, err := cmd.Handle(context.Background(), CommandRequest{Body: "/plan plan a trip", Source: SourceCLI, WorkspaceDir: workspace})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeSaved, r.Outcome)
}

func TestPlanCommand_ProgressWrapsBackendCall(t *testing.T) {
	var events []string
	client := &mockLLMClient{response: `{"goal": "g", "questions": []}`}
	cmd := NewPlanCommand(intelligence.NewQuestionSetService(client), store.New(),
		testutil.NewScriptedPrompter(testutil.Type("x")),
		WithInteractive(func() bool { return true }),
		WithProgress(func(msg string) func() {
			events = append(events, "start:"+msg)
			return func() { events = append(events, "stop") }
		}),
	)

	_, err := cmd.Handle(context.Background(), CommandRequest{Body: "/plan g", Source: SourceCLI, WorkspaceDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, []string{"start:Generating questions...", "stop"}, events)
}

func TestRouter_FirstHandlerWins(t *testing.T) {
	h := newHarness(t, testutil.TripQuestionsJSON)
	router := NewRouter(h.cmd, NewPlansCommand(NewPlanQueries(h.store, nil, zerolog.Nop())))

	r, err := router.Handle(context.Background(), CommandRequest{Body: "/plans", Source: SourceCLI, WorkspaceDir: h.workspace})
	require.NoError(t, err)
	assert.True(t, r.Handled)
	assert.Contains(t, r.Text, "No plans yet")

	r, err = router.Handle(context.Background(), CommandRequest{Body: "hello", Source: SourceCLI, WorkspaceDir: h.workspace})
	require.NoError(t, err)
	assert.False(t, r.Handled)
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		body     string
		wantRest string
		wantOK   bool
	}{
		{"/plan a trip", "a trip", true},
		{"/PLAN a trip", "a trip", true},
		{"  /Plan\tcamp  ", "camp", true},
		{"/plan", "", true},
		{"/plans", "", false},
		{"/PLANS list", "", false},
		{"/pl", "", false},
		{"plan a trip", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			rest, ok := parseCommand(tt.body, planCommandName)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantRest, rest)
		})
	}

	rest, ok := parseCommand("/Plans show trip", "/plans")
	assert.True(t, ok)
	assert.Equal(t, "show trip", rest)
}
