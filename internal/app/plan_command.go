package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/plancraft/internal/domain"
	"github.com/alexanderramin/plancraft/internal/questionnaire"
	"github.com/alexanderramin/plancraft/internal/service"
	"github.com/alexanderramin/plancraft/internal/store"
	"github.com/rs/zerolog"
)

const (
	planCommandName = "/plan"
	planUsage       = "Usage: /plan <goal>"
	backendDownText = "Question generation failed: the question backend is not reachable."
)

// PlanCommand runs the interactive plan builder for "/plan <goal>".
type PlanCommand struct {
	questions   QuestionSource
	store       PlanStore
	prompter    questionnaire.Prompter
	catalog     RunRecorder
	interactive func() bool
	progress    func(message string) (stop func())
	logger      zerolog.Logger
	now         func() time.Time
}

// PlanOption customizes a PlanCommand.
type PlanOption func(*PlanCommand)

// WithCatalog records every run in the plan catalog.
func WithCatalog(catalog RunRecorder) PlanOption {
	return func(c *PlanCommand) { c.catalog = catalog }
}

// WithInteractive sets the check for an interactive terminal. Without it
// the command never runs.
func WithInteractive(fn func() bool) PlanOption {
	return func(c *PlanCommand) { c.interactive = fn }
}

// WithProgress shows an indicator while the backend call blocks.
func WithProgress(fn func(message string) (stop func())) PlanOption {
	return func(c *PlanCommand) { c.progress = fn }
}

// WithLogger attaches a logger.
func WithLogger(logger zerolog.Logger) PlanOption {
	return func(c *PlanCommand) { c.logger = logger }
}

// WithClock overrides the clock used for default plan names.
func WithClock(now func() time.Time) PlanOption {
	return func(c *PlanCommand) { c.now = now }
}

func NewPlanCommand(questions QuestionSource, planStore PlanStore, prompter questionnaire.Prompter, opts ...PlanOption) *PlanCommand {
	c := &PlanCommand{
		questions:   questions,
		store:       planStore,
		prompter:    prompter,
		interactive: func() bool { return false },
		progress:    func(string) func() { return func() {} },
		logger:      zerolog.Nop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handle declines (NotHandled) unless the message is a /plan command from
// the local CLI on an interactive terminal. User-facing failures are
// returned as replies; an error means the terminal or plan store failed.
func (c *PlanCommand) Handle(ctx context.Context, req CommandRequest) (Reply, error) {
	if req.Source != SourceCLI || !c.interactive() {
		return NotHandled, nil
	}
	goal, ok := parseCommand(req.Body, planCommandName)
	if !ok {
		return NotHandled, nil
	}
	if goal == "" {
		return reply(domain.OutcomeInvalid, planUsage), nil
	}

	name, ok, err := c.askPlanName(ctx, goal)
	if err != nil {
		return Reply{}, err
	}
	if !ok {
		return reply(domain.OutcomeCancelled, "Cancelled."), nil
	}

	planDir := store.PlanDir(req.WorkspaceDir, name)
	if err := c.store.EnsurePlanDir(planDir); err != nil {
		return Reply{}, err
	}
	answers := c.store.ReadAnswers(planDir)
	if _, err := c.store.WriteMetadata(planDir, domain.PlanMeta{Name: name, Goal: goal}); err != nil {
		return Reply{}, err
	}

	run := c.startRun(ctx, name, goal)
	log := c.logger.With().Str("plan", name).Str("run_id", runID(run)).Logger()
	log.Info().Int("resumed_answers", len(answers)).Msg("plan session started")

	if p, ok := c.questions.(ReachabilityChecker); ok && !p.Available(ctx) {
		log.Error().Msg("question backend unreachable")
		c.finishRun(ctx, run, domain.OutcomeFailed, service.PlanProgress{}, log)
		return withPlan(reply(domain.OutcomeFailed, backendDownText), name), nil
	}

	stop := c.progress("Generating questions...")
	qs, err := c.questions.Generate(ctx, goal, answers)
	stop()
	if err != nil {
		var genErr *domain.GenerationError
		if errors.As(err, &genErr) {
			log.Warn().Err(err).Msg("no usable question set")
			c.finishRun(ctx, run, domain.OutcomeNoQuestions, service.PlanProgress{}, log)
			return withPlan(reply(domain.OutcomeNoQuestions, noQuestionsText(genErr)), name), nil
		}
		log.Error().Err(err).Msg("question generation failed")
		c.finishRun(ctx, run, domain.OutcomeFailed, service.PlanProgress{}, log)
		return withPlan(reply(domain.OutcomeFailed, "Question generation failed: "+err.Error()), name), nil
	}

	session := &questionnaire.Session{
		PlanName:  name,
		PlanDir:   planDir,
		Goal:      goal,
		Questions: qs,
		Answers:   answers,
	}
	engine := questionnaire.NewEngine(c.prompter, c.store, log)
	runErr := engine.Run(ctx, session)
	progress := service.PlanProgress{
		Title:         qs.Title,
		QuestionCount: len(qs.Questions),
		AnsweredCount: answeredCount(qs, session.Answers),
	}

	var missing *domain.MissingAnswerError
	switch {
	case runErr == nil:
	case errors.Is(runErr, domain.ErrCancelled):
		log.Info().Int("answered", progress.AnsweredCount).Msg("plan session cancelled")
		c.finishRun(ctx, run, domain.OutcomeCancelled, progress, log)
		return withPlan(reply(domain.OutcomeCancelled, "Cancelled."), name), nil
	case errors.As(runErr, &missing):
		log.Info().Str("question", missing.QuestionID).Msg("required answer missing")
		c.finishRun(ctx, run, domain.OutcomeInvalid, progress, log)
		return withPlan(reply(domain.OutcomeInvalid, "Missing required answer: "+missing.QuestionID), name), nil
	default:
		c.finishRun(ctx, run, domain.OutcomeFailed, progress, log)
		return Reply{}, runErr
	}

	if _, err := engine.Finalize(session); err != nil {
		c.finishRun(ctx, run, domain.OutcomeFailed, progress, log)
		return Reply{}, err
	}
	c.finishRun(ctx, run, domain.OutcomeSaved, progress, log)
	log.Info().Int("answered", progress.AnsweredCount).Msg("plan saved")

	files := []string{
		relToWorkspace(req.WorkspaceDir, filepath.Join(planDir, store.DocumentName)),
		relToWorkspace(req.WorkspaceDir, filepath.Join(planDir, store.AnswersFileName)),
	}
	text := strings.Join([]string{
		"✅ Plan saved: " + name,
		"- " + files[0],
		"- " + files[1],
		"",
		fmt.Sprintf("Use /plans show %s to view it.", name),
	}, "\n")
	return Reply{Handled: true, Outcome: domain.OutcomeSaved, Text: text, PlanName: name, Files: files}, nil
}

// askPlanName prompts for the plan name, pre-filled with a timestamped
// default. The final name is the slug of the input, or the default when
// the input has no slug-safe characters.
func (c *PlanCommand) askPlanName(ctx context.Context, goal string) (string, bool, error) {
	defaultName := domain.DefaultPlanName(goal, c.now())
	res, err := c.prompter.Text(ctx, questionnaire.TextRequest{
		Message: "Plan name",
		Initial: defaultName,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("Name required")
			}
			return nil
		},
	})
	if err != nil {
		return "", false, fmt.Errorf("plan name prompt: %w", err)
	}
	input, ok := res.Value()
	if !ok {
		return "", false, nil
	}
	return domain.FirstNonEmpty(domain.Slugify(input), defaultName), true, nil
}

func (c *PlanCommand) startRun(ctx context.Context, name, goal string) *domain.PlanRun {
	if c.catalog == nil {
		return nil
	}
	run, err := c.catalog.StartRun(ctx, name, goal)
	if err != nil {
		c.logger.Warn().Err(err).Str("plan", name).Msg("catalog: start run failed")
		return nil
	}
	return run
}

func (c *PlanCommand) finishRun(ctx context.Context, run *domain.PlanRun, outcome domain.RunOutcome, progress service.PlanProgress, log zerolog.Logger) {
	if c.catalog == nil || run == nil {
		return
	}
	// record the outcome even when Ctrl-C cancelled ctx
	if err := c.catalog.FinishRun(context.WithoutCancel(ctx), run, outcome, progress); err != nil {
		log.Warn().Err(err).Msg("catalog: finish run failed")
	}
}

func noQuestionsText(err *domain.GenerationError) string {
	if err.Reason == "" {
		return "No questions generated (unexpected)."
	}
	return "No questions generated: " + err.Reason + "."
}

func answeredCount(qs *domain.QuestionSet, answers domain.AnswerMap) int {
	n := 0
	for _, q := range qs.Questions {
		if _, ok := answers[q.ID]; ok {
			n++
		}
	}
	return n
}

func runID(run *domain.PlanRun) string {
	if run == nil {
		return ""
	}
	return run.ID
}

func reply(outcome domain.RunOutcome, text string) Reply {
	return Reply{Handled: true, Outcome: outcome, Text: text}
}

func withPlan(r Reply, name string) Reply {
	r.PlanName = name
	return r
}

func relToWorkspace(workspace, path string) string {
	rel, err := filepath.Rel(workspace, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
