package questionnaire

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/plancraft/internal/domain"
	"github.com/rs/zerolog"
)

// ReviewLabel is the trailing menu entry that ends the loop.
const ReviewLabel = "Review + finalize"

// ReviewValue is the menu value of the review entry. Section entries use
// SectionValue, so a section named "review" cannot collide with it.
const ReviewValue = "review"

const sectionPrefix = "section:"

// SectionValue is the menu value that selects section.
func SectionValue(section string) string { return sectionPrefix + section }

// PlanWriter is the part of the plan store a session writes through.
type PlanWriter interface {
	AnswerWriter
	WriteDocument(planDir, text string) error
	WriteMetadata(planDir string, meta domain.PlanMeta) (domain.PlanMeta, error)
}

// Session is the in-memory state of one plan being answered. Answers is
// seeded from storage and mutated in place as questions are answered.
type Session struct {
	PlanName  string
	PlanDir   string
	Goal      string
	Questions *domain.QuestionSet
	Answers   domain.AnswerMap
}

// Engine drives sessions: section menu, per-question collection, review.
type Engine struct {
	prompter  Prompter
	writer    PlanWriter
	collector *Collector
	logger    zerolog.Logger
}

// NewEngine creates an Engine. Everything it persists goes through writer.
func NewEngine(prompter Prompter, writer PlanWriter, logger zerolog.Logger) *Engine {
	return &Engine{
		prompter:  prompter,
		writer:    writer,
		collector: NewCollector(prompter, writer, logger),
		logger:    logger,
	}
}

// Run loops over the section menu until the operator picks review. Every
// visit to a section re-asks all of its questions with the latest answers
// as pre-fill. Run returns nil on review, domain.ErrCancelled on abort, and
// the collector's error when a required answer is missing.
func (e *Engine) Run(ctx context.Context, s *Session) error {
	if s.Questions == nil || len(s.Questions.Questions) == 0 {
		return &domain.GenerationError{}
	}
	if s.Answers == nil {
		s.Answers = domain.AnswerMap{}
	}
	idx := NewSectionIndex(s.Questions.Questions)

	for {
		res, err := e.prompter.Select(ctx, SelectRequest{
			Title:   menuTitle(s),
			Options: menuOptions(idx, s.Answers),
			Initial: nextValue(idx, s.Answers),
		})
		if err != nil {
			return fmt.Errorf("section menu: %w", err)
		}
		choice, ok := res.Value()
		if !ok {
			return domain.ErrCancelled
		}
		if choice == ReviewValue {
			e.logger.Debug().Str("plan", s.PlanName).Int("answers", len(s.Answers)).Msg("review selected")
			return nil
		}

		section, ok := strings.CutPrefix(choice, sectionPrefix)
		if !ok {
			return fmt.Errorf("section menu: unexpected choice %q", choice)
		}
		e.logger.Debug().Str("plan", s.PlanName).Str("section", section).Msg("section selected")
		for _, q := range idx.Questions(section) {
			if err := e.collector.Collect(ctx, s.PlanDir, q, s.Answers); err != nil {
				return err
			}
		}
	}
}

// Finalize renders and writes plan.md, then refreshes meta.json.
func (e *Engine) Finalize(s *Session) (domain.PlanMeta, error) {
	doc := Render(s.Goal, s.Answers, s.Questions.Questions)
	if err := e.writer.WriteDocument(s.PlanDir, doc); err != nil {
		return domain.PlanMeta{}, err
	}
	return e.writer.WriteMetadata(s.PlanDir, domain.PlanMeta{Name: s.PlanName, Goal: s.Goal})
}

func menuTitle(s *Session) string {
	if title := strings.TrimSpace(s.Questions.Title); title != "" {
		return title + ": choose a section"
	}
	return "Choose a section"
}

func menuOptions(idx *SectionIndex, answers domain.AnswerMap) []Option {
	order := idx.Order()
	opts := make([]Option, 0, len(order)+1)
	for _, name := range order {
		done, total := idx.Progress(name, answers)
		opts = append(opts, Option{
			Label: fmt.Sprintf("%s (%d/%d)", name, done, total),
			Value: SectionValue(name),
		})
	}
	return append(opts, Option{Label: ReviewLabel, Value: ReviewValue})
}

// nextValue pre-selects the first section with unanswered questions, or
// review once everything has an answer.
func nextValue(idx *SectionIndex, answers domain.AnswerMap) string {
	for _, name := range idx.Order() {
		if done, total := idx.Progress(name, answers); done < total {
			return SectionValue(name)
		}
	}
	return ReviewValue
}
