package questionnaire

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/plancraft/internal/domain"
	"github.com/rs/zerolog"
)

// AnswerWriter persists an answer snapshot.
type AnswerWriter interface {
	WriteAnswers(planDir string, answers domain.AnswerMap) error
}

// Collector asks a single question and records the answer.
type Collector struct {
	prompter Prompter
	writer   AnswerWriter
	logger   zerolog.Logger
}

// NewCollector creates a Collector that writes every accepted answer
// through writer before returning.
func NewCollector(prompter Prompter, writer AnswerWriter, logger zerolog.Logger) *Collector {
	return &Collector{prompter: prompter, writer: writer, logger: logger}
}

// Collect prompts for q, pre-filled from answers[q.ID], and updates answers
// in place. It returns domain.ErrCancelled when the operator aborts and a
// *domain.MissingAnswerError when a required question is left empty.
//
// Empty optional answers remove the id from answers. The snapshot is
// rewritten either way.
func (c *Collector) Collect(ctx context.Context, planDir string, q domain.QuestionSpec, answers domain.AnswerMap) error {
	existing := answers[q.ID]

	var (
		value any
		empty bool
	)
	switch {
	case q.Kind == domain.KindConfirm:
		res, err := c.prompter.Confirm(ctx, ConfirmRequest{
			Message: q.Prompt,
			Initial: domain.AnswerBool(existing),
		})
		if err != nil {
			return fmt.Errorf("prompt %s: %w", q.ID, err)
		}
		v, ok := res.Value()
		if !ok {
			return domain.ErrCancelled
		}
		value = v

	case q.Kind == domain.KindSelect && len(q.Options) > 0:
		initial := ""
		if s, ok := existing.(string); ok && slices.Contains(q.Options, s) {
			initial = s
		}
		res, err := c.prompter.Select(ctx, SelectRequest{
			Title:   q.Prompt,
			Options: optionsFor(q.Options),
			Initial: initial,
		})
		if err != nil {
			return fmt.Errorf("prompt %s: %w", q.ID, err)
		}
		v, ok := res.Value()
		if !ok {
			return domain.ErrCancelled
		}
		value = v

	case q.Kind == domain.KindMultiSelect:
		res, err := c.prompter.Text(ctx, TextRequest{
			Message:     q.Prompt + " (comma-separated)",
			Initial:     strings.Join(domain.AnswerList(existing), ", "),
			Placeholder: q.Placeholder,
		})
		if err != nil {
			return fmt.Errorf("prompt %s: %w", q.ID, err)
		}
		v, ok := res.Value()
		if !ok {
			return domain.ErrCancelled
		}
		list := domain.SplitList(v)
		value, empty = list, len(list) == 0

	default:
		// text, options-less select, and any kind this build does not know
		res, err := c.prompter.Text(ctx, TextRequest{
			Message:     q.Prompt,
			Initial:     domain.FormatAnswer(existing),
			Placeholder: q.Placeholder,
		})
		if err != nil {
			return fmt.Errorf("prompt %s: %w", q.ID, err)
		}
		v, ok := res.Value()
		if !ok {
			return domain.ErrCancelled
		}
		s := strings.TrimSpace(v)
		value, empty = s, s == ""
	}

	if empty {
		if q.Required {
			return &domain.MissingAnswerError{QuestionID: q.ID}
		}
		delete(answers, q.ID)
	} else {
		answers[q.ID] = value
	}

	if err := c.writer.WriteAnswers(planDir, answers); err != nil {
		return err
	}
	c.logger.Debug().Str("question", q.ID).Bool("empty", empty).Msg("answer recorded")
	return nil
}

func optionsFor(values []string) []Option {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Label: v, Value: v}
	}
	return opts
}
