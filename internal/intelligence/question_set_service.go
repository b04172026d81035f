package intelligence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/plancraft/internal/domain"
	"github.com/alexanderramin/plancraft/internal/llm"
)

// QuestionSetService asks the reasoning backend for a questionnaire.
type QuestionSetService interface {
	// Generate makes a single backend call. Transport failures are returned
	// as llm errors; anything the backend returns that is not a usable
	// question set is a *domain.GenerationError.
	Generate(ctx context.Context, goal string, existing domain.AnswerMap) (*domain.QuestionSet, error)
	// Available reports whether the backend answers at all.
	Available(ctx context.Context) bool
}

type questionSetService struct {
	client llm.LLMClient
}

// NewQuestionSetService creates a QuestionSetService backed by an LLM client.
func NewQuestionSetService(client llm.LLMClient) QuestionSetService {
	return &questionSetService{client: client}
}

type questionSetInput struct {
	Goal            string           `json:"goal"`
	ExistingAnswers domain.AnswerMap `json:"existingAnswers"`
}

func (s *questionSetService) Generate(ctx context.Context, goal string, existing domain.AnswerMap) (*domain.QuestionSet, error) {
	userPrompt, err := buildQuestionSetUserPrompt(goal, existing)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskQuestionSet,
		SystemPrompt: questionSetSystemPrompt,
		UserPrompt:   userPrompt,
		Schema:       QuestionsSchema,
	})
	if err != nil {
		if errors.Is(err, llm.ErrInvalidOutput) {
			return nil, &domain.GenerationError{Reason: "invalid backend output", Err: err}
		}
		return nil, fmt.Errorf("llm question set failed: %w", err)
	}

	payload, err := llm.ExtractJSONStrict[questionSetPayload](resp.Text, nil)
	if err != nil {
		return nil, &domain.GenerationError{Reason: "invalid backend output", Err: err}
	}
	if payload.Questions == nil || len(*payload.Questions) == 0 {
		return nil, &domain.GenerationError{}
	}
	if err := validateQuestionSet(payload); err != nil {
		return nil, &domain.GenerationError{Reason: err.Error(), Err: err}
	}

	return toQuestionSet(payload, goal), nil
}

func (s *questionSetService) Available(ctx context.Context) bool {
	return s.client.Available(ctx)
}

func buildQuestionSetUserPrompt(goal string, existing domain.AnswerMap) (string, error) {
	if existing == nil {
		existing = domain.AnswerMap{}
	}
	input, err := json.MarshalIndent(questionSetInput{Goal: goal, ExistingAnswers: existing}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling question set input: %w", err)
	}

	var b strings.Builder
	b.WriteString("GOAL: ")
	b.WriteString(goal)
	b.WriteString("\n\nINPUT:\n")
	b.Write(input)
	return b.String(), nil
}

func toQuestionSet(p questionSetPayload, goal string) *domain.QuestionSet {
	qs := &domain.QuestionSet{
		Title: strings.TrimSpace(p.Title),
		Goal:  domain.FirstNonEmpty(strings.TrimSpace(p.Goal), goal),
	}
	for _, q := range *p.Questions {
		q.ID = strings.TrimSpace(q.ID)
		q.Section = strings.TrimSpace(q.Section)
		qs.Questions = append(qs.Questions, q)
	}
	return qs
}
