// Package questionnaire walks an operator through a generated question set:
// section navigation, per-question collection with durable answers, and
// rendering of the final plan document.
package questionnaire

import "context"

// Result is the outcome of one prompt: either an answer or a cancellation.
// The zero value is a cancellation.
type Result[T any] struct {
	value    T
	answered bool
}

// Answered wraps a value the operator submitted.
func Answered[T any](v T) Result[T] {
	return Result[T]{value: v, answered: true}
}

// Cancelled reports that the operator aborted the prompt.
func Cancelled[T any]() Result[T] {
	return Result[T]{}
}

// Value returns the answer and whether there was one.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.answered
}

func (r Result[T]) IsCancelled() bool {
	return !r.answered
}

// Option is one entry of a closed choice.
type Option struct {
	Label string
	Value string
}

// SelectRequest asks for one of a fixed set of values.
type SelectRequest struct {
	Title   string
	Options []Option
	Initial string // pre-selected value, ignored when not among Options
}

// TextRequest asks for a single line of free text.
type TextRequest struct {
	Message     string
	Initial     string
	Placeholder string
	// Validate, when set, rejects a submission with a message. Prompters
	// that can re-ask keep asking until it passes.
	Validate func(string) error
}

// ConfirmRequest asks a yes/no question.
type ConfirmRequest struct {
	Message string
	Initial bool
}

// Prompter asks one question at a time. A returned error means the prompt
// itself failed (terminal I/O); an operator abort is a Cancelled result.
type Prompter interface {
	Select(ctx context.Context, req SelectRequest) (Result[string], error)
	Text(ctx context.Context, req TextRequest) (Result[string], error)
	Confirm(ctx context.Context, req ConfirmRequest) (Result[bool], error)
}
