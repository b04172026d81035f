package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks user-input problems: an empty goal or a missing
	// required answer.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyGoal indicates the plan command was given no goal text.
	ErrEmptyGoal = fmt.Errorf("%w: goal is required", ErrValidation)

	// ErrCancelled indicates the operator aborted a prompt.
	ErrCancelled = errors.New("cancelled")

	// ErrGeneration indicates the backend produced no usable question set.
	ErrGeneration = errors.New("no questions generated")
)

// MissingAnswerError reports a required question left blank.
type MissingAnswerError struct {
	QuestionID string
}

func (e *MissingAnswerError) Error() string {
	return "missing required answer: " + e.QuestionID
}

func (e *MissingAnswerError) Is(target error) bool {
	return target == ErrValidation
}

// GenerationError describes why a backend response was rejected.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Reason == "" {
		return ErrGeneration.Error()
	}
	return fmt.Sprintf("%s: %s", ErrGeneration.Error(), e.Reason)
}

func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
