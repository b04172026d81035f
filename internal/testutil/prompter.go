package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/alexanderramin/plancraft/internal/questionnaire"
)

type stepKind string

const (
	stepSelect  stepKind = "select"
	stepText    stepKind = "text"
	stepConfirm stepKind = "confirm"
)

// Step is one scripted response.
type Step struct {
	kind   stepKind
	text   string
	yes    bool
	cancel bool
}

// Choose answers a select prompt with value.
func Choose(value string) Step { return Step{kind: stepSelect, text: value} }

// Type answers a text prompt.
func Type(text string) Step { return Step{kind: stepText, text: text} }

// Confirm answers a confirm prompt.
func Confirm(yes bool) Step { return Step{kind: stepConfirm, yes: yes} }

// CancelSelect, CancelText and CancelConfirm abort the matching prompt.
func CancelSelect() Step  { return Step{kind: stepSelect, cancel: true} }
func CancelText() Step    { return Step{kind: stepText, cancel: true} }
func CancelConfirm() Step { return Step{kind: stepConfirm, cancel: true} }

// Review chooses the review entry of the section menu.
func Review() Step { return Choose(questionnaire.ReviewValue) }

// Section chooses a section from the section menu.
func Section(name string) Step { return Choose(questionnaire.SectionValue(name)) }

// Asked records a prompt the ScriptedPrompter received.
type Asked struct {
	Kind    string
	Message string
	Initial any
}

// ScriptedPrompter replays a fixed list of responses. It fails when a
// prompt does not match the next step, when the script runs out, or when
// a select value is not offered.
type ScriptedPrompter struct {
	mu    sync.Mutex
	steps []Step
	asked []Asked
}

// NewScriptedPrompter creates a prompter that answers with steps in order.
func NewScriptedPrompter(steps ...Step) *ScriptedPrompter {
	return &ScriptedPrompter{steps: steps}
}

// Asked returns the prompts received so far.
func (p *ScriptedPrompter) Asked() []Asked {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Asked(nil), p.asked...)
}

// Remaining returns how many steps have not been consumed.
func (p *ScriptedPrompter) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.steps)
}

func (p *ScriptedPrompter) next(kind stepKind, message string, initial any) (Step, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.asked = append(p.asked, Asked{Kind: string(kind), Message: message, Initial: initial})
	if len(p.steps) == 0 {
		return Step{}, fmt.Errorf("scripted prompter: no step left for %s %q", kind, message)
	}
	step := p.steps[0]
	if step.kind != kind {
		return Step{}, fmt.Errorf("scripted prompter: expected %s step for %q, got %s", kind, message, step.kind)
	}
	p.steps = p.steps[1:]
	return step, nil
}

func (p *ScriptedPrompter) Select(ctx context.Context, req questionnaire.SelectRequest) (questionnaire.Result[string], error) {
	step, err := p.next(stepSelect, req.Title, req.Initial)
	if err != nil {
		return questionnaire.Cancelled[string](), err
	}
	if step.cancel {
		return questionnaire.Cancelled[string](), nil
	}
	offered := slices.ContainsFunc(req.Options, func(o questionnaire.Option) bool { return o.Value == step.text })
	if !offered {
		return questionnaire.Cancelled[string](), fmt.Errorf("scripted prompter: %q is not an option of %q", step.text, req.Title)
	}
	return questionnaire.Answered(step.text), nil
}

func (p *ScriptedPrompter) Text(ctx context.Context, req questionnaire.TextRequest) (questionnaire.Result[string], error) {
	step, err := p.next(stepText, req.Message, req.Initial)
	if err != nil {
		return questionnaire.Cancelled[string](), err
	}
	if step.cancel {
		return questionnaire.Cancelled[string](), nil
	}
	if req.Validate != nil {
		if err := req.Validate(step.text); err != nil {
			return questionnaire.Cancelled[string](), fmt.Errorf("scripted prompter: %q rejected: %w", step.text, err)
		}
	}
	return questionnaire.Answered(step.text), nil
}

func (p *ScriptedPrompter) Confirm(ctx context.Context, req questionnaire.ConfirmRequest) (questionnaire.Result[bool], error) {
	step, err := p.next(stepConfirm, req.Message, req.Initial)
	if err != nil {
		return questionnaire.Cancelled[bool](), err
	}
	if step.cancel {
		return questionnaire.Cancelled[bool](), nil
	}
	return questionnaire.Answered(step.yes), nil
}
