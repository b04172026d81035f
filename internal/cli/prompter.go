package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/plancraft/internal/cli/formatter"
	"github.com/alexanderramin/plancraft/internal/questionnaire"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// HuhPrompter asks each question as a one-field huh form on the terminal.
// ctrl+c and esc abort the form, which surfaces as a Cancelled result.
type HuhPrompter struct {
	in     io.Reader
	out    io.Writer
	theme  *huh.Theme
	keymap *huh.KeyMap
	run    func(ctx context.Context, form *huh.Form) error
}

func NewHuhPrompter(in io.Reader, out io.Writer) *HuhPrompter {
	p := &HuhPrompter{
		in:     in,
		out:    out,
		theme:  plancraftHuhTheme(),
		keymap: cancelKeyMap(),
	}
	p.run = func(ctx context.Context, form *huh.Form) error {
		return form.RunWithContext(ctx)
	}
	return p
}

func (p *HuhPrompter) Select(ctx context.Context, req questionnaire.SelectRequest) (questionnaire.Result[string], error) {
	options := make([]huh.Option[string], 0, len(req.Options))
	selected := ""
	for _, o := range req.Options {
		options = append(options, huh.NewOption(o.Label, o.Value))
		if o.Value == req.Initial {
			selected = o.Value
		}
	}
	if selected == "" && len(req.Options) > 0 {
		selected = req.Options[0].Value
	}

	field := huh.NewSelect[string]().
		Title(req.Title).
		Options(options...).
		Value(&selected)
	return runField(ctx, p, field, &selected)
}

func (p *HuhPrompter) Text(ctx context.Context, req questionnaire.TextRequest) (questionnaire.Result[string], error) {
	value := req.Initial
	field := huh.NewInput().
		Title(req.Message).
		Placeholder(req.Placeholder).
		Value(&value)
	if req.Validate != nil {
		field = field.Validate(req.Validate)
	}
	return runField(ctx, p, field, &value)
}

func (p *HuhPrompter) Confirm(ctx context.Context, req questionnaire.ConfirmRequest) (questionnaire.Result[bool], error) {
	value := req.Initial
	field := huh.NewConfirm().
		Title(req.Message).
		Affirmative("Yes").
		Negative("No").
		Value(&value)
	return runField(ctx, p, field, &value)
}

func runField[T any](ctx context.Context, p *HuhPrompter, field huh.Field, value *T) (questionnaire.Result[T], error) {
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(p.theme).
		WithShowHelp(false).
		WithKeyMap(p.keymap).
		WithProgramOptions(tea.WithInput(p.in), tea.WithOutput(p.out))

	err := p.run(ctx, form)
	switch {
	case errors.Is(err, huh.ErrUserAborted):
		return questionnaire.Cancelled[T](), nil
	case err != nil:
		return questionnaire.Cancelled[T](), fmt.Errorf("terminal prompt: %w", err)
	case form.State == huh.StateAborted:
		return questionnaire.Cancelled[T](), nil
	}
	return questionnaire.Answered(*value), nil
}

func cancelKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "cancel"),
	)
	return km
}

func plancraftHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

var _ questionnaire.Prompter = (*HuhPrompter)(nil)
