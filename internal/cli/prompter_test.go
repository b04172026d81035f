package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/plancraft/internal/formtest"
	"github.com/alexanderramin/plancraft/internal/questionnaire"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drivenPrompter runs every form through a synchronous driver and the
// given key script instead of a terminal program.
func drivenPrompter(t *testing.T, script func(d *formtest.Driver)) *HuhPrompter {
	t.Helper()
	p := NewHuhPrompter(bytes.NewReader(nil), &bytes.Buffer{})
	p.run = func(_ context.Context, form *huh.Form) error {
		d := formtest.New(t, form)
		script(d)
		return nil
	}
	return p
}

func TestHuhPrompter_Text(t *testing.T) {
	p := drivenPrompter(t, func(d *formtest.Driver) {
		d.Type("Rome")
		d.Press("enter")
	})

	res, err := p.Text(context.Background(), questionnaire.TextRequest{Message: "Where to?"})
	require.NoError(t, err)
	v, ok := res.Value()
	require.True(t, ok)
	assert.Equal(t, "Rome", v)
}

func TestHuhPrompter_TextKeepsInitial(t *testing.T) {
	p := drivenPrompter(t, func(d *formtest.Driver) {
		d.Press("enter")
	})

	res, err := p.Text(context.Background(), questionnaire.TextRequest{Message: "Plan name", Initial: "2026-03-07-0905-plan"})
	require.NoError(t, err)
	v, ok := res.Value()
	require.True(t, ok)
	assert.Equal(t, "2026-03-07-0905-plan", v)
}

func TestHuhPrompter_TextValidation(t *testing.T) {
	var quitAfterBlank bool
	p := drivenPrompter(t, func(d *formtest.Driver) {
		d.Press("enter")
		quitAfterBlank = d.Quit
		d.Type("trip")
		d.Press("enter")
	})

	res, err := p.Text(context.Background(), questionnaire.TextRequest{
		Message: "Plan name",
		Validate: func(s string) error {
			if s == "" {
				return errors.New("Name required")
			}
			return nil
		},
	})
	require.NoError(t, err)
	assert.False(t, quitAfterBlank, "blank submission is rejected")
	v, _ := res.Value()
	assert.Equal(t, "trip", v)
}

func TestHuhPrompter_Select(t *testing.T) {
	p := drivenPrompter(t, func(d *formtest.Driver) {
		d.Press("down")
		d.Press("enter")
	})

	res, err := p.Select(context.Background(), questionnaire.SelectRequest{
		Title: "Budget",
		Options: []questionnaire.Option{
			{Label: "$", Value: "$"},
			{Label: "$$", Value: "$$"},
			{Label: "$$$", Value: "$$$"},
		},
	})
	require.NoError(t, err)
	v, ok := res.Value()
	require.True(t, ok)
	assert.Equal(t, "$$", v)
}

func TestHuhPrompter_Confirm(t *testing.T) {
	p := drivenPrompter(t, func(d *formtest.Driver) {
		d.Type("y")
	})

	res, err := p.Confirm(context.Background(), questionnaire.ConfirmRequest{Message: "Flexible dates?"})
	require.NoError(t, err)
	v, ok := res.Value()
	require.True(t, ok)
	assert.True(t, v)
}

func TestHuhPrompter_AbortKeysCancel(t *testing.T) {
	for _, k := range []string{"ctrl+c", "esc"} {
		t.Run(k, func(t *testing.T) {
			p := drivenPrompter(t, func(d *formtest.Driver) {
				d.Type("half")
				d.Press(k)
			})

			res, err := p.Text(context.Background(), questionnaire.TextRequest{Message: "Where to?"})
			require.NoError(t, err)
			assert.True(t, res.IsCancelled())
		})
	}
}

func TestHuhPrompter_RunErrors(t *testing.T) {
	p := NewHuhPrompter(bytes.NewReader(nil), &bytes.Buffer{})

	p.run = func(context.Context, *huh.Form) error { return huh.ErrUserAborted }
	res, err := p.Confirm(context.Background(), questionnaire.ConfirmRequest{Message: "ok?"})
	require.NoError(t, err)
	assert.True(t, res.IsCancelled())

	p.run = func(context.Context, *huh.Form) error { return errors.New("tty gone") }
	_, err = p.Text(context.Background(), questionnaire.TextRequest{Message: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tty gone")
}
