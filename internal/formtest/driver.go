// Package formtest drives bubbletea models, huh forms in particular,
// synchronously in tests: each key goes straight through Update and the
// returned commands are drained in place, so no tea.Program or terminal
// is involved.
package formtest

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxDepth bounds command draining.
const maxDepth = 100

// Commands still blocked after this long are timers (cursor blink) and
// get dropped.
const cmdTimeout = 10 * time.Millisecond

// Driver feeds input to one model.
type Driver struct {
	t     *testing.T
	model tea.Model

	// Quit is set once the model asked to quit.
	Quit bool
}

// New creates a driver and runs the model's Init command.
func New(t *testing.T, model tea.Model) *Driver {
	t.Helper()
	d := &Driver{t: t, model: model}
	updated, _ := d.model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	d.model = updated
	d.drain(d.model.Init(), 0)
	return d
}

// Model returns the current model.
func (d *Driver) Model() tea.Model { return d.model }

func (d *Driver) send(msg tea.Msg) {
	d.t.Helper()
	if d.Quit {
		return
	}
	updated, cmd := d.model.Update(msg)
	d.model = updated
	d.drain(cmd, 0)
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.t.Helper()
	for _, r := range s {
		d.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Press sends a named key: enter, esc, ctrl+c, up, down, left, right, tab.
func (d *Driver) Press(name string) {
	d.t.Helper()
	keys := map[string]tea.KeyType{
		"enter":  tea.KeyEnter,
		"esc":    tea.KeyEsc,
		"ctrl+c": tea.KeyCtrlC,
		"up":     tea.KeyUp,
		"down":   tea.KeyDown,
		"left":   tea.KeyLeft,
		"right":  tea.KeyRight,
		"tab":    tea.KeyTab,
	}
	kt, ok := keys[name]
	if !ok {
		d.t.Fatalf("formtest: unknown key %q", name)
	}
	d.send(tea.KeyMsg{Type: kt})
}

// View renders the current model.
func (d *Driver) View() string {
	return d.model.View()
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.t.Helper()
	if cmd == nil {
		return
	}
	if depth >= maxDepth {
		d.t.Logf("formtest: drain depth limit (%d) reached", maxDepth)
		return
	}

	msg := runWithTimeout(cmd)
	if msg == nil || isBlink(msg) {
		return
	}

	if _, ok := msg.(tea.QuitMsg); ok {
		d.Quit = true
		return
	}
	// tea.Batch and tea.Sequence both deliver a []tea.Cmd; the sequence
	// type is unexported.
	if cmds, ok := cmdList(msg); ok {
		for _, sub := range cmds {
			d.drain(sub, depth+1)
		}
		return
	}

	updated, next := d.model.Update(msg)
	d.model = updated
	d.drain(next, depth+1)
}

var cmdType = reflect.TypeOf((tea.Cmd)(nil))

func cmdList(msg tea.Msg) ([]tea.Cmd, bool) {
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice || v.Type().Elem() != cmdType {
		return nil, false
	}
	cmds := make([]tea.Cmd, v.Len())
	for i := range cmds {
		cmds[i], _ = v.Index(i).Interface().(tea.Cmd)
	}
	return cmds, true
}

func runWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// isBlink matches cursor blink messages; their types are unexported.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
