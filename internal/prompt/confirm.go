// Package prompt asks wizard confirmation questions on the terminal.
package prompt

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/conn-castle/upgrade-console/internal/messages"
	"github.com/conn-castle/upgrade-console/internal/terminal"
)

// ErrAborted is returned when the user leaves the prompt with Esc or Ctrl+C.
var ErrAborted = errors.New(messages.PromptAborted)

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// Confirmer asks yes/no questions with charmbracelet/huh.
type Confirmer struct {
	isTerminal func() bool
	// Output receives the rendered form. Stdout stays free for results.
	Output io.Writer
}

// NewConfirmer returns a Confirmer that renders on stderr.
func NewConfirmer() *Confirmer {
	return &Confirmer{isTerminal: terminal.IsInteractive, Output: os.Stderr}
}

// Interactive reports whether questions can be asked at all.
func (c *Confirmer) Interactive() bool {
	checker := c.isTerminal
	if checker == nil {
		checker = terminal.IsInteractive
	}
	return checker()
}

// Confirm asks question with def preselected.
func (c *Confirmer) Confirm(question string, def bool) (bool, error) {
	if !c.Interactive() {
		return def, errors.New(messages.PromptRequiresTerminal)
	}
	answer := def
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(question).
			Affirmative(messages.PromptYes).
			Negative(messages.PromptNo).
			Value(&answer),
	))
	form.WithKeyMap(keyMap())
	output := c.Output
	if output == nil {
		output = os.Stderr
	}
	form.WithProgramOptions(tea.WithOutput(output))

	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		return def, ErrAborted
	}
	if err != nil {
		return def, err
	}
	return answer, nil
}

// keyMap lets Esc abort as well as Ctrl+C.
func keyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"))
	return km
}
