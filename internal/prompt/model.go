// Package prompt asks the user for a feeling and an optional note in the
// terminal.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/moodlog/pkg/types"
)

// ErrAborted is returned when the user quits without choosing.
var ErrAborted = errors.New("prompt aborted")

// Result is what the user picked.
type Result struct {
	Feeling string
	Note    string
}

type screen int

const (
	screenPick screen = iota
	screenNote
)

// Model is the Bubble Tea model for the prompt.
type Model struct {
	feelings []types.Feeling
	screen   screen
	cursor   int
	note     textinput.Model

	result  Result
	done    bool
	aborted bool
}

// New returns a model listing the catalog feelings in order.
func New(cat types.Catalog) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter para pular"
	ti.CharLimit = 500
	ti.Width = 60

	return Model{
		feelings: cat.Feelings(),
		note:     ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.screen == screenNote {
			var cmd tea.Cmd
			m.note, cmd = m.note.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if key.String() == "ctrl+c" {
		m.aborted = true
		return m, tea.Quit
	}

	switch m.screen {
	case screenNote:
		return m.handleNoteKeys(key)
	default:
		return m.handlePickKeys(key)
	}
}

func (m Model) handlePickKeys(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch s := key.String(); s {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.feelings)-1 {
			m.cursor++
		}
	case "enter":
		return m.choose()
	case "q", "esc":
		m.aborted = true
		return m, tea.Quit
	default:
		if idx, ok := digitIndex(s); ok && idx < len(m.feelings) {
			m.cursor = idx
			return m.choose()
		}
	}
	return m, nil
}

func (m Model) handleNoteKeys(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "enter":
		m.result = Result{
			Feeling: m.feelings[m.cursor].Name,
			Note:    strings.TrimSpace(m.note.Value()),
		}
		m.done = true
		return m, tea.Quit
	case "esc":
		m.note.Blur()
		m.screen = screenPick
		return m, nil
	}
	var cmd tea.Cmd
	m.note, cmd = m.note.Update(key)
	return m, cmd
}

func (m Model) choose() (tea.Model, tea.Cmd) {
	if len(m.feelings) == 0 {
		return m, nil
	}
	m.screen = screenNote
	cmd := m.note.Focus()
	return m, cmd
}

// digitIndex maps "1".."9" to 0..8 and "0" to 9.
func digitIndex(s string) (int, bool) {
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return 0, false
	}
	if s[0] == '0' {
		return 9, true
	}
	return int(s[0] - '1'), true
}

// Result returns the choice and whether the prompt finished with one.
func (m Model) Result() (Result, bool) {
	return m.result, m.done
}

// Run shows the prompt on in/out and returns the user's choice.
func Run(cat types.Catalog, in io.Reader, out io.Writer) (Result, error) {
	if cat.Len() == 0 {
		return Result{}, fmt.Errorf("no feelings to choose from")
	}
	p := tea.NewProgram(New(cat), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return Result{}, fmt.Errorf("running prompt: %w", err)
	}
	m, ok := final.(Model)
	if !ok || m.aborted || !m.done {
		return Result{}, ErrAborted
	}
	return m.result, nil
}
