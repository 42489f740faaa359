package prompt

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorText    = lipgloss.Color("#e0def4")
	colorSubtext = lipgloss.Color("#908caa")
	colorAccent  = lipgloss.Color("#c4a7e7")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginBottom(1)

	itemStyle = lipgloss.NewStyle().
			Foreground(colorText).
			PaddingLeft(2)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorSubtext).
			MarginTop(1)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.done || m.aborted {
		return ""
	}
	if m.screen == screenNote {
		return m.viewNote()
	}
	return m.viewPick()
}

func (m Model) viewPick() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🎭 Como você está se sentindo?"))
	b.WriteString("\n")

	for i, f := range m.feelings {
		line := fmt.Sprintf("%d. %s %s", (i+1)%10, f.Emoji, f.Label())
		if i >= 10 {
			line = fmt.Sprintf("   %s %s", f.Emoji, f.Label())
		}
		if i == m.cursor {
			selected := lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(f.Color)).
				PaddingLeft(0)
			b.WriteString(selected.Render("> " + line))
		} else {
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ j/k mover • 1-9,0 escolher • enter confirmar • q sair"))
	return b.String()
}

func (m Model) viewNote() string {
	f := m.feelings[m.cursor]
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s", f.Emoji, f.Label())))
	b.WriteString("\n")
	b.WriteString("📝 Quer adicionar uma nota?\n")
	b.WriteString(m.note.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter salvar • esc voltar"))
	return b.String()
}
