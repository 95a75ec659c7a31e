package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var promptStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("205")).
	Bold(true)

// promptResult is what a key press did to the prompt.
type promptResult int

const (
	promptEditing promptResult = iota
	promptSubmitted
	promptCancelled
)

// PromptModel asks for an import file path, with completion.
type PromptModel struct {
	input       textinput.Model
	suggestions *Suggestions
}

// NewPromptModel creates the import prompt
func NewPromptModel() *PromptModel {
	ti := textinput.New()
	ti.Placeholder = "sample_tasks.yaml"
	ti.CharLimit = 1024
	ti.Width = 60
	return &PromptModel{
		input:       ti,
		suggestions: NewSuggestions(),
	}
}

// Open resets and focuses the prompt.
func (m *PromptModel) Open() tea.Cmd {
	m.input.SetValue("")
	m.suggestions.Update("")
	return m.input.Focus()
}

// Value returns the trimmed path.
func (m *PromptModel) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// SetWidth sets the input width
func (m *PromptModel) SetWidth(w int) {
	m.input.Width = max(w-8, 20)
}

// Update handles a key press. Tab accepts the highlighted completion.
func (m *PromptModel) Update(msg tea.KeyMsg) (promptResult, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		return promptCancelled, nil
	case "enter":
		m.input.Blur()
		return promptSubmitted, nil
	case "tab":
		if selected := m.suggestions.Selected(); selected != nil {
			m.input.SetValue(selected.Text)
			m.input.CursorEnd()
			m.suggestions.Update(selected.Text)
		}
		return promptEditing, nil
	case "up":
		m.suggestions.Prev()
		return promptEditing, nil
	case "down":
		m.suggestions.Next()
		return promptEditing, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.suggestions.Update(m.input.Value())
	return promptEditing, cmd
}

// View renders the prompt box
func (m *PromptModel) View(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Import Tasks"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Enter file path (.csv, .yaml, .yml, .md):"))
	b.WriteString("\n")
	b.WriteString(promptStyle.Render("> ") + m.input.View())
	if m.suggestions.IsVisible() {
		b.WriteString("\n")
		b.WriteString(m.suggestions.Render(width - 4))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter: import • tab: complete • esc: cancel"))
	return inputBoxStyle.Width(max(width-4, 30)).Render(b.String())
}
