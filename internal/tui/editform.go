package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fentz26/habiterm/internal/models"
)

const (
	fieldText = iota
	fieldNotes
	fieldPriority
	fieldCount
)

var fieldLabels = [fieldCount]string{"Text:", "Notes:", "Priority:"}

// EditForm edits the text, notes and priority of one task.
type EditForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
}

// NewEditForm prefills the form from t.
func NewEditForm(t models.Task) *EditForm {
	f := &EditForm{}
	values := [fieldCount]string{t.Text, t.Notes, strconv.FormatFloat(t.Priority, 'g', -1, 64)}
	for i := range f.inputs {
		ti := textinput.New()
		ti.CharLimit = 512
		ti.Width = 50
		ti.SetValue(values[i])
		f.inputs[i] = ti
	}
	f.inputs[fieldPriority].Placeholder = "0.1, 1, 1.5 or 2"
	f.inputs[fieldPriority].CharLimit = 8
	f.inputs[fieldText].Focus()
	return f
}

// SetWidth sets the input width
func (f *EditForm) SetWidth(w int) {
	for i := range f.inputs {
		f.inputs[i].Width = max(w-16, 20)
	}
}

// Update handles a key press: enter saves, esc cancels, tab moves fields.
func (f *EditForm) Update(msg tea.KeyMsg) (promptResult, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return promptCancelled, nil
	case "enter":
		return promptSubmitted, nil
	case "tab", "down":
		return promptEditing, f.setFocus((f.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return promptEditing, f.setFocus((f.focus + fieldCount - 1) % fieldCount)
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return promptEditing, cmd
}

func (f *EditForm) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = i
	return f.inputs[i].Focus()
}

// Values returns the full update submitted by the form.
func (f *EditForm) Values() models.TaskUpdate {
	text := f.inputs[fieldText].Value()
	notes := f.inputs[fieldNotes].Value()
	priority := parsePriority(f.inputs[fieldPriority].Value())
	return models.TaskUpdate{Text: &text, Notes: &notes, Priority: &priority}
}

// parsePriority reads a priority, falling back to the default on empty or
// invalid input.
func parsePriority(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.DefaultPriority
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return models.DefaultPriority
	}
	return p
}

// View renders the form box
func (f *EditForm) View(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Edit Task"))
	b.WriteString("\n\n")
	for i := range f.inputs {
		label := labelStyle.Width(10).Render(fieldLabels[i])
		if i == f.focus {
			label = promptStyle.Width(10).Render(fieldLabels[i])
		}
		b.WriteString(label + " " + f.inputs[i].View() + "\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: save • tab: next field • esc: cancel"))
	return inputBoxStyle.Width(max(width-4, 30)).Render(b.String())
}
