package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/habiterm/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginTop(1)
)

// Value bands, lowest first.
var (
	valueRed    = lipgloss.Color("#EF4444")
	valueOrange = lipgloss.Color("#F97316")
	valueYellow = lipgloss.Color("#EAB308")
	valueGreen  = lipgloss.Color("#10B981")
	valueBlue   = lipgloss.Color("#3B82F6")
)

// valueColor maps a task value to its band color.
func valueColor(value float64) lipgloss.Color {
	switch {
	case value < -10:
		return valueRed
	case value < -1:
		return valueOrange
	case value < 1:
		return valueYellow
	case value < 5:
		return valueGreen
	default:
		return valueBlue
	}
}

// priorityLabel names the four difficulty levels; anything else prints as a number.
func priorityLabel(p float64) string {
	switch p {
	case 0.1:
		return "Trivial"
	case 1:
		return "Easy"
	case 1.5:
		return "Medium"
	case 2:
		return "Hard"
	}
	return strconv.FormatFloat(p, 'g', -1, 64)
}

// TaskDetailModel is the right pane: a scrollable view of the selected task.
type TaskDetailModel struct {
	viewport viewport.Model
	task     *models.Task
	width    int
}

// NewTaskDetailModel creates an empty detail pane
func NewTaskDetailModel() *TaskDetailModel {
	m := &TaskDetailModel{viewport: viewport.New(40, 20), width: 40}
	m.SetTask(nil)
	return m
}

// SetSize sets the dimensions
func (m *TaskDetailModel) SetSize(w, h int) {
	m.width = w
	m.viewport.Width = w
	m.viewport.Height = h
	m.viewport.SetContent(renderTaskDetail(m.task, w))
}

// SetTask shows t, or a placeholder when t is nil.
func (m *TaskDetailModel) SetTask(t *models.Task) {
	m.task = t
	m.viewport.SetContent(renderTaskDetail(t, m.width))
	m.viewport.GotoTop()
}

// Update scrolls the pane.
func (m *TaskDetailModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

// View renders the task detail
func (m *TaskDetailModel) View() string {
	return m.viewport.View()
}

func renderTaskDetail(t *models.Task, width int) string {
	if t == nil {
		return helpStyle.Render("No task selected")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(t.Text))
	b.WriteString("\n\n")

	value := lipgloss.NewStyle().Foreground(valueColor(t.Value)).Render(fmt.Sprintf("%.2f", t.Value))
	b.WriteString(renderField("Type", valueStyle.Render(strings.ToUpper(string(t.Type)))))
	b.WriteString(renderField("Value", value))
	b.WriteString(renderField("Priority", valueStyle.Render(priorityLabel(t.Priority))))

	b.WriteString(sectionStyle.Render("Notes"))
	b.WriteString("\n")
	if t.Notes == "" {
		b.WriteString(helpStyle.Render("No notes"))
	} else {
		b.WriteString(lipgloss.NewStyle().Width(max(width, 10)).Render(t.Notes))
	}
	b.WriteString("\n\n")

	b.WriteString(renderField("ID", labelStyle.Render(t.ID)))
	return b.String()
}

func renderField(label, value string) string {
	return fmt.Sprintf("%s %s\n", labelStyle.Render(label+":"), value)
}
