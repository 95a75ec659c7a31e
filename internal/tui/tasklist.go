package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/habiterm/internal/models"
)

var (
	listTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	taskPositive = lipgloss.NewStyle().Foreground(lipgloss.Color("120")) // light green
	taskNegative = lipgloss.NewStyle().Foreground(lipgloss.Color("210")) // light coral
	taskNeutral  = lipgloss.NewStyle().Foreground(lipgloss.Color("229")) // light yellow
)

// TaskItem implements list.Item for the task pane
type TaskItem struct {
	Task models.Task
}

func (i TaskItem) FilterValue() string { return i.Task.Text }
func (i TaskItem) Title() string       { return i.Task.Text }
func (i TaskItem) Description() string {
	return taskClass(i.Task.Value).Render(fmt.Sprintf("%s • %.2f", i.Task.Type, i.Task.Value))
}

// taskClass buckets a task value for list coloring.
func taskClass(value float64) lipgloss.Style {
	switch {
	case value > 1:
		return taskPositive
	case value < -1:
		return taskNegative
	default:
		return taskNeutral
	}
}

// TaskListModel is the middle pane.
type TaskListModel struct {
	list list.Model
}

// NewTaskListModel creates an empty task pane.
func NewTaskListModel() *TaskListModel {
	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 40, 20)
	l.Title = "Tasks"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = listTitleStyle

	return &TaskListModel{list: l}
}

// SetSize sets the list dimensions
func (m *TaskListModel) SetSize(w, h int) {
	m.list.SetSize(w, h)
}

// SetTitle shows the browsed category.
func (m *TaskListModel) SetTitle(title string) {
	m.list.Title = title
}

// SetTasks replaces the items and clamps the cursor to the previous row.
// It returns the resulting index, or -1 for an empty list.
func (m *TaskListModel) SetTasks(tasks []models.Task) int {
	prev := m.list.Index()
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = TaskItem{Task: t}
	}
	m.list.SetItems(items)

	if len(tasks) == 0 {
		return -1
	}
	idx := min(prev, len(tasks)-1)
	if idx < 0 {
		idx = 0
	}
	m.list.Select(idx)
	return idx
}

// Index returns the cursor row.
func (m *TaskListModel) Index() int {
	return m.list.Index()
}

// Len returns the number of rows.
func (m *TaskListModel) Len() int {
	return len(m.list.Items())
}

// Update forwards cursor movement to the list.
func (m *TaskListModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

// View renders the task pane
func (m *TaskListModel) View() string {
	if m.Len() == 0 {
		return listTitleStyle.Render(m.list.Title) + "\n\n" + helpStyle.Render("  No tasks. Press i to import.")
	}
	return m.list.View()
}
