// Package tui provides the interactive terminal UI for habiterm.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/habiterm/internal/habitica"
	"github.com/fentz26/habiterm/internal/logger"
	"github.com/fentz26/habiterm/internal/models"
	"github.com/fentz26/habiterm/internal/taskview"
)

var (
	// Colors
	primaryColor   = lipgloss.Color("#7C3AED")
	secondaryColor = lipgloss.Color("#6366F1")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	fgColor        = lipgloss.Color("#F9FAFB")
	cyanColor      = lipgloss.Color("#06B6D4")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(fgColor).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	focusedPanelStyle = panelStyle.
				BorderForeground(secondaryColor).
				Border(lipgloss.DoubleBorder())
)

type pane int

const (
	paneCategories pane = iota
	paneTasks
	paneDetail
	paneCount
)

type modal int

const (
	modalNone modal = iota
	modalEdit
	modalImport
	modalConfirmDelete
)

const noticeTTL = 4 * time.Second

// App is the main TUI application model.
type App struct {
	view *taskview.State
	log  logger.Logger
	snap taskview.Snapshot

	catIdx int
	focus  pane
	tasks  *TaskListModel
	detail *TaskDetailModel
	prompt *PromptModel
	form   *EditForm
	modal  modal

	pendingDelete models.Task

	spinner spinner.Model
	busy    bool

	notice    string
	noticeErr bool
	noticeSeq int

	width  int
	height int
}

// New creates the TUI over view.
func New(view *taskview.State, log logger.Logger) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	if log == nil {
		log = logger.Discard()
	}
	snap := view.Snapshot()
	return &App{
		view:    view,
		log:     log,
		snap:    snap,
		catIdx:  categoryIndex(snap.Category),
		tasks:   NewTaskListModel(),
		detail:  NewTaskDetailModel(),
		prompt:  NewPromptModel(),
		spinner: sp,
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	category := a.snap.Category
	return a.run(func(ctx context.Context) (string, error) {
		return "", a.view.Refresh(ctx, category)
	})
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case actionDoneMsg:
		a.busy = false
		a.applySnapshot(msg.snap)
		if msg.err != nil {
			a.log.Warn("Action failed", "err", msg.err)
			return a, a.notify(errorNotice(msg.err), true)
		}
		if msg.notice != "" {
			return a, a.notify(msg.notice, false)
		}
		return a, nil

	case noticeExpiredMsg:
		if msg.seq == a.noticeSeq {
			a.notice = ""
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.modal {
	case modalEdit:
		return a.updateEditForm(msg)
	case modalImport:
		return a.updateImportPrompt(msg)
	case modalConfirmDelete:
		return a.updateConfirmDelete(msg)
	}

	if msg.String() == "q" {
		return a, tea.Quit
	}
	// One remote operation at a time; keys are dropped until it finishes.
	if a.busy {
		return a, nil
	}

	switch msg.String() {
	case "r":
		category := a.snap.Category
		return a, a.run(func(ctx context.Context) (string, error) {
			if err := a.view.Refresh(ctx, category); err != nil {
				return "", err
			}
			return "Refreshed " + category.Label(), nil
		})

	case "s":
		return a, a.score(models.DirectionUp)

	case "x":
		return a, a.score(models.DirectionDown)

	case "e":
		task, ok := a.snap.SelectedTask()
		if !ok {
			return a, a.notify("No task selected", true)
		}
		a.form = NewEditForm(task)
		a.form.SetWidth(a.modalWidth())
		a.modal = modalEdit
		return a, nil

	case "d":
		task, ok := a.snap.SelectedTask()
		if !ok {
			return a, a.notify("No task selected", true)
		}
		a.pendingDelete = task
		a.modal = modalConfirmDelete
		return a, nil

	case "i":
		a.modal = modalImport
		a.prompt.SetWidth(a.modalWidth())
		return a, a.prompt.Open()

	case "h", "left":
		a.focus = paneCategories
	case "l", "right":
		if a.tasks.Len() > 0 {
			a.focus = paneTasks
		}
	case "tab":
		a.focus = (a.focus + 1) % paneCount
	case "shift+tab":
		a.focus = (a.focus + paneCount - 1) % paneCount

	default:
		return a, a.navigate(msg)
	}
	return a, nil
}

func (a *App) navigate(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch a.focus {
	case paneCategories:
		next := a.catIdx
		switch key {
		case "j", "down":
			next++
		case "k", "up":
			next--
		default:
			return nil
		}
		if next < 0 || next >= len(models.Categories) {
			return nil
		}
		a.catIdx = next
		category := models.Categories[next]
		return a.run(func(ctx context.Context) (string, error) {
			return "", a.view.SetCategory(ctx, category)
		})

	case paneTasks:
		switch key {
		case "j", "k", "up", "down", "g", "G", "home", "end":
			cmd := a.tasks.Update(msg)
			a.view.Select(a.tasks.Index())
			a.snap = a.view.Snapshot()
			a.syncDetail()
			return cmd
		}

	case paneDetail:
		switch key {
		case "j", "k", "up", "down", "pgup", "pgdown":
			return a.detail.Update(msg)
		}
	}
	return nil
}

func (a *App) score(dir models.Direction) tea.Cmd {
	task, ok := a.snap.SelectedTask()
	if !ok {
		return a.notify("No task selected", true)
	}
	return a.run(func(ctx context.Context) (string, error) {
		res, err := a.view.Score(ctx, dir)
		if err != nil {
			return "", err
		}
		note := fmt.Sprintf("Scored %s: %s", dir, task.Text)
		if res != nil && res.Delta != 0 {
			note += fmt.Sprintf(" (%+.2f)", res.Delta)
		}
		return note, nil
	})
}

func (a *App) updateEditForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	res, cmd := a.form.Update(msg)
	switch res {
	case promptCancelled:
		a.modal, a.form = modalNone, nil
		return a, nil
	case promptSubmitted:
		update := a.form.Values()
		a.modal, a.form = modalNone, nil
		return a, a.run(func(ctx context.Context) (string, error) {
			if err := a.view.Edit(ctx, update); err != nil {
				return "", err
			}
			return "Task updated", nil
		})
	}
	return a, cmd
}

func (a *App) updateImportPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	res, cmd := a.prompt.Update(msg)
	switch res {
	case promptCancelled:
		a.modal = modalNone
		return a, nil
	case promptSubmitted:
		a.modal = modalNone
		path := a.prompt.Value()
		if path == "" {
			return a, nil
		}
		return a, a.run(func(ctx context.Context) (string, error) {
			summary, err := a.view.CreateMany(ctx, path)
			if err != nil {
				return "", fmt.Errorf("import: %w", err)
			}
			return importNotice(summary), nil
		})
	}
	return a, cmd
}

func (a *App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		task := a.pendingDelete
		a.modal = modalNone
		return a, a.run(func(ctx context.Context) (string, error) {
			if err := a.view.Delete(ctx); err != nil {
				return "", err
			}
			return "Deleted: " + task.Text, nil
		})
	case "n", "N", "esc", "q":
		a.modal = modalNone
	}
	return a, nil
}

func importNotice(s models.ImportSummary) string {
	note := fmt.Sprintf("Imported %d tasks", s.Attempted)
	if s.Failed > 0 {
		note += fmt.Sprintf(", %d rejected", s.Failed)
	}
	if s.Dropped > 0 {
		note += fmt.Sprintf(", %d skipped without text", s.Dropped)
	}
	return note
}

func errorNotice(err error) string {
	switch {
	case errors.Is(err, taskview.ErrNoSelection):
		return "No task selected"
	case habitica.KindOf(err) == habitica.KindAuth:
		return "Error: not authorized, check HABITICA_USER_ID and HABITICA_API_TOKEN"
	}
	return "Error: " + strings.ReplaceAll(err.Error(), "\n", "; ")
}

// run executes action off the UI goroutine and reports back with the view
// snapshot taken after it finished.
func (a *App) run(action func(ctx context.Context) (string, error)) tea.Cmd {
	a.busy = true
	view := a.view
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		notice, err := action(context.Background())
		return actionDoneMsg{snap: view.Snapshot(), notice: notice, err: err}
	})
}

func (a *App) notify(text string, isErr bool) tea.Cmd {
	a.noticeSeq++
	seq := a.noticeSeq
	a.notice, a.noticeErr = text, isErr
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// applySnapshot renders a refreshed view. A refresh clears the selection;
// the cursor stays on the same row, clamped, and is re-selected.
func (a *App) applySnapshot(snap taskview.Snapshot) {
	a.snap = snap
	a.catIdx = categoryIndex(snap.Category)
	a.tasks.SetTitle(snap.Category.Label())
	if idx := a.tasks.SetTasks(snap.Tasks); idx >= 0 {
		a.view.Select(idx)
		a.snap = a.view.Snapshot()
	} else if a.focus == paneTasks {
		a.focus = paneCategories
	}
	a.syncDetail()
}

func (a *App) syncDetail() {
	if t, ok := a.snap.SelectedTask(); ok {
		a.detail.SetTask(&t)
		return
	}
	a.detail.SetTask(nil)
}

func categoryIndex(c models.Category) int {
	for i, cat := range models.Categories {
		if cat == c {
			return i
		}
	}
	return 0
}

// paneWidths splits the screen 15/35/50 like a three-column layout.
func paneWidths(total int) (left, mid, right int) {
	left = max(total*15/100, 14)
	mid = max(total*35/100, 20)
	right = max(total-left-mid, 20)
	return left, mid, right
}

func (a *App) bodyHeight() int {
	return max(a.height-3, 6)
}

func (a *App) modalWidth() int {
	return min(max(a.width-10, 40), 80)
}

func (a *App) resize(w, h int) {
	a.width, a.height = w, h
	_, mid, right := paneWidths(w)
	inner := a.bodyHeight() - 2
	a.tasks.SetSize(mid-4, inner)
	a.detail.SetSize(right-4, inner)
	a.prompt.SetWidth(a.modalWidth())
	if a.form != nil {
		a.form.SetWidth(a.modalWidth())
	}
}

// View implements tea.Model
func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	header := titleStyle.Render("habiterm")
	header += "  " + lipgloss.NewStyle().Foreground(cyanColor).Render(fmt.Sprintf("[%s: %d]", a.snap.Category.Label(), len(a.snap.Tasks)))
	if a.busy {
		header += "  " + a.spinner.View()
	}
	b.WriteString(header + "\n")

	height := a.bodyHeight()
	if a.modal != modalNone {
		b.WriteString(lipgloss.Place(a.width, height, lipgloss.Center, lipgloss.Center, a.modalView()))
	} else {
		b.WriteString(a.renderPanes(height))
	}
	b.WriteString("\n")

	// Notice line
	if a.notice != "" {
		style := lipgloss.NewStyle().Foreground(successColor)
		if a.noticeErr {
			style = lipgloss.NewStyle().Foreground(errorColor)
		}
		b.WriteString(style.Render(a.notice))
	}
	b.WriteString("\n")

	status := " q:quit | r:refresh | s:score+ | x:score- | e:edit | d:delete | i:import | h/l:focus | j/k:move"
	b.WriteString(statusBarStyle.Width(a.width).Render(status))

	return b.String()
}

func (a *App) renderPanes(height int) string {
	left, mid, right := paneWidths(a.width)

	panel := func(p pane, w int, content string) string {
		style := panelStyle
		if a.focus == p {
			style = focusedPanelStyle
		}
		return style.Width(w - 2).Height(height - 2).Render(content)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		panel(paneCategories, left, a.renderCategories()),
		panel(paneTasks, mid, a.renderTasks()),
		panel(paneDetail, right, a.detail.View()),
	)
}

func (a *App) renderCategories() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Category"))
	b.WriteString("\n\n")
	for i, c := range models.Categories {
		if i == a.catIdx {
			b.WriteString(selectedStyle.Render("▶ " + c.Label()))
		} else {
			b.WriteString("  " + c.Label())
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderTasks() string {
	if a.snap.Status == taskview.StatusEmpty {
		if a.snap.LastError != nil {
			return listTitleStyle.Render("Tasks") + "\n\n" +
				lipgloss.NewStyle().Foreground(errorColor).Render("  Could not load tasks.") + "\n" +
				helpStyle.Render("  Press r to retry.")
		}
		return listTitleStyle.Render("Tasks") + "\n\n" + helpStyle.Render("  Loading tasks...")
	}
	return a.tasks.View()
}

func (a *App) modalView() string {
	w := a.modalWidth()
	switch a.modal {
	case modalEdit:
		return a.form.View(w)
	case modalImport:
		return a.prompt.View(w)
	case modalConfirmDelete:
		body := titleStyle.Render("Delete Task") + "\n\n" +
			fmt.Sprintf("Delete %q?", a.pendingDelete.Text) + "\n\n" +
			helpStyle.Render("y: delete • n: cancel")
		return inputBoxStyle.BorderForeground(errorColor).Width(w - 4).Render(body)
	}
	return ""
}

type actionDoneMsg struct {
	snap   taskview.Snapshot
	notice string
	err    error
}

type noticeExpiredMsg struct {
	seq int
}
