// Package taskview holds what the user is looking at: the tasks of one
// category and the selected row. Every mutation re-reads the category from
// the remote service, so the view never drifts from server state.
package taskview

import (
	"context"
	"errors"
	"sync"

	"github.com/fentz26/habiterm/internal/audit"
	"github.com/fentz26/habiterm/internal/logger"
	"github.com/fentz26/habiterm/internal/models"
)

// NoSelection is the Selected value when no row is selected.
const NoSelection = -1

// Sentinel errors.
var (
	ErrNoSelection = errors.New("no task selected")
	ErrNoImporter  = errors.New("import not configured")
)

// Status is the view state.
type Status int

const (
	StatusEmpty Status = iota
	StatusLoaded
)

func (s Status) String() string {
	if s == StatusLoaded {
		return "loaded"
	}
	return "empty"
}

// Remote is the subset of the task service the view drives.
type Remote interface {
	ListTasks(ctx context.Context, category models.Category) ([]models.Task, error)
	UpdateTask(ctx context.Context, id string, update models.TaskUpdate) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ScoreTask(ctx context.Context, id string, dir models.Direction) (*models.ScoreResult, error)
}

// Importer submits an import file.
type Importer interface {
	ImportFrom(ctx context.Context, path string) (models.ImportSummary, error)
}

// Recorder journals mutating actions.
type Recorder interface {
	Record(action, taskID string, inputs any, err error) (*models.ActionRecord, error)
}

// Snapshot is an immutable copy of the view for rendering.
type Snapshot struct {
	Status    Status
	Category  models.Category
	Tasks     []models.Task
	Selected  int
	LastError error
}

// SelectedTask returns the selected task, if any.
func (s Snapshot) SelectedTask() (models.Task, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Tasks) {
		return models.Task{}, false
	}
	return s.Tasks[s.Selected], true
}

// State is the task view. Operations that talk to the remote service are
// serialized; Snapshot and Select never wait on the network.
type State struct {
	remote   Remote
	importer Importer
	recorder Recorder
	log      logger.Logger

	op sync.Mutex

	mu       sync.RWMutex
	status   Status
	category models.Category
	tasks    []models.Task
	selected int
	lastErr  error
}

// Option configures a State.
type Option func(*State)

// WithImporter enables CreateMany.
func WithImporter(im Importer) Option {
	return func(s *State) { s.importer = im }
}

// WithRecorder journals every mutation.
func WithRecorder(r Recorder) Option {
	return func(s *State) { s.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *State) { s.log = l }
}

// WithCategory sets the initial category. The default is todos.
func WithCategory(c models.Category) Option {
	return func(s *State) { s.category = c }
}

// New creates an Empty view over remote.
func New(remote Remote, opts ...Option) *State {
	s := &State{
		remote:   remote,
		log:      logger.Discard(),
		status:   StatusEmpty,
		category: models.CategoryTodos,
		selected: NoSelection,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current view.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Status:    s.status,
		Category:  s.category,
		Tasks:     append([]models.Task(nil), s.tasks...),
		Selected:  s.selected,
		LastError: s.lastErr,
	}
}

// Refresh loads every task of category. A failed query leaves the view Empty
// and keeps the error in LastError.
func (s *State) Refresh(ctx context.Context, category models.Category) error {
	s.op.Lock()
	defer s.op.Unlock()
	return s.refresh(ctx, category)
}

// SetCategory switches the browsed category. Re-selecting the loaded
// category does not hit the network.
func (s *State) SetCategory(ctx context.Context, category models.Category) error {
	s.op.Lock()
	defer s.op.Unlock()

	s.mu.RLock()
	same := s.status == StatusLoaded && s.category == category
	s.mu.RUnlock()
	if same {
		return nil
	}
	return s.refresh(ctx, category)
}

func (s *State) refresh(ctx context.Context, category models.Category) error {
	tasks, err := s.remote.ListTasks(ctx, category)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = category
	s.selected = NoSelection
	if err != nil {
		s.status = StatusEmpty
		s.tasks = nil
		s.lastErr = err
		s.log.Warn("Refresh failed", "category", category, "err", err)
		return err
	}
	s.status = StatusLoaded
	s.tasks = tasks
	s.lastErr = nil
	s.log.Debug("Refreshed", "category", category, "count", len(tasks))
	return nil
}

// Select moves the selection to index. It is a no-op, returning false,
// unless the view is Loaded and index is in range.
func (s *State) Select(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusLoaded || index < 0 || index >= len(s.tasks) {
		return false
	}
	s.selected = index
	return true
}

func (s *State) selectedTask() (models.Task, models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.status != StatusLoaded || s.selected < 0 || s.selected >= len(s.tasks) {
		return models.Task{}, s.category, ErrNoSelection
	}
	return s.tasks[s.selected], s.category, nil
}

// Score scores the selected task, then refreshes. The refresh happens
// whether or not the score call succeeded.
func (s *State) Score(ctx context.Context, dir models.Direction) (*models.ScoreResult, error) {
	s.op.Lock()
	defer s.op.Unlock()

	task, category, err := s.selectedTask()
	if err != nil {
		return nil, err
	}

	result, callErr := s.remote.ScoreTask(ctx, task.ID, dir)
	action := audit.ActionScoreUp
	if dir == models.DirectionDown {
		action = audit.ActionScoreDown
	}
	s.record(action, task.ID, map[string]string{"id": task.ID, "direction": string(dir)}, callErr)

	return result, errors.Join(callErr, s.refresh(ctx, category))
}

// Edit applies update to the selected task, then refreshes.
func (s *State) Edit(ctx context.Context, update models.TaskUpdate) error {
	s.op.Lock()
	defer s.op.Unlock()

	task, category, err := s.selectedTask()
	if err != nil {
		return err
	}

	_, callErr := s.remote.UpdateTask(ctx, task.ID, update)
	s.record(audit.ActionEdit, task.ID, update, callErr)

	return errors.Join(callErr, s.refresh(ctx, category))
}

// Delete removes the selected task, then refreshes.
func (s *State) Delete(ctx context.Context) error {
	s.op.Lock()
	defer s.op.Unlock()

	task, category, err := s.selectedTask()
	if err != nil {
		return err
	}

	callErr := s.remote.DeleteTask(ctx, task.ID)
	s.record(audit.ActionDelete, task.ID, map[string]string{"id": task.ID}, callErr)

	return errors.Join(callErr, s.refresh(ctx, category))
}

// CreateMany imports path through the configured importer, then refreshes
// exactly once. A file that cannot be parsed aborts the import with no
// remote call at all, leaving the view and selection untouched.
func (s *State) CreateMany(ctx context.Context, path string) (models.ImportSummary, error) {
	if s.importer == nil {
		return models.ImportSummary{Path: path}, ErrNoImporter
	}

	s.op.Lock()
	defer s.op.Unlock()

	s.mu.RLock()
	category := s.category
	s.mu.RUnlock()

	summary, importErr := s.importer.ImportFrom(ctx, path)
	s.record(audit.ActionImport, "", map[string]string{"path": path}, importErr)
	if importErr != nil {
		return summary, importErr
	}

	return summary, s.refresh(ctx, category)
}

func (s *State) record(action, taskID string, inputs any, err error) {
	if err != nil {
		s.log.Warn("Action failed", "action", action, "task", taskID, "err", err)
	}
	if s.recorder == nil {
		return
	}
	if _, rerr := s.recorder.Record(action, taskID, inputs, err); rerr != nil {
		s.log.Warn("Failed to record action", "action", action, "err", rerr)
	}
}
