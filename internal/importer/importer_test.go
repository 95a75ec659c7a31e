package importer

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fentz26/habiterm/internal/models"
	"github.com/fentz26/habiterm/internal/store"
)

// mockCreator records every submission and fails the texts listed in fail.
type mockCreator struct {
	mu    sync.Mutex
	calls []models.NormalizedTaskRequest
	fail  map[string]bool
}

func (m *mockCreator) CreateTask(ctx context.Context, text string, taskType models.TaskType, notes string, priority float64) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, models.NormalizedTaskRequest{Text: text, Type: taskType})
	if m.fail[text] {
		return nil, errors.New("rejected")
	}
	return &models.Task{ID: "id-" + text, Text: text, Type: taskType, Priority: priority}, nil
}

func TestImportFromCSV(t *testing.T) {
	path := writeFile(t, "tasks.csv", "Task Name,Type\nA,todo\nB,Habit\n   ,todo\nC,daily\n")
	creator := &mockCreator{}
	im := New(creator)

	summary, err := im.ImportFrom(context.Background(), path)
	if err != nil {
		t.Fatalf("ImportFrom failed: %v", err)
	}
	if summary.Attempted != 3 || summary.Succeeded != 3 || summary.Dropped != 1 {
		t.Errorf("Unexpected summary: %+v", summary)
	}
	if summary.Format != string(FormatCSV) {
		t.Errorf("Expected csv format, got %q", summary.Format)
	}

	want := []models.NormalizedTaskRequest{
		{Text: "A", Type: models.TaskTypeTodo},
		{Text: "B", Type: models.TaskTypeHabit},
		{Text: "C", Type: models.TaskTypeDaily},
	}
	if len(creator.calls) != len(want) {
		t.Fatalf("Expected %d create calls, got %d", len(want), len(creator.calls))
	}
	for i := range want {
		if creator.calls[i] != want[i] {
			t.Errorf("call %d = %+v, want %+v", i, creator.calls[i], want[i])
		}
	}
}

func TestImportFromContinuesPastFailures(t *testing.T) {
	path := writeFile(t, "todo.md", "- [ ] one\n- [ ] two\n- [ ] three\n- [ ] four\n")
	creator := &mockCreator{fail: map[string]bool{"two": true, "four": true}}
	im := New(creator)

	summary, err := im.ImportFrom(context.Background(), path)
	if err != nil {
		t.Fatalf("ImportFrom failed: %v", err)
	}
	if len(creator.calls) != 4 {
		t.Errorf("Expected 4 create calls, got %d", len(creator.calls))
	}
	if summary.Attempted != 4 || summary.Succeeded != 2 || summary.Failed != 2 {
		t.Errorf("Unexpected summary: %+v", summary)
	}
}

func TestImportFromParseFailureSubmitsNothing(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"missing":     filepath.Join(dir, "nope.csv"),
		"unsupported": writeFile(t, "tasks.txt", "hello"),
		"malformed":   writeFile(t, "tasks.yaml", "text: not a list\n"),
	}

	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			creator := &mockCreator{}
			summary, err := New(creator).ImportFrom(context.Background(), path)
			if err == nil {
				t.Fatal("Expected error")
			}
			if len(creator.calls) != 0 {
				t.Errorf("Expected no create calls, got %d", len(creator.calls))
			}
			if summary.Attempted != 0 {
				t.Errorf("Expected zero attempted, got %d", summary.Attempted)
			}
		})
	}
}

func TestImportFromEmptyYAML(t *testing.T) {
	path := writeFile(t, "tasks.yaml", "[]\n")
	creator := &mockCreator{}

	summary, err := New(creator).ImportFrom(context.Background(), path)
	if err != nil {
		t.Fatalf("ImportFrom failed: %v", err)
	}
	if summary.Attempted != 0 || len(creator.calls) != 0 {
		t.Errorf("Expected nothing submitted, got %+v with %d calls", summary, len(creator.calls))
	}
}

func TestImportFromJournal(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	path := writeFile(t, "tasks.yml", "- text: Stretch\n  type: habit\n- text: Nap\n- notes: no text\n")
	creator := &mockCreator{fail: map[string]bool{"Nap": true}}
	im := New(creator, WithJournal(s))

	summary, err := im.ImportFrom(context.Background(), path)
	if err != nil {
		t.Fatalf("ImportFrom failed: %v", err)
	}
	if summary.ID == "" {
		t.Fatal("Expected journal run ID")
	}

	runs, err := s.ListImportRuns(10)
	if err != nil {
		t.Fatalf("ListImportRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if run.ID != summary.ID || run.Format != string(FormatYAML) {
		t.Errorf("Unexpected run: %+v", run)
	}
	if run.Attempted != 2 || run.Succeeded != 1 || run.Failed != 1 || run.Dropped != 1 {
		t.Errorf("Unexpected run counts: %+v", run)
	}
	if run.EndedAt == nil {
		t.Error("Expected run to be finished")
	}
}

func TestPlan(t *testing.T) {
	path := writeFile(t, "todo.md", "- [ ] keep\n- [ ]   \n- [x] done\n")

	reqs, dropped, err := Plan(path)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(reqs) != 1 || reqs[0].Text != "keep" {
		t.Errorf("Unexpected requests: %+v", reqs)
	}
	if dropped != 1 {
		t.Errorf("Expected 1 dropped, got %d", dropped)
	}
}
