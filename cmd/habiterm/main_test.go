package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fentz26/habiterm/internal/config"
	"github.com/fentz26/habiterm/internal/habitica/habiticatest"
	"github.com/fentz26/habiterm/internal/models"
)

// setupEnv points configuration at a fake server and a temp home.
func setupEnv(t *testing.T) *habiticatest.Server {
	t.Helper()
	home := t.TempDir()
	srv := habiticatest.New("user-1", "token-1")
	t.Cleanup(srv.Close)

	t.Setenv("HOME", home)
	t.Setenv(config.EnvUserID, "user-1")
	t.Setenv(config.EnvAPIToken, "token-1")
	t.Setenv(config.EnvBaseURL, srv.URL())
	t.Setenv(config.EnvDB, filepath.Join(home, "habiterm.db"))
	t.Setenv(config.EnvLogLevel, "error")
	return srv
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "missing.env")))
	err = rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestTaskListAndScore(t *testing.T) {
	srv := setupEnv(t)
	seeded := srv.Seed(
		models.Task{Text: "Write report", Type: models.TaskTypeTodo, Priority: 1, Value: 2},
		models.Task{Text: "Morning run", Type: models.TaskTypeDaily, Priority: 1.5},
	)

	out, _, err := execute(t, "task", "list", "--type", "todos")
	if err != nil {
		t.Fatalf("task list: %v", err)
	}
	if !strings.Contains(out, seeded[0].ID) || !strings.Contains(out, "Write report") {
		t.Errorf("list output missing todo:\n%s", out)
	}
	if strings.Contains(out, "Morning run") {
		t.Errorf("list --type todos should not show dailys:\n%s", out)
	}

	out, _, err = execute(t, "task", "score", seeded[0].ID, "down")
	if err != nil {
		t.Fatalf("task score: %v", err)
	}
	if !strings.Contains(out, "Scored down") {
		t.Errorf("unexpected score output: %s", out)
	}
	if got := srv.CountCalls("POST", "/tasks/"+seeded[0].ID+"/score/down"); got != 1 {
		t.Errorf("expected 1 score call, got %d", got)
	}

	out, _, err = execute(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "score_down") {
		t.Errorf("history should list the score action:\n%s", out)
	}
}

func TestTaskEditRequiresAFlag(t *testing.T) {
	srv := setupEnv(t)
	seeded := srv.Seed(models.Task{Text: "Old", Type: models.TaskTypeTodo, Priority: 1})

	if _, _, err := execute(t, "task", "edit", seeded[0].ID); err == nil {
		t.Fatal("expected error for edit without flags")
	}

	out, _, err := execute(t, "task", "edit", seeded[0].ID, "--text", "New")
	if err != nil {
		t.Fatalf("task edit: %v", err)
	}
	if !strings.Contains(out, "New") {
		t.Errorf("unexpected edit output: %s", out)
	}
	if got := srv.Tasks()[0].Text; got != "New" {
		t.Errorf("expected text New, got %q", got)
	}
}

func TestImportCommand(t *testing.T) {
	srv := setupEnv(t)
	path := filepath.Join(t.TempDir(), "list.md")
	if err := os.WriteFile(path, []byte("- [ ] One\n- [x] Done\n- [ ] Two\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, "import", path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "Imported 2 tasks") {
		t.Errorf("unexpected import output: %s", out)
	}
	if got := srv.CountCalls("POST", "/tasks/user"); got != 2 {
		t.Errorf("expected 2 create calls, got %d", got)
	}
}

func TestImportDryRunNeedsNoCredentials(t *testing.T) {
	srv := setupEnv(t)
	t.Setenv(config.EnvUserID, "")
	t.Setenv(config.EnvAPIToken, "")

	path := filepath.Join(t.TempDir(), "tasks.csv")
	if err := os.WriteFile(path, []byte("Task Name,Type\nStretch,daily\n,todo\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, "import", "--dry-run", path)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !strings.Contains(out, "1 tasks would be created, 1 skipped") {
		t.Errorf("unexpected dry run output: %s", out)
	}
	if n := len(srv.Calls()); n != 0 {
		t.Errorf("dry run made %d remote calls", n)
	}
}

func TestMissingCredentialsExits(t *testing.T) {
	setupEnv(t)
	t.Setenv(config.EnvAPIToken, "")

	code := -1
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = os.Exit })

	_, stderr, err := execute(t, "task", "list")
	if err == nil {
		t.Fatal("expected error")
	}
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr, config.EnvAPIToken) {
		t.Errorf("stderr should name the missing variable: %s", stderr)
	}
}

func TestTaskAddIsJournaled(t *testing.T) {
	srv := setupEnv(t)

	out, _, err := execute(t, "task", "add", "--text", "Walk the dog", "--type", "habit")
	if err != nil {
		t.Fatalf("task add: %v", err)
	}
	if !strings.Contains(out, "Created task") {
		t.Errorf("unexpected add output: %s", out)
	}
	tasks := srv.Tasks()
	if len(tasks) != 1 || tasks[0].Type != models.TaskTypeHabit {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}

	out, _, err = execute(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "create") || !strings.Contains(out, tasks[0].ID) {
		t.Errorf("history should list the create action:\n%s", out)
	}
}

func TestCommandLoggerFromContext(t *testing.T) {
	setupEnv(t)
	t.Setenv(config.EnvLogLevel, "debug")
	t.Setenv(config.EnvLogFormat, "json")

	_, stderr, err := execute(t, "task", "list")
	if err != nil {
		t.Fatalf("task list: %v", err)
	}
	if !strings.Contains(stderr, `"msg"`) || !strings.Contains(stderr, "API request completed") {
		t.Errorf("expected JSON debug logs on stderr, got %q", stderr)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer line of text", 10, "a longe..."},
		{"🐕🐕🐕🐕🐕🐕", 5, "🐕🐕..."},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.n)
		}
	}
}
