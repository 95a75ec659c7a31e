package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want charmlog.Level
	}{
		{"debug", charmlog.DebugLevel},
		{"INFO", charmlog.InfoLevel},
		{"warn", charmlog.WarnLevel},
		{"warning", charmlog.WarnLevel},
		{"error", charmlog.ErrorLevel},
		{"bogus", charmlog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: "warn", Output: &buf})

	l.Info("hidden")
	l.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Errorf("expected warn message with fields, got %q", out)
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: "debug", Output: &buf})
	ctx := ContextWithLogger(context.Background(), l)

	FromContext(ctx).Debug("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("expected message through context logger, got %q", buf.String())
	}

	// No logger attached: must not panic.
	FromContext(context.Background()).Info("dropped")
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: "info", Output: &buf, JSON: true})

	l.Info("imported", "count", 3)
	out := buf.String()
	if !strings.HasPrefix(strings.TrimSpace(out), "{") || !strings.Contains(out, `"msg"`) || !strings.Contains(out, "imported") {
		t.Errorf("expected JSON line, got %q", out)
	}
}
