package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fentz26/habiterm/internal/audit"
	"github.com/fentz26/habiterm/internal/importer"
	"github.com/fentz26/habiterm/internal/logger"
	"github.com/fentz26/habiterm/internal/models"
	"github.com/fentz26/habiterm/internal/taskview"
	"github.com/fentz26/habiterm/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive TUI",
	RunE:  runTUI,
}

var startCategory string

func init() {
	tuiCmd.Flags().StringVar(&startCategory, "category", "todos", "Category shown at startup (habits, dailys, todos, rewards)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	category, err := models.ParseCategory(startCategory)
	if err != nil {
		return err
	}

	// The TUI owns the terminal; logs go to a file.
	out, closeLog := openLogFile(cfg.LogFile)
	defer closeLog()
	l := logger.New(&logger.Config{Level: cfg.LogLevel, Output: out, JSON: cfg.LogFormat == "json"})
	l.Info("Starting TUI", "category", category, "base_url", cfg.BaseURL)

	client := newAPIClient(l)
	viewOpts := []taskview.Option{taskview.WithLogger(l), taskview.WithCategory(category)}
	importOpts := []importer.Option{importer.WithLogger(l)}
	if s := openJournal(l); s != nil {
		defer s.Close()
		viewOpts = append(viewOpts, taskview.WithRecorder(audit.NewRecorder(s)))
		importOpts = append(importOpts, importer.WithJournal(s))
	}
	viewOpts = append(viewOpts, taskview.WithImporter(importer.New(client, importOpts...)))

	app := tui.New(taskview.New(client, viewOpts...), l)
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// openLogFile appends to path, falling back to discarding logs.
func openLogFile(path string) (io.Writer, func()) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { f.Close() }
}
