package main

import (
	"fmt"

	"github.com/fentz26/habiterm/internal/audit"
	"github.com/fentz26/habiterm/internal/habitica"
	"github.com/fentz26/habiterm/internal/logger"
	"github.com/fentz26/habiterm/internal/store"
)

// newAPIClient builds the one Habitica client used by a command.
func newAPIClient(l logger.Logger) *habitica.Client {
	return habitica.NewClient(cfg.UserID, cfg.APIToken,
		habitica.WithBaseURL(cfg.BaseURL),
		habitica.WithTimeout(cfg.Timeout),
		habitica.WithLogger(l),
	)
}

// openStore opens the local journal.
func openStore() (*store.Store, error) {
	s, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", cfg.DBPath, err)
	}
	return s, nil
}

// openJournal opens the journal for commands that can run without it.
// It returns nil, logging why, when the database is unavailable.
func openJournal(l logger.Logger) *store.Store {
	s, err := openStore()
	if err != nil {
		l.Warn("Journal disabled", "err", err)
		return nil
	}
	return s
}

// recordAction journals a task mutation when a journal is open.
func recordAction(l logger.Logger, s *store.Store, action, taskID string, inputs any, err error) {
	if s == nil {
		return
	}
	if _, rerr := audit.NewRecorder(s).Record(action, taskID, inputs, err); rerr != nil {
		l.Warn("Failed to record action", "action", action, "err", rerr)
	}
}
