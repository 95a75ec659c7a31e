// Package store provides the SQLite-backed local journal for habiterm:
// import runs and an audit trail of task mutations.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/fentz26/habiterm/internal/models"
)

// Store provides access to the habiterm SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS import_runs (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		format TEXT NOT NULL,
		attempted INTEGER NOT NULL DEFAULT 0,
		succeeded INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		dropped INTEGER NOT NULL DEFAULT 0,
		started_at DATETIME NOT NULL,
		ended_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS actions (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		task_id TEXT,
		inputs_hash TEXT NOT NULL,
		outcome TEXT NOT NULL,
		details TEXT,
		timestamp DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_import_runs_started_at ON import_runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_actions_timestamp ON actions(timestamp);
	`

	_, err := s.db.Exec(schema)
	return err
}

// --- Import Runs ---

// CreateImportRun records the start of an import.
func (s *Store) CreateImportRun(path, format string) (*models.ImportRun, error) {
	run := &models.ImportRun{
		ID:        uuid.New().String(),
		Path:      path,
		Format:    format,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO import_runs (id, path, format, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Path, run.Format, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert import run: %w", err)
	}
	return run, nil
}

// FinishImportRun stores the final counts of an import.
func (s *Store) FinishImportRun(id string, summary models.ImportSummary) error {
	res, err := s.db.Exec(
		`UPDATE import_runs SET attempted = ?, succeeded = ?, failed = ?, dropped = ?, ended_at = ? WHERE id = ?`,
		summary.Attempted, summary.Succeeded, summary.Failed, summary.Dropped, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update import run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("import run %s not found", id)
	}
	return nil
}

// ListImportRuns returns the most recent imports first.
func (s *Store) ListImportRuns(limit int) ([]models.ImportRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, path, format, attempted, succeeded, failed, dropped, started_at, ended_at
		 FROM import_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query import runs: %w", err)
	}
	defer rows.Close()

	var runs []models.ImportRun
	for rows.Next() {
		var run models.ImportRun
		var endedAt sql.NullTime
		if err := rows.Scan(&run.ID, &run.Path, &run.Format, &run.Attempted, &run.Succeeded, &run.Failed, &run.Dropped, &run.StartedAt, &endedAt); err != nil {
			return nil, fmt.Errorf("scan import run: %w", err)
		}
		if endedAt.Valid {
			run.EndedAt = &endedAt.Time
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// --- Actions ---

// WriteAction writes an audit entry for a task mutation.
func (s *Store) WriteAction(action, taskID, inputsHash, outcome, details string) (*models.ActionRecord, error) {
	rec := &models.ActionRecord{
		ID:         uuid.New().String(),
		Action:     action,
		TaskID:     taskID,
		InputsHash: inputsHash,
		Outcome:    outcome,
		Details:    details,
		Timestamp:  time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO actions (id, action, task_id, inputs_hash, outcome, details, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Action, rec.TaskID, rec.InputsHash, rec.Outcome, rec.Details, rec.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert action: %w", err)
	}
	return rec, nil
}

// ListActions returns the most recent audit entries first.
func (s *Store) ListActions(limit int) ([]models.ActionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, action, task_id, inputs_hash, outcome, details, timestamp
		 FROM actions ORDER BY timestamp DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	var recs []models.ActionRecord
	for rows.Next() {
		var rec models.ActionRecord
		var taskID, details sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Action, &taskID, &rec.InputsHash, &rec.Outcome, &details, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		rec.TaskID = taskID.String
		rec.Details = details.String
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
