package importer

import (
	"context"
	"path/filepath"

	"github.com/fentz26/habiterm/internal/logger"
	"github.com/fentz26/habiterm/internal/models"
)

// Creator submits one task to the remote service.
type Creator interface {
	CreateTask(ctx context.Context, text string, taskType models.TaskType, notes string, priority float64) (*models.Task, error)
}

// Journal records import runs.
type Journal interface {
	CreateImportRun(path, format string) (*models.ImportRun, error)
	FinishImportRun(id string, summary models.ImportSummary) error
}

// Importer drives parse, normalize and submit for one file at a time.
type Importer struct {
	creator Creator
	journal Journal
	log     logger.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithJournal records every run in j.
func WithJournal(j Journal) Option {
	return func(im *Importer) { im.journal = j }
}

// WithLogger sets the importer logger.
func WithLogger(l logger.Logger) Option {
	return func(im *Importer) { im.log = l }
}

// New creates an Importer submitting through c.
func New(c Creator, opts ...Option) *Importer {
	im := &Importer{creator: c, log: logger.Discard()}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Plan parses and normalizes path without submitting anything.
func Plan(path string) (reqs []models.NormalizedTaskRequest, dropped int, err error) {
	records, err := Parse(path)
	if err != nil {
		return nil, 0, err
	}
	for _, rec := range records {
		req, ok := Normalize(rec)
		if !ok {
			dropped++
			continue
		}
		reqs = append(reqs, req)
	}
	return reqs, dropped, nil
}

// ImportFrom parses path and submits every normalized record, one at a time.
// A parse failure aborts before anything is submitted. Individual submission
// failures do not stop the batch; they are counted in Failed.
func (im *Importer) ImportFrom(ctx context.Context, path string) (models.ImportSummary, error) {
	summary := models.ImportSummary{Path: path}

	reqs, dropped, err := Plan(path)
	if err != nil {
		im.log.Warn("Import aborted", "path", path, "err", err)
		return summary, err
	}
	format, _ := DetectFormat(path)
	summary.Format = string(format)
	summary.Dropped = dropped

	runID := im.startRun(path, summary.Format)
	summary.ID = runID

	for _, req := range reqs {
		summary.Attempted++
		_, err := im.creator.CreateTask(ctx, req.Text, req.Type, "", models.DefaultPriority)
		if err != nil {
			summary.Failed++
			im.log.Warn("Import item failed", "path", filepath.Base(path), "text", req.Text, "err", err)
			continue
		}
		summary.Succeeded++
	}

	im.finishRun(runID, summary)
	im.log.Info("Import finished", "path", path, "attempted", summary.Attempted,
		"succeeded", summary.Succeeded, "failed", summary.Failed, "dropped", summary.Dropped)
	return summary, nil
}

func (im *Importer) startRun(path, format string) string {
	if im.journal == nil {
		return ""
	}
	run, err := im.journal.CreateImportRun(path, format)
	if err != nil {
		im.log.Warn("Failed to journal import", "err", err)
		return ""
	}
	return run.ID
}

func (im *Importer) finishRun(id string, summary models.ImportSummary) {
	if im.journal == nil || id == "" {
		return
	}
	if err := im.journal.FinishImportRun(id, summary); err != nil {
		im.log.Warn("Failed to journal import result", "id", id, "err", err)
	}
}
