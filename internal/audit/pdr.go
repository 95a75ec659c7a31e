// Package audit records task mutations to the local journal.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/fentz26/habiterm/internal/models"
	"github.com/fentz26/habiterm/internal/store"
)

// Action names written to the journal.
const (
	ActionCreate    = "create"
	ActionScoreUp   = "score_up"
	ActionScoreDown = "score_down"
	ActionEdit      = "edit"
	ActionDelete    = "delete"
	ActionImport    = "import"
)

// Outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Recorder writes audit entries for state-mutating actions.
type Recorder struct {
	store *store.Store
}

// NewRecorder creates a new recorder.
func NewRecorder(s *store.Store) *Recorder {
	return &Recorder{store: s}
}

// Record writes an entry. A nil error means outcome "ok"; otherwise the
// error text becomes the details.
func (r *Recorder) Record(action, taskID string, inputs any, err error) (*models.ActionRecord, error) {
	outcome, details := OutcomeOK, ""
	if err != nil {
		outcome, details = OutcomeError, err.Error()
	}
	return r.store.WriteAction(action, taskID, hashInputs(inputs), outcome, details)
}

// hashInputs creates a SHA256 hash of the inputs for reproducibility.
func hashInputs(inputs any) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
