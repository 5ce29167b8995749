package storage

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/kalambet/mercuryprefs/internal/settings"
)

// Recorder writes a snapshot for every persisted settings change.
type Recorder struct {
	store  *Store
	keep   int
	logger *slog.Logger
}

// NewRecorder returns a recorder that keeps at most keep snapshots.
// keep <= 0 disables pruning.
func NewRecorder(store *Store, keep int, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, keep: keep, logger: logger}
}

// Record is a settings.Listener. Documents identical to the newest snapshot
// are not stored again.
func (r *Recorder) Record(c settings.Change) {
	doc := string(c.Document)
	if latest, err := r.store.LatestDocument(); err == nil && latest == doc {
		return
	}

	snap := Snapshot{ID: uuid.New().String(), Reason: c.Reason, Document: doc}
	if err := r.store.SaveSnapshot(snap); err != nil {
		r.logger.Warn("history: saving snapshot failed", "reason", c.Reason, "error", err)
		return
	}
	if r.keep <= 0 {
		return
	}
	if n, err := r.store.PruneSnapshots(r.keep); err != nil {
		r.logger.Warn("history: pruning failed", "error", err)
	} else if n > 0 {
		r.logger.Debug("history: pruned snapshots", "count", n)
	}
}
