package metrics

import (
	"log/slog"

	"github.com/google/uuid"
)

// RunID tags every progress/summary line emitted by one invocation, so
// lines from concurrent runs sharing a log aggregator can be told apart —
// spec section 5 gives no cross-thread output-ordering guarantee within a
// run, let alone across runs sharing a destination.
type RunID string

// NewRunID generates a fresh run identifier.
func NewRunID() RunID { return RunID(uuid.NewString()) }

// Logger returns logger with a "run_id" attribute bound, so every line it
// emits downstream (slog.Logger.With composes additively) carries it.
func (id RunID) Logger(logger *slog.Logger) *slog.Logger {
	return logger.With("run_id", string(id))
}
