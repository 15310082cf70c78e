package domain

import "time"

// HistoryAction names the command that produced a history entry.
type HistoryAction string

// Recorded actions.
const (
	HistoryInit  HistoryAction = "init"
	HistoryLock  HistoryAction = "lock"
	HistoryCheck HistoryAction = "check"
)

// HistoryEntry records the outcome of one init, lock, or check run.
type HistoryEntry struct {
	// ID is the unique identifier of the run.
	ID string

	// Action is the command that ran.
	Action HistoryAction

	// RecordedAt is when the run finished.
	RecordedAt time.Time

	// Digest is the snapshot digest of the parsed requirements.
	Digest string

	// Requirements is the number of parsed requirements.
	Requirements int

	// Added, Removed and Changed are diff sizes against the lockfile.
	Added   int
	Removed int
	Changed int

	// Success indicates whether the run completed without error.
	Success bool

	// Error contains the error message if Success is false.
	Error string
}
