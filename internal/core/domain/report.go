package domain

import "time"

// RunMode selects whether a run mutates the filesystem.
type RunMode string

// Available run modes.
const (
	// ModePreview computes every plan without touching disk.
	ModePreview RunMode = "preview"

	// ModeExecute backs up (optionally) and renames.
	ModeExecute RunMode = "execute"

	// ModeUndo reverts a previous execute run.
	ModeUndo RunMode = "undo"
)

// IsValid returns true if the mode is recognised.
func (m RunMode) IsValid() bool {
	switch m {
	case ModePreview, ModeExecute, ModeUndo:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m RunMode) String() string {
	return string(m)
}

// OutcomeStatus is the terminal state of one document in a run.
type OutcomeStatus string

// Outcome statuses.
const (
	StatusSuccess OutcomeStatus = "success"
	StatusSkipped OutcomeStatus = "skipped"
	StatusFailed  OutcomeStatus = "failed"
)

// String returns the string representation.
func (s OutcomeStatus) String() string {
	return string(s)
}

// Outcome records what happened to one document.
type Outcome struct {
	// Index is the position of the document in the input list.
	Index int

	// OriginalPath is the input path.
	OriginalPath string

	// FinalPath is the resolved target, empty when none was produced.
	FinalPath string

	// Status is the terminal state.
	Status OutcomeStatus

	// Reason explains a skipped or failed outcome.
	Reason string

	// Source is the provenance of the chosen title.
	Source CandidateSource

	// Title is the chosen candidate text before sanitisation.
	Title string

	// ConflictSuffix is the collision suffix applied, 0 if none.
	ConflictSuffix int

	// BackupPath is where the original was copied, if backed up.
	BackupPath string

	// Duration is the time spent on the document.
	Duration time.Duration
}

// Progress is emitted after each document reaches a terminal or
// intermediate state so callers can render progress.
type Progress struct {
	// Phase is "plan" or "execute".
	Phase string

	// Completed is the number of documents finished in this phase.
	Completed int

	// Total is the number of documents in the run.
	Total int

	// Outcome is the outcome of the document that just finished.
	Outcome Outcome
}

// RunReport is the ordered sequence of per-document outcomes of one run.
// Outcomes are placed by input index, never by completion order.
type RunReport struct {
	// ID uniquely identifies the run.
	ID string

	// Mode is the mode the run was executed in.
	Mode RunMode

	// Settings is the configuration the run used.
	Settings RenameSettings

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is when the run completed.
	FinishedAt time.Time

	// Outcomes holds one entry per input path, in input order.
	Outcomes []Outcome
}

// Stats summarises a report.
type Stats struct {
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
	Duration  time.Duration
}

// SuccessRate returns succeeded/total, or 0 for an empty run.
func (s Stats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Total)
}

// Stats computes the summary counts for the report.
func (r *RunReport) Stats() Stats {
	st := Stats{Total: len(r.Outcomes)}
	for i := range r.Outcomes {
		switch r.Outcomes[i].Status {
		case StatusSuccess:
			st.Succeeded++
		case StatusSkipped:
			st.Skipped++
		case StatusFailed:
			st.Failed++
		}
	}
	if !r.FinishedAt.IsZero() && r.FinishedAt.After(r.StartedAt) {
		st.Duration = r.FinishedAt.Sub(r.StartedAt)
	}
	return st
}

// FinalPaths returns the final path of every outcome, in input order.
func (r *RunReport) FinalPaths() []string {
	paths := make([]string, len(r.Outcomes))
	for i := range r.Outcomes {
		paths[i] = r.Outcomes[i].FinalPath
	}
	return paths
}

// RunSummary is a lightweight view of a persisted run for listings.
type RunSummary struct {
	ID         string
	Mode       RunMode
	StartedAt  time.Time
	FinishedAt time.Time
	Stats      Stats
}
