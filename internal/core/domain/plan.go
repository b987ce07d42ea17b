package domain

// RenamePlan is the resolved target for one document.
// It is created before any disk mutation and is consumed by both
// execution and preview.
type RenamePlan struct {
	// Index is the position of the document in the run's input list.
	Index int

	// Document is the planned document.
	Document Document

	// Candidate is the candidate the final name was derived from.
	Candidate Candidate

	// Candidates holds every candidate produced, in ranked order.
	Candidates []Candidate

	// FinalName is the resolved filename including extension.
	FinalName string

	// FinalPath is the absolute target path.
	FinalPath string

	// ConflictSuffix is the numeric suffix appended to resolve a
	// collision, or 0 when the name was accepted as-is.
	ConflictSuffix int

	// ExtractionErr records a recoverable extraction failure.
	// The plan then falls back to the filename candidate.
	ExtractionErr error
}

// OriginalPath returns the document's input path.
func (p RenamePlan) OriginalPath() string {
	return p.Document.Path
}

// Unchanged returns true if the plan targets the document's current path.
func (p RenamePlan) Unchanged() bool {
	return p.FinalPath == p.Document.Path
}
