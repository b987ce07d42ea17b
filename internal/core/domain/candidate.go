package domain

import "sort"

// CandidateSource identifies the strategy that produced a title candidate.
type CandidateSource string

// Candidate sources in declared priority order.
const (
	// SourceMetadata is the document's declared title field.
	SourceMetadata CandidateSource = "metadata"

	// SourceLayout is a heading inferred from first-page text layout.
	SourceLayout CandidateSource = "layout-heuristic"

	// SourceFilename is the original filename stem.
	SourceFilename CandidateSource = "filename-fallback"
)

// Priority returns the tie-break rank of the source. Lower wins.
func (s CandidateSource) Priority() int {
	switch s {
	case SourceMetadata:
		return 0
	case SourceLayout:
		return 1
	case SourceFilename:
		return 2
	default:
		return 3
	}
}

// IsValid returns true if the source is recognised.
func (s CandidateSource) IsValid() bool {
	return s.Priority() < 3
}

// String returns the string representation.
func (s CandidateSource) String() string {
	return string(s)
}

// Candidate is a proposed title string, not yet finalised.
type Candidate struct {
	// Text is the raw title text before sanitisation.
	Text string

	// Source is the strategy that produced the candidate.
	Source CandidateSource

	// Score ranks candidates. Higher wins.
	Score float64
}

// SortCandidates orders candidates by descending score, breaking ties by
// source priority. The sort is stable so equal candidates keep their order.
func SortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Source.Priority() < candidates[j].Source.Priority()
	})
}
