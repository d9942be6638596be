package model

import "fmt"

// Outcome classifies a finished acquisition.
type Outcome string

const (
	// OutcomeSuccess means the track was downloaded and verified.
	OutcomeSuccess Outcome = "Success"

	// OutcomeSkipped means a matching file already existed locally.
	OutcomeSkipped Outcome = "Skipped"

	// OutcomeFailed means all attempts were exhausted or the track was
	// rejected by policy (preview, geo restriction).
	OutcomeFailed Outcome = "Failed"
)

// String returns the string representation of Outcome.
func (o Outcome) String() string {
	return string(o)
}

// IsFailure returns true if the outcome counts against the run.
func (o Outcome) IsFailure() bool {
	return o == OutcomeFailed
}

// AcquireResult is the single result produced for one track. It is created
// once by the worker that ran the track and read only by the aggregation
// loop afterwards.
type AcquireResult struct {
	ID            string // job ID, time-ordered
	Index         int    // 1-based position in the run
	Total         int
	Outcome       Outcome
	GeoRestricted bool // subset of failures, tallied separately
	Message       string
}

// Line formats the user-facing outcome line for this track.
func (r *AcquireResult) Line() string {
	return fmt.Sprintf("[%d/%d] %s", r.Index, r.Total, r.Message)
}

// RunStats accumulates run totals. It is owned exclusively by the single
// goroutine draining completed results and must not be shared with workers.
type RunStats struct {
	Successful    int
	Skipped       int
	Failed        int
	GeoRestricted int
	Total         int
}

// Add folds one result into the totals.
func (s *RunStats) Add(r *AcquireResult) {
	switch r.Outcome {
	case OutcomeSuccess:
		s.Successful++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
		if r.GeoRestricted {
			s.GeoRestricted++
		}
	}
}

// Summary formats the final tally line.
func (s *RunStats) Summary() string {
	return fmt.Sprintf("downloaded: %d, skipped: %d, failed: %d, total: %d",
		s.Successful, s.Skipped, s.Failed, s.Total)
}
