package replay

import "github.com/MKhiriev/go-vault-sync/models"

// Consistency issue kinds reported by VerifyConsistency.
const (
	IssueMissingFile  = "missing_file"
	IssueHashMismatch = "hash_mismatch"
	IssueReadError    = "read_error"
)

// Result summarizes one ApplyEvents call.
type Result struct {
	// Applied counts events that were applied, including those whose effect
	// was already present.
	Applied int
	// Skipped counts events applied earlier and metadata events for unknown
	// documents.
	Skipped   int
	Conflicts []models.ConflictRecord
	Errors    []EventError
	// AppliedEvents lists the applied events in application order.
	AppliedEvents []models.Event
}

// Merge folds other into r.
func (r *Result) Merge(other Result) {
	r.Applied += other.Applied
	r.Skipped += other.Skipped
	r.Conflicts = append(r.Conflicts, other.Conflicts...)
	r.Errors = append(r.Errors, other.Errors...)
	r.AppliedEvents = append(r.AppliedEvents, other.AppliedEvents...)
}

// HasErrors reports whether any event failed.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

type outcome int

const (
	outcomeApplied outcome = iota
	outcomeSkipped
	outcomeConflict
)
