// Package primary defines the primary ports (driving interfaces) for the application.
package primary

import "context"

// SweepService defines the primary port for verification sweeps.
// A sweep selects records due for verification, partitions them into
// per-origin batches, and verifies each batch against its remote source,
// deleting records confirmed gone repeatedly.
type SweepService interface {
	// Run executes one full sweep cycle: select, group, dispatch.
	// Groups run concurrently with bounded parallelism; a failed or
	// timed-out group leaves its records due for the next cycle.
	Run(ctx context.Context, req SweepRequest) (*SweepSummary, error)

	// VerifyGroup verifies one batch of records that share a source type
	// and batch key. It is the independent unit of work Run dispatches,
	// exposed so callers can re-drive a single group.
	VerifyGroup(ctx context.Context, sourceType, batchKey string, recordIDs []string) *GroupReport
}

// SweepRequest carries per-run overrides; zero values fall back to
// configuration.
type SweepRequest struct {
	BatchSize   int
	SourceTypes []string
}

// Sweep status constants.
const (
	SweepStatusNoItems    = "no_items"
	SweepStatusDispatched = "dispatched"
)

// Group report status constants.
const (
	GroupStatusCompleted = "completed"
	GroupStatusError     = "error"
)

// SweepSummary is the run-level report returned by Run.
type SweepSummary struct {
	RunID      string
	Status     string // no_items | dispatched
	TotalItems int
	Groups     int
	// Unkeyed counts records whose batch key could not be derived; they
	// are reported, never silently dropped.
	Unkeyed int
	Units   []*GroupReport
}

// GroupReport is the per-group aggregate produced by VerifyGroup.
// It is observability output, not persisted state.
type GroupReport struct {
	Status     string // completed | error
	SourceType string
	BatchKey   string
	Verified   int // confirmed present, counter reset
	Orphaned   int // confirmed absent, counter advanced
	Errors     int // check failed, counter untouched
	Deleted    int // crossed the failure threshold and was removed
}
