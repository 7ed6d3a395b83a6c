// Package verify contains the pure interpretation of remote existence
// checks: how one result moves a record's failure counter and when the
// counter crossing the threshold triggers deletion.
package verify

import "github.com/example/driftwatch/internal/ports/secondary"

// Decision is the state change one verification result implies for one
// record. No I/O happens here; the executor applies it.
type Decision struct {
	Kind secondary.OutcomeKind
	// NewFailures is the counter after this attempt. It only ever moves
	// to exactly 0 (confirmed existence), up by 1 (confirmed absence),
	// or stays put (errored check).
	NewFailures int
	// Delete is set when the post-increment counter reaches the
	// threshold on a confirmed absence. An errored check at
	// threshold-1 never deletes.
	Delete bool
}

// Assess interprets a single verification result against a record's
// current consecutive-failure count.
func Assess(result secondary.VerificationResult, currentFailures, threshold int) Decision {
	if result.Err != "" {
		// Transient failure: the attempt counts for scheduling fairness
		// but never toward deletion.
		return Decision{Kind: secondary.OutcomeError, NewFailures: currentFailures}
	}
	if result.Exists {
		return Decision{Kind: secondary.OutcomeExists, NewFailures: 0}
	}
	next := currentFailures + 1
	return Decision{
		Kind:        secondary.OutcomeAbsent,
		NewFailures: next,
		Delete:      next >= threshold,
	}
}
