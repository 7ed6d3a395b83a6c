package verify

import (
	"testing"

	"github.com/example/driftwatch/internal/ports/secondary"
)

func TestAssess(t *testing.T) {
	tests := []struct {
		name            string
		result          secondary.VerificationResult
		currentFailures int
		threshold       int
		wantKind        secondary.OutcomeKind
		wantFailures    int
		wantDelete      bool
	}{
		{
			name:         "exists resets counter",
			result:       secondary.VerificationResult{RecordID: "R", Exists: true},
			currentFailures: 2, threshold: 3,
			wantKind: secondary.OutcomeExists, wantFailures: 0,
		},
		{
			name:         "absence increments counter",
			result:       secondary.VerificationResult{RecordID: "R", Exists: false},
			currentFailures: 0, threshold: 3,
			wantKind: secondary.OutcomeAbsent, wantFailures: 1,
		},
		{
			name:         "absence at threshold deletes",
			result:       secondary.VerificationResult{RecordID: "R", Exists: false},
			currentFailures: 2, threshold: 3,
			wantKind: secondary.OutcomeAbsent, wantFailures: 3, wantDelete: true,
		},
		{
			name:         "error leaves counter untouched",
			result:       secondary.VerificationResult{RecordID: "R", Err: "timeout"},
			currentFailures: 2, threshold: 3,
			wantKind: secondary.OutcomeError, wantFailures: 2,
		},
		{
			name:         "error at threshold minus one never deletes",
			result:       secondary.VerificationResult{RecordID: "R", Exists: false, Err: "rate limited"},
			currentFailures: 2, threshold: 3,
			wantKind: secondary.OutcomeError, wantFailures: 2,
		},
		{
			name:         "absence past threshold still deletes",
			result:       secondary.VerificationResult{RecordID: "R", Exists: false},
			currentFailures: 5, threshold: 3,
			wantKind: secondary.OutcomeAbsent, wantFailures: 6, wantDelete: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Assess(tt.result, tt.currentFailures, tt.threshold)
			if d.Kind != tt.wantKind {
				t.Errorf("kind: expected %v, got %v", tt.wantKind, d.Kind)
			}
			if d.NewFailures != tt.wantFailures {
				t.Errorf("failures: expected %d, got %d", tt.wantFailures, d.NewFailures)
			}
			if d.Delete != tt.wantDelete {
				t.Errorf("delete: expected %v, got %v", tt.wantDelete, d.Delete)
			}
		})
	}
}
