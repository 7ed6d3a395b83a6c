// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// RecordRepository defines the secondary port for mirrored-record persistence.
// The verification engine owns last_verified_at and verification_failures;
// everything else on a record belongs to the ingestion side and is read-only here.
type RecordRepository interface {
	// SelectDue retrieves records due for verification, up to limit.
	// Never-verified records come first (tie-broken by source type so they
	// group naturally), then the stalest last_verified_at. A record is due
	// when it has never been verified or its last attempt is older than
	// recheckAfter. Selection has no side effects.
	SelectDue(ctx context.Context, limit int, recheckAfter time.Duration, sourceTypes []string) ([]*RecordRow, error)

	// GetByIDs re-fetches records by id. Missing ids are silently omitted;
	// a record deleted between selection and execution is not an error.
	GetByIDs(ctx context.Context, ids []string) ([]*RecordRow, error)

	// ApplyOutcomes commits verification outcomes for one batch in a single
	// transaction: every outcome updates last_verified_at, confirmed
	// existence resets the failure counter, confirmed absence increments it.
	ApplyOutcomes(ctx context.Context, outcomes []VerificationOutcome) error

	// Delete removes a record and its dependent rows (chunks, attachments).
	Delete(ctx context.Context, id string) error

	// List retrieves records matching the given filters.
	List(ctx context.Context, filters RecordFilters) ([]*RecordRow, error)

	// GetByID retrieves a single record.
	GetByID(ctx context.Context, id string) (*RecordRow, error)

	// CountByState returns per-source-type verification state counts.
	CountByState(ctx context.Context, recheckAfter time.Duration) ([]*SourceTypeCounts, error)
}

// RecordRow represents a mirrored record as stored in persistence.
type RecordRow struct {
	ID          string
	OriginID    string // empty when the owning origin reference is gone
	SourceType  string
	RemoteUID   string
	Title       string
	ContentHash string
	CreatedAt   string
	UpdatedAt   string

	LastVerifiedAt       string // RFC3339, empty = never verified
	VerificationFailures int
}

// VerificationOutcome is one record's state change from a verification attempt.
type VerificationOutcome struct {
	RecordID string
	// Exists resets the failure counter; Absent increments it; an errored
	// check does neither. All three touch last_verified_at.
	Kind      OutcomeKind
	CheckedAt time.Time
}

// OutcomeKind classifies a single verification attempt.
type OutcomeKind int

const (
	// OutcomeExists means the remote object was confirmed present.
	OutcomeExists OutcomeKind = iota
	// OutcomeAbsent means the remote object was confirmed gone.
	OutcomeAbsent
	// OutcomeError means the check itself failed; counters are untouched.
	OutcomeError
)

// RecordFilters contains filter options for querying records.
type RecordFilters struct {
	SourceType  string
	OriginID    string
	FlaggedOnly bool // verification_failures > 0
	Limit       int
}

// SourceTypeCounts aggregates verification state for one source type.
type SourceTypeCounts struct {
	SourceType    string
	Total         int
	NeverVerified int
	Due           int
	Flagged       int
}

// OriginRepository defines the secondary port for origin persistence.
// Origins are the authenticated remote connections records hang off;
// an origin id doubles as the verification batch key.
type OriginRepository interface {
	// Create persists a new origin.
	Create(ctx context.Context, origin *OriginRow) error

	// GetByID retrieves an origin by its ID.
	GetByID(ctx context.Context, id string) (*OriginRow, error)

	// List retrieves origins matching the given filters.
	List(ctx context.Context, filters OriginFilters) ([]*OriginRow, error)

	// GetNextID returns the next available origin ID.
	GetNextID(ctx context.Context) (string, error)
}

// OriginRow represents an origin as stored in persistence.
type OriginRow struct {
	ID         string
	SourceType string
	Name       string
	RemoteRef  string // e.g. "owner/repo" or a mailbox address
	Status     string
	CreatedAt  string
	UpdatedAt  string
}

// OriginFilters contains filter options for querying origins.
type OriginFilters struct {
	SourceType string
	Status     string
}

// Origin status constants.
const (
	OriginStatusActive = "active"
	OriginStatusPaused = "paused"
)
