package primary

import "context"

// RecordService defines the primary port for inspecting mirrored records.
// Creation and content updates belong to the ingestion side; this surface
// is read-only plus verification-state aggregates for operators.
type RecordService interface {
	// GetRecord retrieves a record by ID.
	GetRecord(ctx context.Context, id string) (*Record, error)

	// ListRecords lists records with optional filters.
	ListRecords(ctx context.Context, filters RecordFilters) ([]*Record, error)

	// VerificationStatus returns per-source-type verification counts.
	VerificationStatus(ctx context.Context) ([]*SourceTypeStatus, error)
}

// Record represents a mirrored record at the port boundary.
type Record struct {
	ID          string
	OriginID    string
	SourceType  string
	RemoteUID   string
	Title       string
	ContentHash string
	CreatedAt   string
	UpdatedAt   string

	LastVerifiedAt       string // empty = never verified
	VerificationFailures int
}

// RecordFilters contains filter options for listing records.
type RecordFilters struct {
	SourceType  string
	OriginID    string
	FlaggedOnly bool
	Limit       int
}

// SourceTypeStatus aggregates verification state for one source type.
type SourceTypeStatus struct {
	SourceType    string
	Total         int
	NeverVerified int
	Due           int
	Flagged       int
}
