package primary

import "context"

// OriginService defines the primary port for origin operations.
// An origin is one authenticated remote connection (a mailbox account,
// a GitHub repository); its id is the batch key for verification.
type OriginService interface {
	// CreateOrigin registers a new origin.
	CreateOrigin(ctx context.Context, req CreateOriginRequest) (*Origin, error)

	// GetOrigin retrieves an origin by ID.
	GetOrigin(ctx context.Context, id string) (*Origin, error)

	// ListOrigins lists origins with optional filters.
	ListOrigins(ctx context.Context, filters OriginFilters) ([]*Origin, error)
}

// Origin represents an origin at the port boundary.
type Origin struct {
	ID         string
	SourceType string
	Name       string
	RemoteRef  string
	Status     string
	CreatedAt  string
	UpdatedAt  string
}

// CreateOriginRequest carries the fields needed to register an origin.
type CreateOriginRequest struct {
	SourceType string
	Name       string
	RemoteRef  string
}

// OriginFilters contains filter options for listing origins.
type OriginFilters struct {
	SourceType string
	Status     string
}
