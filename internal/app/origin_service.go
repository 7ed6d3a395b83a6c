package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/driftwatch/internal/ports/primary"
	"github.com/example/driftwatch/internal/ports/secondary"
)

// OriginServiceImpl implements the OriginService primary port.
type OriginServiceImpl struct {
	origins secondary.OriginRepository
}

// NewOriginService creates a new origin service.
func NewOriginService(origins secondary.OriginRepository) *OriginServiceImpl {
	return &OriginServiceImpl{origins: origins}
}

// CreateOrigin registers a new origin.
func (s *OriginServiceImpl) CreateOrigin(ctx context.Context, req primary.CreateOriginRequest) (*primary.Origin, error) {
	if strings.TrimSpace(req.SourceType) == "" {
		return nil, fmt.Errorf("source type is required")
	}
	if strings.TrimSpace(req.RemoteRef) == "" {
		return nil, fmt.Errorf("remote ref is required")
	}

	id, err := s.origins.GetNextID(ctx)
	if err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		name = req.RemoteRef
	}

	row := &secondary.OriginRow{
		ID:         id,
		SourceType: req.SourceType,
		Name:       name,
		RemoteRef:  req.RemoteRef,
		Status:     secondary.OriginStatusActive,
	}
	if err := s.origins.Create(ctx, row); err != nil {
		return nil, err
	}

	return s.GetOrigin(ctx, id)
}

// GetOrigin retrieves an origin by ID.
func (s *OriginServiceImpl) GetOrigin(ctx context.Context, id string) (*primary.Origin, error) {
	row, err := s.origins.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrigin(row), nil
}

// ListOrigins lists origins with optional filters.
func (s *OriginServiceImpl) ListOrigins(ctx context.Context, filters primary.OriginFilters) ([]*primary.Origin, error) {
	rows, err := s.origins.List(ctx, secondary.OriginFilters{
		SourceType: filters.SourceType,
		Status:     filters.Status,
	})
	if err != nil {
		return nil, err
	}

	origins := make([]*primary.Origin, len(rows))
	for i, row := range rows {
		origins[i] = toOrigin(row)
	}
	return origins, nil
}

func toOrigin(row *secondary.OriginRow) *primary.Origin {
	return &primary.Origin{
		ID:         row.ID,
		SourceType: row.SourceType,
		Name:       row.Name,
		RemoteRef:  row.RemoteRef,
		Status:     row.Status,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

// Ensure OriginServiceImpl implements the interface
var _ primary.OriginService = (*OriginServiceImpl)(nil)
