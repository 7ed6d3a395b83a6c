package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/driftwatch/internal/ports/primary"
	"github.com/example/driftwatch/internal/ports/secondary"
)

// RecordServiceImpl implements the RecordService primary port.
type RecordServiceImpl struct {
	records         secondary.RecordRepository
	recheckInterval time.Duration
}

// NewRecordService creates a new record service.
func NewRecordService(records secondary.RecordRepository, recheckInterval time.Duration) *RecordServiceImpl {
	return &RecordServiceImpl{records: records, recheckInterval: recheckInterval}
}

// GetRecord retrieves a record by ID.
func (s *RecordServiceImpl) GetRecord(ctx context.Context, id string) (*primary.Record, error) {
	row, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRecord(row), nil
}

// ListRecords lists records with optional filters.
func (s *RecordServiceImpl) ListRecords(ctx context.Context, filters primary.RecordFilters) ([]*primary.Record, error) {
	rows, err := s.records.List(ctx, secondary.RecordFilters{
		SourceType:  filters.SourceType,
		OriginID:    filters.OriginID,
		FlaggedOnly: filters.FlaggedOnly,
		Limit:       filters.Limit,
	})
	if err != nil {
		return nil, err
	}

	records := make([]*primary.Record, len(rows))
	for i, row := range rows {
		records[i] = toRecord(row)
	}
	return records, nil
}

// VerificationStatus returns per-source-type verification counts.
func (s *RecordServiceImpl) VerificationStatus(ctx context.Context) ([]*primary.SourceTypeStatus, error) {
	counts, err := s.records.CountByState(ctx, s.recheckInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate verification status: %w", err)
	}

	statuses := make([]*primary.SourceTypeStatus, len(counts))
	for i, c := range counts {
		statuses[i] = &primary.SourceTypeStatus{
			SourceType:    c.SourceType,
			Total:         c.Total,
			NeverVerified: c.NeverVerified,
			Due:           c.Due,
			Flagged:       c.Flagged,
		}
	}
	return statuses, nil
}

func toRecord(row *secondary.RecordRow) *primary.Record {
	return &primary.Record{
		ID:                   row.ID,
		OriginID:             row.OriginID,
		SourceType:           row.SourceType,
		RemoteUID:            row.RemoteUID,
		Title:                row.Title,
		ContentHash:          row.ContentHash,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
		LastVerifiedAt:       row.LastVerifiedAt,
		VerificationFailures: row.VerificationFailures,
	}
}

// Ensure RecordServiceImpl implements the interface
var _ primary.RecordService = (*RecordServiceImpl)(nil)
