// Package app contains the application services implementing the
// primary ports.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/example/driftwatch/internal/core/batch"
	"github.com/example/driftwatch/internal/core/verify"
	"github.com/example/driftwatch/internal/ports/primary"
	"github.com/example/driftwatch/internal/ports/secondary"
	"github.com/example/driftwatch/internal/verifiers"
)

// SweepConfig carries the engine knobs the sweep service needs.
type SweepConfig struct {
	BatchSize         int
	FailureThreshold  int
	MaxParallelGroups int
	PerGroupTimeout   time.Duration
	RecheckInterval   time.Duration
	SourceTypes       []string
	IndexCollection   string
}

// SweepServiceImpl implements the SweepService primary port.
type SweepServiceImpl struct {
	records  secondary.RecordRepository
	registry *verifiers.Registry
	notifier secondary.IndexNotifier
	cfg      SweepConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewSweepService creates a new sweep service.
func NewSweepService(
	records secondary.RecordRepository,
	registry *verifiers.Registry,
	notifier secondary.IndexNotifier,
	cfg SweepConfig,
	logger *slog.Logger,
) *SweepServiceImpl {
	return &SweepServiceImpl{
		records:  records,
		registry: registry,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes one full sweep cycle: select due records, partition them
// into per-origin groups, and dispatch the groups with bounded
// parallelism. Run never retries a failed group in-process; the records
// of a failed group stay due and the next cycle picks them up again.
func (s *SweepServiceImpl) Run(ctx context.Context, req primary.SweepRequest) (*primary.SweepSummary, error) {
	runID := uuid.NewString()
	log := s.logger.With("run_id", runID)

	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = s.cfg.BatchSize
	}
	sourceTypes := req.SourceTypes
	if len(sourceTypes) == 0 {
		sourceTypes = s.cfg.SourceTypes
	}

	due, err := s.records.SelectDue(ctx, batchSize, s.cfg.RecheckInterval, sourceTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to select due records: %w", err)
	}

	summary := &primary.SweepSummary{RunID: runID, TotalItems: len(due)}
	if len(due) == 0 {
		summary.Status = primary.SweepStatusNoItems
		log.Debug("sweep found nothing due")
		return summary, nil
	}

	grouping := batch.Group(due)
	keys := grouping.SortedKeys()
	summary.Status = primary.SweepStatusDispatched
	summary.Groups = len(keys)
	summary.Unkeyed = len(grouping.Unkeyed)
	summary.Units = make([]*primary.GroupReport, len(keys))

	log.Info("sweep dispatching",
		"total", len(due), "groups", len(keys), "unkeyed", len(grouping.Unkeyed))

	for _, r := range grouping.Unkeyed {
		log.Warn("record has no batch key, skipping", "record_id", r.ID, "source_type", r.SourceType)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxParallelGroups)
	for i, key := range keys {
		ids := batch.IDs(grouping.Groups[key])
		g.Go(func() error {
			groupCtx, cancel := context.WithTimeout(gctx, s.cfg.PerGroupTimeout)
			defer cancel()
			summary.Units[i] = s.VerifyGroup(groupCtx, key.SourceType, key.BatchKey, ids)
			return nil
		})
	}
	// Workers only ever return nil; a group failure is data in its
	// report, not an error that cancels sibling groups.
	_ = g.Wait()

	for _, unit := range summary.Units {
		if unit.Status == primary.GroupStatusError {
			log.Warn("group finished with errors",
				"source_type", unit.SourceType, "batch_key", unit.BatchKey, "errors", unit.Errors)
		}
	}

	log.Info("sweep complete", "groups", summary.Groups, "unkeyed", summary.Unkeyed)
	return summary, nil
}

// VerifyGroup verifies one batch of records sharing a source type and
// batch key. Counter updates for the whole group commit in one
// transaction; deletions happen after that commit, one record at a
// time, so a crashed delete is retried next cycle off the already
// committed counter.
func (s *SweepServiceImpl) VerifyGroup(ctx context.Context, sourceType, batchKey string, recordIDs []string) (report *primary.GroupReport) {
	report = &primary.GroupReport{
		Status:     primary.GroupStatusCompleted,
		SourceType: sourceType,
		BatchKey:   batchKey,
	}
	log := s.logger.With("source_type", sourceType, "batch_key", batchKey)

	// A panicking verifier must not take down sibling groups or the
	// scheduler loop.
	defer func() {
		if r := recover(); r != nil {
			log.Error("verifier panicked", "panic", r)
			*report = primary.GroupReport{
				Status:     primary.GroupStatusError,
				SourceType: sourceType,
				BatchKey:   batchKey,
				Errors:     len(recordIDs),
			}
		}
	}()

	verifier, ok := s.registry.Lookup(sourceType)
	if !ok {
		log.Warn("no verifier registered for source type")
		report.Status = primary.GroupStatusError
		report.Errors = len(recordIDs)
		return report
	}

	// Re-fetch: selection state may be stale by the time this group is
	// dispatched. Records deleted in the meantime simply drop out.
	records, err := s.records.GetByIDs(ctx, recordIDs)
	if err != nil {
		log.Error("failed to load group records", "error", err)
		report.Status = primary.GroupStatusError
		report.Errors = len(recordIDs)
		return report
	}
	if len(records) == 0 {
		return report
	}

	results, err := verifier.Verify(ctx, batchKey, records)
	if err != nil {
		// The batch as a whole could not be checked. Touch every record
		// so selection stays fair, but never advance a counter.
		log.Warn("batch verification failed", "error", err)
		results = make([]secondary.VerificationResult, len(records))
		for i, r := range records {
			results[i] = secondary.VerificationResult{RecordID: r.ID, Err: err.Error()}
		}
	}

	byID := make(map[string]*secondary.RecordRow, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	checkedAt := s.now().UTC()
	outcomes := make([]secondary.VerificationOutcome, 0, len(results))
	var toDelete []string
	for _, result := range results {
		record, ok := byID[result.RecordID]
		if !ok {
			log.Warn("verifier returned result for unknown record", "record_id", result.RecordID)
			continue
		}

		decision := verify.Assess(result, record.VerificationFailures, s.cfg.FailureThreshold)
		outcomes = append(outcomes, secondary.VerificationOutcome{
			RecordID:  result.RecordID,
			Kind:      decision.Kind,
			CheckedAt: checkedAt,
		})

		switch decision.Kind {
		case secondary.OutcomeExists:
			report.Verified++
		case secondary.OutcomeAbsent:
			report.Orphaned++
			log.Info("record confirmed absent",
				"record_id", record.ID, "failures", decision.NewFailures)
		case secondary.OutcomeError:
			report.Errors++
		}
		if decision.Delete {
			toDelete = append(toDelete, record.ID)
		}
	}

	if err := s.records.ApplyOutcomes(ctx, outcomes); err != nil {
		// Nothing committed; every record in the group stays due.
		log.Error("failed to commit outcomes", "error", err)
		*report = primary.GroupReport{
			Status:     primary.GroupStatusError,
			SourceType: sourceType,
			BatchKey:   batchKey,
			Errors:     len(records),
		}
		return report
	}

	for _, id := range toDelete {
		if err := s.deleteRecord(ctx, id); err != nil {
			// The committed counter is at the threshold, so the next
			// confirmed absence re-triggers this delete.
			log.Error("failed to delete orphaned record", "record_id", id, "error", err)
			report.Errors++
			continue
		}
		report.Deleted++
		log.Info("deleted orphaned record", "record_id", id)
	}

	if report.Errors > 0 {
		report.Status = primary.GroupStatusError
	}
	return report
}

// deleteRecord removes one record locally and then tells the index.
// The index notice is best-effort; a record already gone locally
// counts as deleted.
func (s *SweepServiceImpl) deleteRecord(ctx context.Context, id string) error {
	if err := s.records.Delete(ctx, id); err != nil {
		if errors.Is(err, secondary.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.notifier.NotifyRemoved(ctx, id, s.cfg.IndexCollection); err != nil {
		s.logger.Warn("index removal notice failed", "record_id", id, "error", err)
	}
	return nil
}

// Ensure SweepServiceImpl implements the interface
var _ primary.SweepService = (*SweepServiceImpl)(nil)
