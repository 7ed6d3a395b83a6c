package app_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/example/driftwatch/internal/app"
	"github.com/example/driftwatch/internal/ports/secondary"
	"github.com/example/driftwatch/internal/verifiers"
)

// mockRecordRepo is an in-memory RecordRepository for service tests.
type mockRecordRepo struct {
	mu      sync.Mutex
	records map[string]*secondary.RecordRow

	applyErr  error
	deleteErr map[string]error

	applied []secondary.VerificationOutcome
	deleted []string
}

func newMockRecordRepo(rows ...*secondary.RecordRow) *mockRecordRepo {
	m := &mockRecordRepo{
		records:   make(map[string]*secondary.RecordRow),
		deleteErr: make(map[string]error),
	}
	for _, r := range rows {
		clone := *r
		m.records[r.ID] = &clone
	}
	return m
}

func (m *mockRecordRepo) SelectDue(_ context.Context, limit int, _ time.Duration, sourceTypes []string) ([]*secondary.RecordRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := make(map[string]bool)
	for _, st := range sourceTypes {
		allowed[st] = true
	}

	var out []*secondary.RecordRow
	for _, r := range m.records {
		if len(allowed) > 0 && !allowed[r.SourceType] {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockRecordRepo) GetByIDs(_ context.Context, ids []string) ([]*secondary.RecordRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*secondary.RecordRow
	for _, id := range ids {
		if r, ok := m.records[id]; ok {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockRecordRepo) ApplyOutcomes(_ context.Context, outcomes []secondary.VerificationOutcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.applyErr != nil {
		return m.applyErr
	}
	for _, o := range outcomes {
		r, ok := m.records[o.RecordID]
		if !ok {
			continue
		}
		r.LastVerifiedAt = o.CheckedAt.Format(time.RFC3339)
		switch o.Kind {
		case secondary.OutcomeExists:
			r.VerificationFailures = 0
		case secondary.OutcomeAbsent:
			r.VerificationFailures++
		}
	}
	m.applied = append(m.applied, outcomes...)
	return nil
}

func (m *mockRecordRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.deleteErr[id]; err != nil {
		return err
	}
	if _, ok := m.records[id]; !ok {
		return fmt.Errorf("record %s: %w", id, secondary.ErrNotFound)
	}
	delete(m.records, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockRecordRepo) List(_ context.Context, filters secondary.RecordFilters) ([]*secondary.RecordRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*secondary.RecordRow
	for _, r := range m.records {
		if filters.SourceType != "" && r.SourceType != filters.SourceType {
			continue
		}
		if filters.OriginID != "" && r.OriginID != filters.OriginID {
			continue
		}
		if filters.FlaggedOnly && r.VerificationFailures == 0 {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (m *mockRecordRepo) GetByID(_ context.Context, id string) (*secondary.RecordRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", id, secondary.ErrNotFound)
	}
	return r, nil
}

func (m *mockRecordRepo) CountByState(_ context.Context, _ time.Duration) ([]*secondary.SourceTypeCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byType := make(map[string]*secondary.SourceTypeCounts)
	for _, r := range m.records {
		c, ok := byType[r.SourceType]
		if !ok {
			c = &secondary.SourceTypeCounts{SourceType: r.SourceType}
			byType[r.SourceType] = c
		}
		c.Total++
		if r.LastVerifiedAt == "" {
			c.NeverVerified++
			c.Due++
		}
		if r.VerificationFailures > 0 {
			c.Flagged++
		}
	}

	var out []*secondary.SourceTypeCounts
	for _, c := range byType {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourceType < out[j].SourceType })
	return out, nil
}

func (m *mockRecordRepo) failures(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[id]; ok {
		return r.VerificationFailures
	}
	return -1
}

func (m *mockRecordRepo) has(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[id]
	return ok
}

// mockVerifier answers existence checks from a canned map. A nil entry
// set via errs marks the item's check as failed.
type mockVerifier struct {
	sourceType string
	exists     map[string]bool
	errs       map[string]string
	batchErr   error
	panicMsg   string

	mu    sync.Mutex
	calls int
}

func (v *mockVerifier) SourceType() string { return v.sourceType }

func (v *mockVerifier) Verify(_ context.Context, _ string, records []*secondary.RecordRow) ([]secondary.VerificationResult, error) {
	v.mu.Lock()
	v.calls++
	v.mu.Unlock()

	if v.panicMsg != "" {
		panic(v.panicMsg)
	}
	if v.batchErr != nil {
		return nil, v.batchErr
	}

	results := make([]secondary.VerificationResult, len(records))
	for i, r := range records {
		if msg, ok := v.errs[r.ID]; ok {
			results[i] = secondary.VerificationResult{RecordID: r.ID, Err: msg}
			continue
		}
		results[i] = secondary.VerificationResult{RecordID: r.ID, Exists: v.exists[r.ID]}
	}
	return results, nil
}

// mockNotifier records index removal notices.
type mockNotifier struct {
	mu       sync.Mutex
	notified []string
	err      error
}

func (n *mockNotifier) NotifyRemoved(_ context.Context, recordID, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notified = append(n.notified, recordID)
	return n.err
}

func testSweepConfig() app.SweepConfig {
	return app.SweepConfig{
		BatchSize:         100,
		FailureThreshold:  3,
		MaxParallelGroups: 4,
		PerGroupTimeout:   time.Minute,
		RecheckInterval:   24 * time.Hour,
		IndexCollection:   "mirror",
	}
}

func newTestSweepService(repo *mockRecordRepo, notifier *mockNotifier, vs ...secondary.Verifier) *app.SweepServiceImpl {
	registry := verifiers.NewRegistry()
	for _, v := range vs {
		registry.Register(v)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return app.NewSweepService(repo, registry, notifier, testSweepConfig(), logger)
}

func record(id, originID, sourceType string, failures int) *secondary.RecordRow {
	return &secondary.RecordRow{
		ID:                   id,
		OriginID:             originID,
		SourceType:           sourceType,
		RemoteUID:            "uid-" + id,
		VerificationFailures: failures,
	}
}
