package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/driftwatch/internal/app"
	"github.com/example/driftwatch/internal/ports/primary"
	"github.com/example/driftwatch/internal/ports/secondary"
)

func TestGetRecord(t *testing.T) {
	repo := newMockRecordRepo(record("REC-1", "ORIG-001", "mail_message", 2))
	service := app.NewRecordService(repo, 24*time.Hour)

	got, err := service.GetRecord(context.Background(), "REC-1")
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if got.OriginID != "ORIG-001" || got.VerificationFailures != 2 {
		t.Errorf("unexpected record: %+v", got)
	}
}

func TestGetRecordNotFound(t *testing.T) {
	service := app.NewRecordService(newMockRecordRepo(), 24*time.Hour)

	_, err := service.GetRecord(context.Background(), "REC-GONE")
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListRecordsFlaggedOnly(t *testing.T) {
	repo := newMockRecordRepo(
		record("REC-1", "ORIG-001", "mail_message", 0),
		record("REC-2", "ORIG-001", "mail_message", 1),
	)
	service := app.NewRecordService(repo, 24*time.Hour)

	records, err := service.ListRecords(context.Background(), primary.RecordFilters{FlaggedOnly: true})
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != "REC-2" {
		t.Errorf("expected only REC-2, got %v", records)
	}
}

func TestVerificationStatus(t *testing.T) {
	repo := newMockRecordRepo(
		record("REC-1", "ORIG-001", "mail_message", 0),
		record("REC-2", "ORIG-001", "mail_message", 2),
		record("REC-3", "ORIG-002", "github_item", 0),
	)
	service := app.NewRecordService(repo, 24*time.Hour)

	statuses, err := service.VerificationStatus(context.Background())
	if err != nil {
		t.Fatalf("VerificationStatus failed: %v", err)
	}

	if len(statuses) != 2 {
		t.Fatalf("expected 2 source types, got %d", len(statuses))
	}
	if statuses[0].SourceType != "github_item" || statuses[0].Total != 1 {
		t.Errorf("unexpected github status: %+v", statuses[0])
	}
	if statuses[1].SourceType != "mail_message" || statuses[1].Total != 2 || statuses[1].Flagged != 1 {
		t.Errorf("unexpected mail status: %+v", statuses[1])
	}
}
