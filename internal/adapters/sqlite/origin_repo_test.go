package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/driftwatch/internal/adapters/sqlite"
	"github.com/example/driftwatch/internal/ports/secondary"
)

func TestOriginCreateAndGet(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewOriginRepository(conn)
	ctx := context.Background()

	origin := &secondary.OriginRow{
		ID:         "ORIG-001",
		SourceType: "github_item",
		Name:       "driftwatch issues",
		RemoteRef:  "example/driftwatch",
	}
	if err := repo.Create(ctx, origin); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "ORIG-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if got.RemoteRef != "example/driftwatch" {
		t.Errorf("expected remote ref example/driftwatch, got %s", got.RemoteRef)
	}
	if got.Status != secondary.OriginStatusActive {
		t.Errorf("expected default status active, got %s", got.Status)
	}
	if got.CreatedAt == "" {
		t.Error("expected created_at to be set")
	}
}

func TestOriginGetByIDNotFound(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewOriginRepository(conn)

	_, err := repo.GetByID(context.Background(), "ORIG-999")
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOriginListFilters(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewOriginRepository(conn)
	ctx := context.Background()

	seedOrigin(t, conn, "ORIG-001", "mail_message", "ops@example.com")
	seedOrigin(t, conn, "ORIG-002", "github_item", "example/driftwatch")
	if _, err := conn.Exec("UPDATE origins SET status = 'paused' WHERE id = 'ORIG-002'"); err != nil {
		t.Fatalf("failed to pause origin: %v", err)
	}

	all, err := repo.List(ctx, secondary.OriginFilters{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 origins, got %d", len(all))
	}

	mail, err := repo.List(ctx, secondary.OriginFilters{SourceType: "mail_message"})
	if err != nil {
		t.Fatalf("List by source type failed: %v", err)
	}
	if len(mail) != 1 || mail[0].ID != "ORIG-001" {
		t.Errorf("expected only ORIG-001, got %v", mail)
	}

	paused, err := repo.List(ctx, secondary.OriginFilters{Status: secondary.OriginStatusPaused})
	if err != nil {
		t.Fatalf("List by status failed: %v", err)
	}
	if len(paused) != 1 || paused[0].ID != "ORIG-002" {
		t.Errorf("expected only ORIG-002, got %v", paused)
	}
}

func TestOriginGetNextID(t *testing.T) {
	conn := setupTestDB(t)
	repo := sqlite.NewOriginRepository(conn)
	ctx := context.Background()

	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "ORIG-001" {
		t.Errorf("expected ORIG-001 on empty table, got %s", id)
	}

	seedOrigin(t, conn, "ORIG-007", "mail_message", "ops@example.com")

	id, err = repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "ORIG-008" {
		t.Errorf("expected ORIG-008, got %s", id)
	}
}
