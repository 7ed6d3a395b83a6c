// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the SINGLE POINT where the database schema is loaded for
// tests. All test setup uses db.GetSchemaSQL() so repository code and
// tests cannot drift apart; a column referenced in a repo but missing
// from the schema fails immediately with "no such column".
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/driftwatch/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedOrigin inserts a test origin and returns its ID.
func seedOrigin(t *testing.T, conn *sql.DB, id, sourceType, remoteRef string) string {
	t.Helper()
	if id == "" {
		id = "ORIG-001"
	}
	if sourceType == "" {
		sourceType = "mail_message"
	}
	if remoteRef == "" {
		remoteRef = "ops@example.com"
	}
	_, err := conn.Exec(
		"INSERT INTO origins (id, source_type, name, remote_ref, status) VALUES (?, ?, ?, ?, 'active')",
		id, sourceType, "test origin", remoteRef,
	)
	if err != nil {
		t.Fatalf("failed to seed origin: %v", err)
	}
	return id
}

// seedRecord inserts a test record. lastVerifiedAgo < 0 means never
// verified; otherwise last_verified_at is set that far in the past.
func seedRecord(t *testing.T, conn *sql.DB, id, originID, sourceType, uid string, lastVerifiedAgo time.Duration, failures int) string {
	t.Helper()

	var origin sql.NullString
	if originID != "" {
		origin = sql.NullString{String: originID, Valid: true}
	}

	var lastVerified sql.NullString
	if lastVerifiedAgo >= 0 {
		lastVerified = sql.NullString{
			String: time.Now().UTC().Add(-lastVerifiedAgo).Format("2006-01-02 15:04:05"),
			Valid:  true,
		}
	}

	_, err := conn.Exec(
		"INSERT INTO records (id, origin_id, source_type, remote_uid, title, content_hash, last_verified_at, verification_failures) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		id, origin, sourceType, uid, "test record "+id, "hash-"+id, lastVerified, failures,
	)
	if err != nil {
		t.Fatalf("failed to seed record: %v", err)
	}
	return id
}

// seedChunk inserts a dependent chunk row for a record.
func seedChunk(t *testing.T, conn *sql.DB, id, recordID string, seq int) {
	t.Helper()
	_, err := conn.Exec(
		"INSERT INTO record_chunks (id, record_id, seq, content) VALUES (?, ?, ?, 'chunk content')",
		id, recordID, seq,
	)
	if err != nil {
		t.Fatalf("failed to seed chunk: %v", err)
	}
}

// seedAttachment inserts a dependent attachment row for a record.
func seedAttachment(t *testing.T, conn *sql.DB, id, recordID string) {
	t.Helper()
	_, err := conn.Exec(
		"INSERT INTO record_attachments (id, record_id, filename, size_bytes) VALUES (?, ?, 'file.bin', 128)",
		id, recordID,
	)
	if err != nil {
		t.Fatalf("failed to seed attachment: %v", err)
	}
}
