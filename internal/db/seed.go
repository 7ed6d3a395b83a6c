package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures: a
// couple of origins per source type and a spread of records in every
// verification state (fresh, stale, flagged, unkeyed).
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC()
	staleDate := now.Add(-72 * time.Hour).Format("2006-01-02 15:04:05")

	origins := []struct{ id, sourceType, name, ref string }{
		{"ORIG-001", "mail_message", "ops inbox", "ops@example.com"},
		{"ORIG-002", "mail_message", "support inbox", "support@example.com"},
		{"ORIG-003", "github_item", "driftwatch issues", "example/driftwatch"},
	}
	for _, o := range origins {
		if _, err := database.Exec(
			"INSERT INTO origins (id, source_type, name, remote_ref, status) VALUES (?, ?, ?, ?, 'active')",
			o.id, o.sourceType, o.name, o.ref,
		); err != nil {
			return fmt.Errorf("seed origins: %w", err)
		}
	}

	records := []struct {
		id, originID, sourceType, uid, title string
		lastVerified                         string // "" = never verified
		failures                             int
	}{
		{"REC-001", "ORIG-001", "mail_message", "1001", "Weekly ops report", "", 0},
		{"REC-002", "ORIG-001", "mail_message", "1002", "Incident postmortem", staleDate, 0},
		{"REC-003", "ORIG-002", "mail_message", "2001", "Customer escalation", staleDate, 2},
		{"REC-004", "ORIG-003", "github_item", "42", "Fix scheduler jitter", "", 0},
		{"REC-005", "ORIG-003", "github_item", "57", "Flaky selection test", staleDate, 1},
		// Broken reference: ingestion dropped the origin, record kept.
		{"REC-006", "", "mail_message", "9001", "Orphaned reference", staleDate, 0},
	}
	for _, r := range records {
		var originID sql.NullString
		if r.originID != "" {
			originID = sql.NullString{String: r.originID, Valid: true}
		}
		var lastVerified sql.NullString
		if r.lastVerified != "" {
			lastVerified = sql.NullString{String: r.lastVerified, Valid: true}
		}
		if _, err := database.Exec(
			"INSERT INTO records (id, origin_id, source_type, remote_uid, title, content_hash, last_verified_at, verification_failures) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			r.id, originID, r.sourceType, r.uid, r.title, fmt.Sprintf("hash-%s", r.id), lastVerified, r.failures,
		); err != nil {
			return fmt.Errorf("seed records: %w", err)
		}
	}

	chunks := []struct {
		id, recordID string
		seq          int
		content      string
	}{
		{"CHK-001", "REC-001", 0, "Operations summary for the week."},
		{"CHK-002", "REC-001", 1, "Open incidents and follow-ups."},
		{"CHK-003", "REC-003", 0, "Customer reported repeated sync failures."},
	}
	for _, c := range chunks {
		if _, err := database.Exec(
			"INSERT INTO record_chunks (id, record_id, seq, content) VALUES (?, ?, ?, ?)",
			c.id, c.recordID, c.seq, c.content,
		); err != nil {
			return fmt.Errorf("seed chunks: %w", err)
		}
	}

	if _, err := database.Exec(
		"INSERT INTO record_attachments (id, record_id, filename, size_bytes, content_hash) VALUES (?, ?, ?, ?, ?)",
		"ATT-001", "REC-003", "screenshot.png", 48213, "hash-att-001",
	); err != nil {
		return fmt.Errorf("seed attachments: %w", err)
	}

	return nil
}
