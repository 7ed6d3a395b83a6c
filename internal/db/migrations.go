package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.DB) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_mirror_tables",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_verification_fields_to_records",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_unique_origin_uid_index",
		Up:      migrationV3,
	},
}

// RunMigrations executes all pending migrations
func RunMigrations(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var currentVersion int
	err = conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		if err := migration.Up(conn); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		_, err = conn.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV1 creates the original mirror tables (origins, records,
// record_chunks, record_attachments) without verification fields.
func migrationV1(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS origins (
			id TEXT PRIMARY KEY,
			source_type TEXT NOT NULL,
			name TEXT NOT NULL,
			remote_ref TEXT NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('active', 'paused')) DEFAULT 'active',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			origin_id TEXT,
			source_type TEXT NOT NULL,
			remote_uid TEXT NOT NULL,
			title TEXT,
			content_hash TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (origin_id) REFERENCES origins(id)
		);

		CREATE TABLE IF NOT EXISTS record_chunks (
			id TEXT PRIMARY KEY,
			record_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (record_id) REFERENCES records(id) ON DELETE CASCADE,
			UNIQUE(record_id, seq)
		);

		CREATE TABLE IF NOT EXISTS record_attachments (
			id TEXT PRIMARY KEY,
			record_id TEXT NOT NULL,
			filename TEXT NOT NULL,
			size_bytes INTEGER NOT NULL DEFAULT 0,
			content_hash TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (record_id) REFERENCES records(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_origins_source_type ON origins(source_type);
		CREATE INDEX IF NOT EXISTS idx_records_origin ON records(origin_id);
		CREATE INDEX IF NOT EXISTS idx_records_source_type ON records(source_type);
		CREATE INDEX IF NOT EXISTS idx_chunks_record ON record_chunks(record_id);
		CREATE INDEX IF NOT EXISTS idx_attachments_record ON record_attachments(record_id);
	`)
	return err
}

// migrationV2 adds the two engine-owned verification fields.
func migrationV2(conn *sql.DB) error {
	_, err := conn.Exec(`
		ALTER TABLE records ADD COLUMN last_verified_at DATETIME;
	`)
	if err != nil {
		return err
	}
	_, err = conn.Exec(`
		ALTER TABLE records ADD COLUMN verification_failures INTEGER NOT NULL DEFAULT 0 CHECK(verification_failures >= 0);
	`)
	if err != nil {
		return err
	}
	_, err = conn.Exec(`
		CREATE INDEX IF NOT EXISTS idx_records_last_verified ON records(last_verified_at);
	`)
	return err
}

// migrationV3 deduplicates records per origin. The ingestion side keys
// records by (origin, remote uid); making that a hard constraint keeps
// verification batches free of duplicates.
func migrationV3(conn *sql.DB) error {
	_, err := conn.Exec(`
		DELETE FROM records WHERE rowid NOT IN (
			SELECT MIN(rowid) FROM records GROUP BY origin_id, remote_uid
		);
	`)
	if err != nil {
		return err
	}
	_, err = conn.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_records_origin_uid ON records(origin_id, remote_uid);
	`)
	return err
}
