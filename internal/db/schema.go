package db

import "database/sql"

// SchemaSQL is the complete schema for fresh driftwatch installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Tests load
// it via GetSchemaSQL() instead of hardcoding CREATE TABLE statements, so
// repository code referencing a column that does not exist here fails
// immediately with "no such column" at development time.
//
// When adding columns or tables:
//  1. Add a migration in internal/db/migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Origins (authenticated connections to one remote source: a mailbox
-- account, a GitHub repository, a drive share)
CREATE TABLE IF NOT EXISTS origins (
	id TEXT PRIMARY KEY,
	source_type TEXT NOT NULL,
	name TEXT NOT NULL,
	remote_ref TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('active', 'paused')) DEFAULT 'active',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_origins_source_type ON origins(source_type);

-- Records (mirrored copies of remote objects)
-- last_verified_at and verification_failures are owned exclusively by
-- the verification engine; the ingestion side owns everything else.
CREATE TABLE IF NOT EXISTS records (
	id TEXT PRIMARY KEY,
	origin_id TEXT,
	source_type TEXT NOT NULL,
	remote_uid TEXT NOT NULL,
	title TEXT,
	content_hash TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	last_verified_at DATETIME,
	verification_failures INTEGER NOT NULL DEFAULT 0 CHECK(verification_failures >= 0),
	FOREIGN KEY (origin_id) REFERENCES origins(id)
);

CREATE INDEX IF NOT EXISTS idx_records_origin ON records(origin_id);
CREATE INDEX IF NOT EXISTS idx_records_source_type ON records(source_type);
CREATE INDEX IF NOT EXISTS idx_records_last_verified ON records(last_verified_at);
CREATE UNIQUE INDEX IF NOT EXISTS idx_records_origin_uid ON records(origin_id, remote_uid);

-- Chunks (content split for the search index, owned by a record)
CREATE TABLE IF NOT EXISTS record_chunks (
	id TEXT PRIMARY KEY,
	record_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	content TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (record_id) REFERENCES records(id) ON DELETE CASCADE,
	UNIQUE(record_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_chunks_record ON record_chunks(record_id);

-- Attachments (binary side-car files, owned by a record)
CREATE TABLE IF NOT EXISTS record_attachments (
	id TEXT PRIMARY KEY,
	record_id TEXT NOT NULL,
	filename TEXT NOT NULL,
	size_bytes INTEGER NOT NULL DEFAULT 0,
	content_hash TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (record_id) REFERENCES records(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_attachments_record ON record_attachments(record_id);
`

// InitSchema creates the database schema, running any pending
// migrations when upgrading an existing install.
func InitSchema(conn *sql.DB) error {
	var tableCount int
	err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		// Fresh install: create the modern schema directly and mark all
		// migrations as applied so the runner never replays them.
		if _, err := conn.Exec(SchemaSQL); err != nil {
			return err
		}
		if _, err := conn.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`); err != nil {
			return err
		}
		for _, m := range migrations {
			if _, err := conn.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
				return err
			}
		}
		return nil
	}

	return RunMigrations(conn)
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
