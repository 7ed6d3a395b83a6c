// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/driftwatch/internal/ports/secondary"
)

// sqliteTimeLayout is the canonical SQLite datetime format. Storing
// last_verified_at in this layout keeps string comparisons against
// datetime('now', ...) correct.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// RecordRepository implements secondary.RecordRepository with SQLite.
type RecordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a new SQLite record repository.
func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

const recordSelectCols = "id, origin_id, source_type, remote_uid, title, content_hash, created_at, updated_at, last_verified_at, verification_failures"

// scanRecord scans a record row into a RecordRow.
func scanRecord(scanner interface {
	Scan(dest ...any) error
}) (*secondary.RecordRow, error) {
	var (
		originID     sql.NullString
		title        sql.NullString
		createdAt    time.Time
		updatedAt    time.Time
		lastVerified sql.NullTime
	)

	record := &secondary.RecordRow{}
	err := scanner.Scan(
		&record.ID, &originID, &record.SourceType, &record.RemoteUID, &title,
		&record.ContentHash, &createdAt, &updatedAt, &lastVerified, &record.VerificationFailures,
	)
	if err != nil {
		return nil, err
	}

	record.OriginID = originID.String
	record.Title = title.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	if lastVerified.Valid {
		record.LastVerifiedAt = lastVerified.Time.Format(time.RFC3339)
	}

	return record, nil
}

// recheckModifier renders a recheck interval as a SQLite datetime modifier.
func recheckModifier(recheckAfter time.Duration) string {
	return fmt.Sprintf("-%d seconds", int64(recheckAfter.Seconds()))
}

// SelectDue retrieves records due for verification. Never-verified
// records come first (tie-broken by source type so they group
// naturally), then the stalest last_verified_at. Selection never
// mutates anything; only a completed verification attempt moves
// last_verified_at, so re-running selection after a downstream failure
// re-picks the same records.
func (r *RecordRepository) SelectDue(ctx context.Context, limit int, recheckAfter time.Duration, sourceTypes []string) ([]*secondary.RecordRow, error) {
	query := "SELECT " + recordSelectCols + " FROM records WHERE (last_verified_at IS NULL OR last_verified_at <= datetime('now', ?))"
	args := []any{recheckModifier(recheckAfter)}

	if len(sourceTypes) > 0 {
		query += " AND source_type IN (" + placeholders(len(sourceTypes)) + ")"
		for _, st := range sourceTypes {
			args = append(args, st)
		}
	}

	query += ` ORDER BY
		CASE WHEN last_verified_at IS NULL THEN 0 ELSE 1 END,
		last_verified_at ASC,
		source_type ASC,
		id ASC
		LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select due records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// GetByIDs re-fetches records by id. Ids that no longer exist are
// omitted: a record deleted between selection and execution is not an
// error, it simply has nothing left to verify.
func (r *RecordRepository) GetByIDs(ctx context.Context, ids []string) ([]*secondary.RecordRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := "SELECT " + recordSelectCols + " FROM records WHERE id IN (" + placeholders(len(ids)) + ") ORDER BY id ASC"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get records by ids: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ApplyOutcomes commits one batch's verification outcomes in a single
// transaction. A crash before commit leaves every record in the batch
// untouched and therefore still due, which is what makes re-runs safe.
func (r *RecordRepository) ApplyOutcomes(ctx context.Context, outcomes []secondary.VerificationOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin outcome transaction: %w", err)
	}
	defer tx.Rollback()

	for _, o := range outcomes {
		checkedAt := o.CheckedAt.UTC().Format(sqliteTimeLayout)

		var query string
		switch o.Kind {
		case secondary.OutcomeExists:
			query = "UPDATE records SET last_verified_at = ?, verification_failures = 0 WHERE id = ?"
		case secondary.OutcomeAbsent:
			query = "UPDATE records SET last_verified_at = ?, verification_failures = verification_failures + 1 WHERE id = ?"
		case secondary.OutcomeError:
			query = "UPDATE records SET last_verified_at = ? WHERE id = ?"
		default:
			return fmt.Errorf("unknown outcome kind %d for record %s", o.Kind, o.RecordID)
		}

		if _, err := tx.ExecContext(ctx, query, checkedAt, o.RecordID); err != nil {
			return fmt.Errorf("failed to apply outcome for record %s: %w", o.RecordID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit outcomes: %w", err)
	}
	return nil
}

// Delete removes a record; chunks and attachments go with it via
// ON DELETE CASCADE.
func (r *RecordRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete record %s: %w", id, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("record %s: %w", id, secondary.ErrNotFound)
	}

	return nil
}

// List retrieves records matching the given filters.
func (r *RecordRepository) List(ctx context.Context, filters secondary.RecordFilters) ([]*secondary.RecordRow, error) {
	query := "SELECT " + recordSelectCols + " FROM records WHERE 1=1"
	args := []any{}

	if filters.SourceType != "" {
		query += " AND source_type = ?"
		args = append(args, filters.SourceType)
	}
	if filters.OriginID != "" {
		query += " AND origin_id = ?"
		args = append(args, filters.OriginID)
	}
	if filters.FlaggedOnly {
		query += " AND verification_failures > 0"
	}

	query += " ORDER BY created_at ASC, id ASC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// GetByID retrieves a record by its ID.
func (r *RecordRepository) GetByID(ctx context.Context, id string) (*secondary.RecordRow, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+recordSelectCols+" FROM records WHERE id = ?",
		id,
	)

	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("record %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return record, nil
}

// CountByState returns per-source-type verification state counts.
func (r *RecordRepository) CountByState(ctx context.Context, recheckAfter time.Duration) ([]*secondary.SourceTypeCounts, error) {
	query := `
		SELECT source_type,
			COUNT(*),
			SUM(CASE WHEN last_verified_at IS NULL THEN 1 ELSE 0 END),
			SUM(CASE WHEN last_verified_at IS NULL OR last_verified_at <= datetime('now', ?) THEN 1 ELSE 0 END),
			SUM(CASE WHEN verification_failures > 0 THEN 1 ELSE 0 END)
		FROM records
		GROUP BY source_type
		ORDER BY source_type ASC
	`

	rows, err := r.db.QueryContext(ctx, query, recheckModifier(recheckAfter))
	if err != nil {
		return nil, fmt.Errorf("failed to count records by state: %w", err)
	}
	defer rows.Close()

	var counts []*secondary.SourceTypeCounts
	for rows.Next() {
		c := &secondary.SourceTypeCounts{}
		if err := rows.Scan(&c.SourceType, &c.Total, &c.NeverVerified, &c.Due, &c.Flagged); err != nil {
			return nil, fmt.Errorf("failed to scan counts: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

func collectRecords(rows *sql.Rows) ([]*secondary.RecordRow, error) {
	var records []*secondary.RecordRow
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// Ensure RecordRepository implements the interface
var _ secondary.RecordRepository = (*RecordRepository)(nil)
