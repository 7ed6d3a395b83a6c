package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/driftwatch/internal/ports/secondary"
)

// OriginRepository implements secondary.OriginRepository with SQLite.
type OriginRepository struct {
	db *sql.DB
}

// NewOriginRepository creates a new SQLite origin repository.
func NewOriginRepository(db *sql.DB) *OriginRepository {
	return &OriginRepository{db: db}
}

const originSelectCols = "id, source_type, name, remote_ref, status, created_at, updated_at"

func scanOrigin(scanner interface {
	Scan(dest ...any) error
}) (*secondary.OriginRow, error) {
	var (
		createdAt time.Time
		updatedAt time.Time
	)

	origin := &secondary.OriginRow{}
	err := scanner.Scan(
		&origin.ID, &origin.SourceType, &origin.Name, &origin.RemoteRef,
		&origin.Status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	origin.CreatedAt = createdAt.Format(time.RFC3339)
	origin.UpdatedAt = updatedAt.Format(time.RFC3339)

	return origin, nil
}

// Create persists a new origin.
func (r *OriginRepository) Create(ctx context.Context, origin *secondary.OriginRow) error {
	status := origin.Status
	if status == "" {
		status = secondary.OriginStatusActive
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO origins (id, source_type, name, remote_ref, status) VALUES (?, ?, ?, ?, ?)",
		origin.ID, origin.SourceType, origin.Name, origin.RemoteRef, status,
	)
	if err != nil {
		return fmt.Errorf("failed to create origin: %w", err)
	}

	return nil
}

// GetByID retrieves an origin by its ID.
func (r *OriginRepository) GetByID(ctx context.Context, id string) (*secondary.OriginRow, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+originSelectCols+" FROM origins WHERE id = ?",
		id,
	)

	origin, err := scanOrigin(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("origin %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get origin: %w", err)
	}

	return origin, nil
}

// List retrieves origins matching the given filters.
func (r *OriginRepository) List(ctx context.Context, filters secondary.OriginFilters) ([]*secondary.OriginRow, error) {
	query := "SELECT " + originSelectCols + " FROM origins WHERE 1=1"
	args := []any{}

	if filters.SourceType != "" {
		query += " AND source_type = ?"
		args = append(args, filters.SourceType)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list origins: %w", err)
	}
	defer rows.Close()

	var origins []*secondary.OriginRow
	for rows.Next() {
		origin, err := scanOrigin(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan origin: %w", err)
		}
		origins = append(origins, origin)
	}

	return origins, rows.Err()
}

// GetNextID returns the next available origin ID.
func (r *OriginRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM origins",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next origin ID: %w", err)
	}

	return fmt.Sprintf("ORIG-%03d", maxID+1), nil
}

// Ensure OriginRepository implements the interface
var _ secondary.OriginRepository = (*OriginRepository)(nil)
