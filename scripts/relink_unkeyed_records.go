//go:build ignore

package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// UnkeyedRecord is a record whose origin reference is missing. These
// land in the sweep's unkeyed bucket and are never verified until
// relinked.
type UnkeyedRecord struct {
	ID         string
	SourceType string
	RemoteUID  string
}

func main() {
	dryRun := flag.Bool("dry-run", false, "Preview relinking without executing")
	flag.Parse()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting home dir: %v\n", err)
		os.Exit(1)
	}
	dbPath := filepath.Join(homeDir, ".driftwatch", "driftwatch.db")

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	records, err := findUnkeyedRecords(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding unkeyed records: %v\n", err)
		os.Exit(1)
	}

	if len(records) == 0 {
		fmt.Println("No unkeyed records found")
		return
	}

	fmt.Printf("Found %d unkeyed record(s):\n\n", len(records))

	relinked := 0
	for _, record := range records {
		originID, err := soleOriginForType(db, record.SourceType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving origin for %s: %v\n", record.ID, err)
			os.Exit(1)
		}

		fmt.Printf("  %s (%s, uid %s)\n", record.ID, record.SourceType, record.RemoteUID)
		if originID == "" {
			fmt.Printf("    -> skipped: no unambiguous %s origin\n", record.SourceType)
			continue
		}
		fmt.Printf("    -> Origin: %s\n", originID)

		if !*dryRun {
			_, err := db.Exec("UPDATE records SET origin_id = ? WHERE id = ?", originID, record.ID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error relinking %s: %v\n", record.ID, err)
				os.Exit(1)
			}
		}
		relinked++
	}

	if *dryRun {
		fmt.Printf("\nDry run: %d record(s) would be relinked\n", relinked)
		return
	}
	fmt.Printf("\nRelinked %d record(s)\n", relinked)
}

// findUnkeyedRecords returns records with no origin reference.
func findUnkeyedRecords(db *sql.DB) ([]UnkeyedRecord, error) {
	rows, err := db.Query(
		"SELECT id, source_type, remote_uid FROM records WHERE origin_id IS NULL OR origin_id = '' ORDER BY id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []UnkeyedRecord
	for rows.Next() {
		var r UnkeyedRecord
		if err := rows.Scan(&r.ID, &r.SourceType, &r.RemoteUID); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// soleOriginForType returns the origin id when exactly one active origin
// exists for the source type; relinking to anything less certain needs a
// human.
func soleOriginForType(db *sql.DB, sourceType string) (string, error) {
	rows, err := db.Query(
		"SELECT id FROM origins WHERE source_type = ? AND status = 'active'", sourceType,
	)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	if len(ids) != 1 {
		return "", nil
	}
	return ids[0], nil
}
