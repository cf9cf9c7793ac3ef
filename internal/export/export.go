// Package export dumps cursor rows into a local SQLite snapshot file
// for offline inspection. Each export run records a snapshot row plus
// one row per exported record, with the field map JSON-encoded.
package export

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pawrequest/gommence/internal/records"
)

//go:embed schema.sql
var schemaSQL string

// Store is a SQLite snapshot file.
type Store struct {
	db *sql.DB
}

// Open creates or opens a snapshot file, applying pragmas and the
// schema. Idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect snapshot store: %w", err)
	}

	// SQLite supports one writer at a time; a single connection keeps
	// us clear of SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Snapshot describes one export run.
type Snapshot struct {
	ID       string
	Database string
	Category string
	RowCount int
	TakenAt  time.Time
}

// WriteSnapshot reads rows through the handler and writes them as one
// snapshot, atomically. The opts filter and page bound what is
// exported; a zero page exports everything visible.
func (s *Store) WriteSnapshot(dbName string, h *records.Handler, opts records.ReadOpts) (*Snapshot, error) {
	pkLabel, err := h.PKLabel()
	if err != nil {
		return nil, err
	}
	rows, _, err := h.ReadRowsWithIDs(opts)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ID:       uuid.NewString(),
		Database: dbName,
		Category: h.Category(),
		RowCount: len(rows),
		TakenAt:  time.Now().UTC(),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO snapshots (id, db_name, category, row_count, taken_at) VALUES (?, ?, ?, ?, ?)`,
		snap.ID, snap.Database, snap.Category, snap.RowCount, snap.TakenAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO rows (snapshot_id, row_num, row_id, pk, fields) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return nil, fmt.Errorf("prepare row insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		fields, err := json.Marshal(row.Fields)
		if err != nil {
			return nil, fmt.Errorf("encode row %d: %w", i, err)
		}
		if _, err := stmt.Exec(snap.ID, i, row.ID, row.Fields[pkLabel], string(fields)); err != nil {
			return nil, fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit snapshot: %w", err)
	}
	slog.Info("snapshot written",
		"snapshot", snap.ID,
		"category", snap.Category,
		"rows", snap.RowCount)
	return snap, nil
}

// Snapshots lists export runs, newest first.
func (s *Store) Snapshots() ([]Snapshot, error) {
	rows, err := s.db.Query(
		`SELECT id, db_name, category, row_count, taken_at FROM snapshots ORDER BY taken_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var takenAt string
		if err := rows.Scan(&snap.ID, &snap.Database, &snap.Category, &snap.RowCount, &takenAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.TakenAt, err = time.Parse(time.RFC3339, takenAt)
		if err != nil {
			return nil, fmt.Errorf("parse taken_at %q: %w", takenAt, err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// Rows returns the field maps of one snapshot, in export order.
func (s *Store) Rows(snapshotID string) ([]map[string]string, error) {
	rows, err := s.db.Query(
		`SELECT fields FROM rows WHERE snapshot_id = ? ORDER BY row_num`,
		snapshotID,
	)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var out []map[string]string
	for rows.Next() {
		var encoded string
		if err := rows.Scan(&encoded); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		fields := map[string]string{}
		if err := json.Unmarshal([]byte(encoded), &fields); err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		out = append(out, fields)
	}
	return out, rows.Err()
}
