package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/WessleyAI/garage-mvp/engine/domain"
)

// schemaVersion is bumped whenever the persisted task shape changes.
// Stored in PRAGMA user_version so old database files are migrated
// explicitly instead of silently assumed compatible.
const schemaVersion = 1

// SQLiteStore is a sqlite-backed Persister. It persists the full task
// snapshot on every save, matching the store's snapshot-notify
// contract.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database file at path and migrates
// it to the current schema version.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("tasks: open sqlite %s: %w", path, err)
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("tasks: read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("tasks: database schema v%d is newer than supported v%d", version, schemaVersion)
	}
	if version == schemaVersion {
		return nil
	}

	// v0 -> v1: initial schema.
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT NOT NULL UNIQUE,
			title       TEXT NOT NULL,
			due_date    TEXT NOT NULL,
			vehicle_id  TEXT NOT NULL DEFAULT '',
			category    TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL,
			created_at  TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("tasks: create schema: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion)); err != nil {
		return fmt.Errorf("tasks: set schema version: %w", err)
	}
	return nil
}

// LoadTasks returns all persisted tasks in insertion order.
func (s *SQLiteStore) LoadTasks(ctx context.Context) ([]domain.MaintenanceTask, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, due_date, vehicle_id, category, description, status, created_at
		FROM tasks ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("tasks: load: %w", err)
	}
	defer rows.Close()

	var out []domain.MaintenanceTask
	for rows.Next() {
		var t domain.MaintenanceTask
		var due, created, category, status string
		if err := rows.Scan(&t.ID, &t.Title, &due, &t.VehicleID, &category, &t.Description, &status, &created); err != nil {
			return nil, fmt.Errorf("tasks: scan: %w", err)
		}
		t.Category = domain.TaskCategory(category)
		t.Status = domain.TaskStatus(status)
		if t.Date, err = time.Parse(time.RFC3339Nano, due); err != nil {
			return nil, fmt.Errorf("tasks: parse due_date %q: %w", due, err)
		}
		if t.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("tasks: parse created_at %q: %w", created, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SaveTasks replaces the persisted snapshot with tasks, atomically.
func (s *SQLiteStore) SaveTasks(ctx context.Context, tasks []domain.MaintenanceTask) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("tasks: begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("tasks: clear: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (id, title, due_date, vehicle_id, category, description, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("tasks: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tasks {
		if _, err := stmt.ExecContext(ctx,
			t.ID, t.Title, t.Date.Format(time.RFC3339Nano), t.VehicleID,
			string(t.Category), t.Description, string(t.Status),
			t.CreatedAt.Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("tasks: insert %s: %w", t.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tasks: commit save: %w", err)
	}
	return nil
}
