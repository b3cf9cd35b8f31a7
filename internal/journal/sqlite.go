// Package journal keeps an activity log of task mutations, undos and redos.
//
// The journal lives in an in-memory SQLite database by default and is
// discarded when the process exits.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// Event names recorded for fresh mutations. Undo and redo entries are
// prefixed with "undo:" or "redo:" followed by the action kind.
const (
	EventAdded   = "added"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// Entry is one journal line.
type Entry struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	Event     string    `json:"event"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

// SQLiteJournal stores entries in SQLite. It is safe for concurrent use.
type SQLiteJournal struct {
	db *sql.DB
}

// Open opens the journal database and applies pending migrations.
func Open(dsn string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	// Each connection to ":memory:" gets its own database.
	db.SetMaxOpenConns(1)

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate journal database: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

// Close closes the database connection.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// Record appends entry and fills in its ID and CreatedAt.
func (j *SQLiteJournal) Record(ctx context.Context, entry *Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	result, err := j.db.ExecContext(ctx, `
		INSERT INTO journal (task_id, event, details, created_at)
		VALUES (?, ?, ?, ?)
	`, entry.TaskID, entry.Event, entry.Details, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record journal entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	entry.ID = id

	return nil
}

// ListByTask returns the entries for one task, oldest first.
func (j *SQLiteJournal) ListByTask(ctx context.Context, taskID int64) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, task_id, event, details, created_at
		FROM journal WHERE task_id = ? ORDER BY id ASC
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return scanEntries(rows)
}

// Recent returns up to limit entries, newest first. A limit of 0 returns all.
func (j *SQLiteJournal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, task_id, event, details, created_at
		FROM journal ORDER BY id DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := j.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var entry Entry
		err := rows.Scan(
			&entry.ID,
			&entry.TaskID,
			&entry.Event,
			&entry.Details,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
