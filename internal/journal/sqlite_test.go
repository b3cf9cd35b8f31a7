package journal

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"tasktracker/internal/models"
	"tasktracker/internal/store"
)

func setupTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := Open(MemoryDSN)
	if err != nil {
		t.Fatalf("failed to create test journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecord(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	entry := &Entry{TaskID: 1, Event: EventAdded, Details: "created: title='Write report'"}
	if err := j.Record(ctx, entry); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if entry.ID == 0 {
		t.Error("expected entry ID to be set")
	}
	if entry.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestListByTask_OldestFirst(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	j.Record(ctx, &Entry{TaskID: 1, Event: EventAdded})
	j.Record(ctx, &Entry{TaskID: 2, Event: EventAdded})
	j.Record(ctx, &Entry{TaskID: 1, Event: EventUpdated})
	j.Record(ctx, &Entry{TaskID: 1, Event: "undo:edit"})

	got, err := j.ListByTask(ctx, 1)
	if err != nil {
		t.Fatalf("ListByTask failed: %v", err)
	}

	expected := []string{EventAdded, EventUpdated, "undo:edit"}
	if len(got) != len(expected) {
		t.Fatalf("expected %d entries, got %d", len(expected), len(got))
	}
	for i, event := range expected {
		if got[i].Event != event {
			t.Errorf("position %d: expected %q, got %q", i, event, got[i].Event)
		}
		if got[i].TaskID != 1 {
			t.Errorf("position %d: expected task 1, got %d", i, got[i].TaskID)
		}
	}
}

func TestListByTask_Empty(t *testing.T) {
	j := setupTestJournal(t)

	got, err := j.ListByTask(context.Background(), 404)
	if err != nil {
		t.Fatalf("ListByTask failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestRecent_NewestFirstWithLimit(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	for id := int64(1); id <= 5; id++ {
		j.Record(ctx, &Entry{TaskID: id, Event: EventAdded})
	}

	got, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].TaskID != 5 || got[1].TaskID != 4 {
		t.Errorf("expected tasks [5 4], got [%d %d]", got[0].TaskID, got[1].TaskID)
	}

	all, err := j.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("expected all 5 entries with limit 0, got %d", len(all))
	}
}

func TestOpen_SchemaVersion(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	steps, err := schemaSteps()
	if err != nil {
		t.Fatalf("schemaSteps failed: %v", err)
	}
	if len(steps) < 2 || steps[0].name != "001_create_journal" {
		t.Fatalf("unexpected schema steps: %+v", steps)
	}

	version, err := schemaVersion(ctx, j.db)
	if err != nil {
		t.Fatalf("schemaVersion failed: %v", err)
	}
	if version != len(steps) {
		t.Errorf("expected schema version %d, got %d", len(steps), version)
	}

	// Re-running is a no-op.
	if err := migrate(ctx, j.db); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
}

func TestMigrate_AppliesOnlyMissingSteps(t *testing.T) {
	ctx := context.Background()

	db, err := sql.Open("sqlite3", MemoryDSN)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	steps, err := schemaSteps()
	if err != nil {
		t.Fatalf("schemaSteps failed: %v", err)
	}
	if _, err := db.ExecContext(ctx, steps[0].sql); err != nil {
		t.Fatalf("failed to apply first step: %v", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA user_version = 1"); err != nil {
		t.Fatalf("failed to set version: %v", err)
	}

	if err := migrate(ctx, db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	var count int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_journal_task_id'`).Scan(&count)
	if err != nil {
		t.Fatalf("failed to query indexes: %v", err)
	}
	if count != 1 {
		t.Errorf("expected task index to be created, found %d", count)
	}
}

func TestMigrate_RejectsNewerSchema(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	if _, err := j.db.ExecContext(ctx, "PRAGMA user_version = 99"); err != nil {
		t.Fatalf("failed to set version: %v", err)
	}
	if err := migrate(ctx, j.db); err == nil {
		t.Error("expected error for schema newer than this build")
	}
}

func TestEntriesFromActions(t *testing.T) {
	task := models.Task{ID: 3, Title: "Call", Deadline: "2025-01-30", Priority: 2}
	moved := task
	moved.Deadline = "2025-02-01"
	moved.Completed = true

	tests := []struct {
		name        string
		entry       Entry
		wantEvent   string
		wantDetails string
	}{
		{
			name:        "fresh add",
			entry:       FromAction(store.UndoAction{Kind: store.ActionAdd, After: task}),
			wantEvent:   EventAdded,
			wantDetails: "created: title='Call' priority=2 deadline=2025-01-30 status=pending",
		},
		{
			name:        "fresh edit",
			entry:       FromAction(store.UndoAction{Kind: store.ActionEdit, Before: task, After: moved}),
			wantEvent:   EventUpdated,
			wantDetails: "updated: deadline: '2025-01-30' -> '2025-02-01'; status: 'pending' -> 'completed'",
		},
		{
			name:        "fresh delete",
			entry:       FromAction(store.UndoAction{Kind: store.ActionDelete, Before: task}),
			wantEvent:   EventDeleted,
			wantDetails: "removed: title='Call' priority=2 deadline=2025-01-30 status=pending",
		},
		{
			name:        "undo edit reverses the diff",
			entry:       FromUndo(store.UndoAction{Kind: store.ActionEdit, Before: task, After: moved}),
			wantEvent:   "undo:edit",
			wantDetails: "updated: deadline: '2025-02-01' -> '2025-01-30'; status: 'completed' -> 'pending'",
		},
		{
			name:        "undo delete restores",
			entry:       FromUndo(store.UndoAction{Kind: store.ActionDelete, Before: task}),
			wantEvent:   "undo:delete",
			wantDetails: "restored: title='Call' priority=2 deadline=2025-01-30 status=pending",
		},
		{
			name:        "redo add",
			entry:       FromRedo(store.UndoAction{Kind: store.ActionAdd, After: task}),
			wantEvent:   "redo:add",
			wantDetails: "created: title='Call' priority=2 deadline=2025-01-30 status=pending",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.entry.TaskID != 3 {
				t.Errorf("expected task 3, got %d", tt.entry.TaskID)
			}
			if tt.entry.Event != tt.wantEvent {
				t.Errorf("expected event %q, got %q", tt.wantEvent, tt.entry.Event)
			}
			if tt.entry.Details != tt.wantDetails {
				t.Errorf("expected details %q, got %q", tt.wantDetails, tt.entry.Details)
			}
		})
	}
}

func TestFormatTaskDiff_NoChanges(t *testing.T) {
	task := models.Task{ID: 1, Title: "Same"}
	if got := formatTaskDiff(task, task); !strings.HasSuffix(got, "no changes") {
		t.Errorf("expected no changes, got %q", got)
	}
}
