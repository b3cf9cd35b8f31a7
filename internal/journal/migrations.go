package journal

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// schemaStep is one embedded schema script. Steps run in filename order and
// the schema version is the number of steps applied.
type schemaStep struct {
	name string
	sql  string
}

// migrate applies the schema steps past the database's PRAGMA user_version in
// a single transaction and stores the new version.
func migrate(ctx context.Context, db *sql.DB) error {
	steps, err := schemaSteps()
	if err != nil {
		return err
	}

	version, err := schemaVersion(ctx, db)
	if err != nil {
		return err
	}
	if version > len(steps) {
		return fmt.Errorf("journal schema version %d is newer than this build (%d)", version, len(steps))
	}
	if version == len(steps) {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema upgrade: %w", err)
	}
	defer tx.Rollback()

	for _, step := range steps[version:] {
		if _, err := tx.ExecContext(ctx, step.sql); err != nil {
			return fmt.Errorf("apply schema step %s: %w", step.name, err)
		}
	}

	// PRAGMA statements take no bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", len(steps))); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}

	return tx.Commit()
}

func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// schemaSteps returns the embedded scripts sorted by filename.
func schemaSteps() ([]schemaStep, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read schema steps: %w", err)
	}

	steps := make([]schemaStep, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read schema step %s: %w", entry.Name(), err)
		}
		steps = append(steps, schemaStep{
			name: strings.TrimSuffix(entry.Name(), ".sql"),
			sql:  string(content),
		})
	}
	return steps, nil
}
