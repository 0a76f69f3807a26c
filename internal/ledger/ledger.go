// Package ledger records generation runs in a per-project sqlite
// database so operators can see what was generated and when.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run is one recorded generation run.
type Run struct {
	ID          int64
	EntityName  string
	ModuleName  string
	CrudType    string
	Variant     string
	Fields      string // DSL form
	FilesCount  int
	MergedFiles string // comma separated shared-file paths
	DryRun      bool
	CreatedAt   time.Time
}

// Filter narrows ListRuns results. Zero values match everything.
type Filter struct {
	EntityName string
	ModuleName string
}

// Ledger wraps the sqlite database holding run history.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger database under the
// project's .slicegen directory and applies pending migrations.
func Open(projectRoot string) (*Ledger, error) {
	dir := filepath.Join(projectRoot, ".slicegen")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .slicegen directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, "slicegen.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// RecordRun inserts one run into the history.
func (l *Ledger) RecordRun(ctx context.Context, run Run) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO runs (entity_name, module_name, crud_type, variant, fields, files_count, merged_files, dry_run, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.EntityName, run.ModuleName, run.CrudType, run.Variant,
		run.Fields, run.FilesCount, run.MergedFiles, run.DryRun,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// ListRuns returns runs matching the filter, newest first.
func (l *Ledger) ListRuns(ctx context.Context, filter Filter) ([]Run, error) {
	query := `
		SELECT id, entity_name, module_name, crud_type, variant, fields, files_count, merged_files, dry_run, created_at
		FROM runs`
	var conds []string
	var args []any
	if filter.EntityName != "" {
		conds = append(conds, "entity_name = ?")
		args = append(args, filter.EntityName)
	}
	if filter.ModuleName != "" {
		conds = append(conds, "module_name = ?")
		args = append(args, filter.ModuleName)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id DESC"

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var created string
		if err := rows.Scan(&run.ID, &run.EntityName, &run.ModuleName, &run.CrudType,
			&run.Variant, &run.Fields, &run.FilesCount, &run.MergedFiles, &run.DryRun, &created); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.CreatedAt, _ = time.Parse(time.RFC3339, created)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
