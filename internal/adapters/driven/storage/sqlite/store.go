package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/confclone/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/core/ports/driven"
)

// Store is a SQLite-based storage that provides access to
// the store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.confclone/data/runs.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".confclone", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "runs.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RunStore returns a RunStore interface backed by this store.
func (s *Store) RunStore() driven.RunStore {
	return &runStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_runs.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Run Store ====================

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// Save stores or replaces a run. Page outcomes are rewritten as a whole.
func (s *runStore) Save(ctx context.Context, report domain.RunReport) (err error) {
	if report.ID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, source_space, target_space, target_parent_id, pattern, replacement,
			status, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			error = excluded.error,
			finished_at = excluded.finished_at
	`, report.ID, report.SourceSpace, report.TargetSpace, report.TargetParentID,
		report.Pattern, report.Replacement, string(report.Status), report.Err,
		report.StartedAt.UTC(), nullTime(report.FinishedAt))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM page_outcomes WHERE run_id = ?", report.ID); err != nil {
		return fmt.Errorf("clearing page outcomes: %w", err)
	}

	for i, p := range report.Pages {
		var restrictionsJSON []byte
		restrictionsJSON, err = json.Marshal(p.Restrictions)
		if err != nil {
			return fmt.Errorf("marshalling restrictions: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO page_outcomes (run_id, seq, source_id, title, target_parent_id, new_id,
				mode, status, title_updated, error, restrictions)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, report.ID, i, p.SourceID, p.Title, p.TargetParentID, p.NewID,
			string(p.Mode), string(p.Status), p.TitleUpdated, p.Err, string(restrictionsJSON))
		if err != nil {
			return fmt.Errorf("saving page outcome %s: %w", p.SourceID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID with its page outcomes in walk order.
func (s *runStore) Get(ctx context.Context, id string) (*domain.RunReport, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_space, target_space, target_parent_id, pattern, replacement,
			status, error, started_at, finished_at
		FROM runs WHERE id = ?
	`, id)

	report, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT source_id, title, target_parent_id, new_id, mode, status, title_updated, error, restrictions
		FROM page_outcomes WHERE run_id = ? ORDER BY seq
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying page outcomes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.PageOutcome
		var mode, status, restrictionsJSON string
		if err := rows.Scan(&p.SourceID, &p.Title, &p.TargetParentID, &p.NewID,
			&mode, &status, &p.TitleUpdated, &p.Err, &restrictionsJSON); err != nil {
			return nil, fmt.Errorf("scanning page outcome: %w", err)
		}
		p.Mode = domain.CloneMode(mode)
		p.Status = domain.PageStatus(status)
		if err := json.Unmarshal([]byte(restrictionsJSON), &p.Restrictions); err != nil {
			return nil, fmt.Errorf("unmarshaling restrictions: %w", err)
		}
		report.Pages = append(report.Pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating page outcomes: %w", err)
	}

	return report, nil
}

// List returns runs, most recent first, without page outcomes.
func (s *runStore) List(ctx context.Context, limit int) ([]domain.RunReport, error) {
	query := `
		SELECT id, source_space, target_space, target_parent_id, pattern, replacement,
			status, error, started_at, finished_at
		FROM runs ORDER BY started_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunReport //nolint:prealloc // size unknown from query
	for rows.Next() {
		report, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRun reads one runs row.
func scanRun(row rowScanner) (*domain.RunReport, error) {
	var report domain.RunReport
	var status string
	var startedAt, finishedAt sql.NullTime
	if err := row.Scan(&report.ID, &report.SourceSpace, &report.TargetSpace, &report.TargetParentID,
		&report.Pattern, &report.Replacement, &status, &report.Err, &startedAt, &finishedAt); err != nil {
		return nil, err
	}
	report.Status = domain.RunStatus(status)
	if startedAt.Valid {
		report.StartedAt = startedAt.Time
	}
	if finishedAt.Valid {
		report.FinishedAt = finishedAt.Time
	}
	return &report, nil
}

// nullTime converts a zero time to NULL.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
