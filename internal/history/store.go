package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mirzapolat/visual-bereal-processor/internal/model"
)

// Run is one recorded processing run.
type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	Format     string

	InputFiles    int
	Processed     int
	Converted     int
	Skipped       int
	SkippedByDate int
	EntryErrors   int
	Combined      int
}

// Store is the SQLite-backed run ledger.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the ledger at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func migrate(db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at      TIMESTAMP NOT NULL,
		finished_at     TIMESTAMP NOT NULL,
		format          TEXT NOT NULL,
		input_files     INTEGER NOT NULL,
		processed       INTEGER NOT NULL,
		converted       INTEGER NOT NULL,
		skipped         INTEGER NOT NULL,
		skipped_by_date INTEGER NOT NULL,
		entry_errors    INTEGER NOT NULL,
		combined        INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate history schema: %w", err)
	}
	return nil
}

// RecordRun stores one finished run built from its report.
func (s *Store) RecordRun(report model.Report, format string, startedAt, finishedAt time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (
			started_at, finished_at, format,
			input_files, processed, converted,
			skipped, skipped_by_date, entry_errors, combined
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		startedAt, finishedAt, format,
		report.InputFiles, report.Processed, report.Converted,
		report.Skipped, report.SkippedByDate, report.EntryErrors, report.Combined,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT id, started_at, finished_at, format,
		       input_files, processed, converted,
		       skipped, skipped_by_date, entry_errors, combined
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(
			&r.ID, &r.StartedAt, &r.FinishedAt, &r.Format,
			&r.InputFiles, &r.Processed, &r.Converted,
			&r.Skipped, &r.SkippedByDate, &r.EntryErrors, &r.Combined,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
