// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records conversion runs in a SQLite ledger so past
// outcomes, warnings, and errors can be listed after the output directories
// are gone.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/texport/pkg/types"
)

// DefaultDBPath is where the ledger lives when no path is configured.
const DefaultDBPath = ".texport/history.db"

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned by Get when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// Message kinds stored in run_messages.
const (
	KindWarning = "warning"
	KindError   = "error"
)

// Run is one recorded conversion.
type Run struct {
	ID          string    `json:"id" yaml:"id"`
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt  time.Time `json:"finished_at" yaml:"finished_at"`
	SourceDir   string    `json:"source_dir" yaml:"source_dir"`
	TemplateDir string    `json:"template_dir" yaml:"template_dir"`
	OutDir      string    `json:"out_dir" yaml:"out_dir"`
	OK          bool      `json:"ok" yaml:"ok"`
	Warnings    int       `json:"warnings" yaml:"warnings"`
	Errors      int       `json:"errors" yaml:"errors"`

	// Report is the path of the Markdown report written for the run.
	Report string `json:"report" yaml:"report"`

	// Messages is filled by Get only.
	Messages []Message `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// Message is a warning or error recorded for a run.
type Message struct {
	Kind string `json:"kind" yaml:"kind"`
	Text string `json:"text" yaml:"text"`
}

// Store manages the history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger at path, creating parent directories and
// the schema as needed.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			source_dir TEXT,
			template_dir TEXT,
			out_dir TEXT,
			ok INTEGER NOT NULL,
			warnings INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			report TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS run_messages (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			seq INTEGER NOT NULL,
			message TEXT NOT NULL,
			PRIMARY KEY (run_id, kind, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores the outcome of a run. Recording the same run ID twice
// replaces the earlier record.
func (s *Store) Record(ctx context.Context, r *types.Report, cfg types.ConversionConfig) error {
	cfg = cfg.WithDefaults()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_messages WHERE run_id = ?`, r.RunID); err != nil {
		return fmt.Errorf("clearing old messages: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, source_dir, template_dir, out_dir, ok, warnings, errors, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			started_at=excluded.started_at, finished_at=excluded.finished_at,
			source_dir=excluded.source_dir, template_dir=excluded.template_dir,
			out_dir=excluded.out_dir, ok=excluded.ok, warnings=excluded.warnings,
			errors=excluded.errors, report=excluded.report`,
		r.RunID, formatTime(r.StartedAt), formatTime(r.FinishedAt),
		cfg.SourceDir, cfg.TemplateDir, cfg.OutDir,
		boolToInt(r.OK()), len(r.Warnings), len(r.Errors),
		filepath.Join(cfg.OutDir, cfg.ReportName),
	)
	if err != nil {
		return fmt.Errorf("upserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_messages (run_id, kind, seq, message) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for kind, msgs := range map[string][]string{KindWarning: r.Warnings, KindError: r.Errors} {
		for i, m := range msgs {
			if _, err := stmt.ExecContext(ctx, r.RunID, kind, i, m); err != nil {
				return fmt.Errorf("inserting %s %d: %w", kind, i, err)
			}
		}
	}

	return tx.Commit()
}

// List returns the most recent runs, newest first. A non-positive limit
// returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, finished_at, source_dir, template_dir, out_dir, ok, warnings, errors, report
		FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// Get returns one run with its warnings and errors in recorded order.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, source_dir, template_dir, out_dir, ok, warnings, errors, report
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, message FROM run_messages WHERE run_id = ?
		 ORDER BY CASE kind WHEN 'error' THEN 0 ELSE 1 END, seq`, id)
	if err != nil {
		return Run{}, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.Kind, &m.Text); err != nil {
			return Run{}, fmt.Errorf("scanning message: %w", err)
		}
		run.Messages = append(run.Messages, m)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("iterating messages: %w", err)
	}
	return run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run                 Run
		started, finished   sql.NullString
		src, tmpl, out, rep sql.NullString
		ok                  int
	)
	err := sc.Scan(&run.ID, &started, &finished, &src, &tmpl, &out, &ok, &run.Warnings, &run.Errors, &rep)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	run.StartedAt = parseTime(started.String)
	run.FinishedAt = parseTime(finished.String)
	run.SourceDir = src.String
	run.TemplateDir = tmpl.String
	run.OutDir = out.String
	run.Report = rep.String
	run.OK = ok != 0
	return run, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
