package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/consult/pkg/consult/internalerr"
	"github.com/cognicore/consult/pkg/consult/sentiment"
	"github.com/cognicore/consult/pkg/consult/store"
)

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// PRAGMAs are per connection; a single connection keeps them in force
	// and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	source TEXT,
	total INTEGER NOT NULL,
	overall TEXT NOT NULL,
	mean_polarity REAL NOT NULL,
	substituted INTEGER NOT NULL DEFAULT 0,
	narrative TEXT,
	report_json TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

CREATE TABLE IF NOT EXISTS run_details (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	comment_id TEXT,
	stakeholder_name TEXT,
	comment_text TEXT,
	provision_reference TEXT,
	sentiment TEXT NOT NULL,
	polarity REAL NOT NULL,
	subjectivity REAL NOT NULL,
	substituted INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY(run_id, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or replaces a run and its details in one transaction
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("save run: empty id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO runs (id, created_at, source, total, overall, mean_polarity, substituted, narrative, report_json)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	created_at=excluded.created_at,
	source=excluded.source,
	total=excluded.total,
	overall=excluded.overall,
	mean_polarity=excluded.mean_polarity,
	substituted=excluded.substituted,
	narrative=excluded.narrative,
	report_json=excluded.report_json;
`
	_, err = tx.ExecContext(
		ctx,
		stmt,
		r.ID,
		r.CreatedAt.UTC().Format(timeLayout),
		r.Source,
		r.Total,
		string(r.Overall),
		r.MeanPolarity,
		r.Substituted,
		r.Narrative,
		string(r.Report),
	)
	if err != nil {
		return err
	}

	if err := replaceDetails(ctx, tx, r.ID, r.Details); err != nil {
		return err
	}

	return tx.Commit()
}

func replaceDetails(ctx context.Context, tx *sql.Tx, runID string, details []sentiment.Detail) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM run_details WHERE run_id=?`, runID); err != nil {
		return err
	}
	if len(details) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO run_details (run_id, position, comment_id, stakeholder_name, comment_text, provision_reference, sentiment, polarity, subjectivity, substituted)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, d := range details {
		if _, err := stmt.ExecContext(ctx, runID, i, d.ID, d.Submitter, d.Text, d.Category,
			string(d.Label), d.Polarity, d.Subjectivity, boolToInt(d.Substituted)); err != nil {
			return err
		}
	}
	return nil
}

// GetRun retrieves a run with its details
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	var (
		r         store.Run
		created   string
		overall   string
		source    sql.NullString
		narrative sql.NullString
		report    sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, created_at, source, total, overall, mean_polarity, substituted, narrative, report_json
FROM runs WHERE id = ?`, id).Scan(
		&r.ID, &created, &source, &r.Total, &overall, &r.MeanPolarity, &r.Substituted, &narrative, &report)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}

	if r.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return store.Run{}, fmt.Errorf("run %s: parse created_at: %w", id, err)
	}
	r.Overall = sentiment.Label(overall)
	r.Source = source.String
	r.Narrative = narrative.String
	if report.String != "" {
		r.Report = []byte(report.String)
	}

	if r.Details, err = s.RunDetails(ctx, id); err != nil {
		return store.Run{}, err
	}
	return r, nil
}

// ListRuns returns run summaries, newest first
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, created_at, source, total, overall, mean_polarity, substituted
FROM runs
ORDER BY created_at DESC, id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.RunSummary
	for rows.Next() {
		var (
			r       store.RunSummary
			created string
			overall string
			source  sql.NullString
		)
		if err := rows.Scan(&r.ID, &created, &source, &r.Total, &overall, &r.MeanPolarity, &r.Substituted); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, err
		}
		r.Overall = sentiment.Label(overall)
		r.Source = source.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunDetails returns the detailed rows of a run in input order
func (s *sqliteStore) RunDetails(ctx context.Context, id string) ([]sentiment.Detail, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT comment_id, stakeholder_name, comment_text, provision_reference, sentiment, polarity, subjectivity, substituted
FROM run_details
WHERE run_id = ?
ORDER BY position;
`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sentiment.Detail
	for rows.Next() {
		var (
			d           sentiment.Detail
			label       string
			substituted int
		)
		if err := rows.Scan(&d.ID, &d.Submitter, &d.Text, &d.Category, &label,
			&d.Polarity, &d.Subjectivity, &substituted); err != nil {
			return nil, err
		}
		d.Label = sentiment.Label(label)
		d.Substituted = substituted != 0
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteRun removes a run; details cascade
func (s *sqliteStore) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
