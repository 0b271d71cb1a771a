package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	derrors "git.home.luguber.info/inful/docsetgen/internal/foundation/errors"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens the history database and creates its schema.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, derrors.StorageError("could not open history database").
			WithCause(err).
			WithReason(dbPath).
			Build()
	}
	// every pooled connection to ":memory:" would see its own database
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, derrors.StorageError("failed to initialize history schema").
			WithCause(err).
			WithReason(dbPath).
			Build()
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		project TEXT NOT NULL,
		bundle_id TEXT,
		artifact_id TEXT,
		triggered_by TEXT NOT NULL,
		outcome TEXT NOT NULL,
		error_code INTEGER NOT NULL DEFAULT -1,
		digest TEXT,
		started INTEGER NOT NULL,
		finished INTEGER NOT NULL,
		details TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_project ON runs(project);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record adds a run to the store.
func (s *SQLiteStore) Record(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var detailsJSON []byte
	if len(run.Details) > 0 {
		var err error
		detailsJSON, err = json.Marshal(run.Details)
		if err != nil {
			return fmt.Errorf("marshal details: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, project, bundle_id, artifact_id, triggered_by, outcome, error_code, digest, started, finished, details)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Project, run.BundleID, run.ArtifactID, run.Trigger, run.Outcome, run.ErrorCode,
		run.Digest, run.Started.UnixNano(), run.Finished.UnixNano(), detailsJSON,
	)
	if err != nil {
		b := derrors.StorageError("failed to record generation run").
			WithCause(err).
			WithContext("run_id", run.ID)
		if isConstraintViolation(err) {
			b = b.WithRetry(derrors.RetryNever)
		}
		return b.Build()
	}
	return nil
}

// isConstraintViolation reports whether err is a SQLite constraint failure,
// such as a duplicate run ID. Those fail the same way on every attempt.
func isConstraintViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	// extended result codes carry the primary code in the low byte
	return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, project string, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, project, bundle_id, artifact_id, triggered_by, outcome, error_code, digest, started, finished, details
		FROM runs`
	var args []any
	if project != "" {
		query += " WHERE project = ?"
		args = append(args, project)
	}
	query += " ORDER BY seq DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, derrors.StorageError("failed to query generation runs").WithCause(err).Build()
	}
	defer rows.Close()

	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var (
			r                         Run
			bundleID, artifactID      sql.NullString
			digest, detailsJSON       sql.NullString
			startedNano, finishedNano int64
		)
		err := rows.Scan(&r.ID, &r.Project, &bundleID, &artifactID, &r.Trigger, &r.Outcome, &r.ErrorCode,
			&digest, &startedNano, &finishedNano, &detailsJSON)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.BundleID = bundleID.String
		r.ArtifactID = artifactID.String
		r.Digest = digest.String
		r.Started = time.Unix(0, startedNano)
		r.Finished = time.Unix(0, finishedNano)

		if detailsJSON.String != "" {
			if err := json.Unmarshal([]byte(detailsJSON.String), &r.Details); err != nil {
				return nil, fmt.Errorf("unmarshal details: %w", err)
			}
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return runs, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
