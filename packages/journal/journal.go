// Package journal keeps a durable SQLite index of capture sessions and the
// artifacts they produced, independent of the evidence document itself.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	case_name   TEXT NOT NULL,
	document    TEXT NOT NULL,
	resumed     INTEGER NOT NULL DEFAULT 0,
	first_number INTEGER NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	stopped_at  TIMESTAMP
);
CREATE TABLE IF NOT EXISTS artifacts (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id    TEXT NOT NULL REFERENCES sessions(id),
	label         TEXT NOT NULL,
	caption       TEXT NOT NULL,
	image_path    TEXT NOT NULL,
	display_index INTEGER,
	error         TEXT,
	captured_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_artifacts_session ON artifacts(session_id);
`

// Session is one row of the sessions table
type Session struct {
	ID          string
	CaseName    string
	Document    string
	Resumed     bool
	FirstNumber int
	StartedAt   time.Time
	StoppedAt   *time.Time
	Artifacts   int
}

// Entry is one row of the artifacts table
type Entry struct {
	SessionID    string
	Label        string
	Caption      string
	ImagePath    string
	DisplayIndex *int
	Error        string
	CapturedAt   time.Time
}

// Journal represents an open journal database
type Journal struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// Open opens or creates the journal at path
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	// One writer; the capture loop is sequential anyway.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to journal: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create journal schema: %w", err)
	}

	return &Journal{db: db, queryTimeout: 10 * time.Second}, nil
}

// Close closes the journal
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// BeginSession records a session start
func (j *Journal) BeginSession(s Session) error {
	ctx, cancel := context.WithTimeout(context.Background(), j.queryTimeout)
	defer cancel()

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO sessions (id, case_name, document, resumed, first_number, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.CaseName, s.Document, s.Resumed, s.FirstNumber, s.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}
	return nil
}

// EndSession marks a session as stopped
func (j *Journal) EndSession(id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), j.queryTimeout)
	defer cancel()

	res, err := j.db.ExecContext(ctx, `UPDATE sessions SET stopped_at = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("unknown session %s", id)
	}
	return nil
}

// Append records one artifact
func (j *Journal) Append(e Entry) error {
	ctx, cancel := context.WithTimeout(context.Background(), j.queryTimeout)
	defer cancel()

	var display sql.NullInt64
	if e.DisplayIndex != nil {
		display = sql.NullInt64{Int64: int64(*e.DisplayIndex), Valid: true}
	}
	var errText sql.NullString
	if e.Error != "" {
		errText = sql.NullString{String: e.Error, Valid: true}
	}

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO artifacts (session_id, label, caption, image_path, display_index, error, captured_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Label, e.Caption, e.ImagePath, display, errText, e.CapturedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record artifact: %w", err)
	}
	return nil
}

// Sessions lists sessions, newest first
func (j *Journal) Sessions() ([]Session, error) {
	ctx, cancel := context.WithTimeout(context.Background(), j.queryTimeout)
	defer cancel()

	rows, err := j.db.QueryContext(ctx, `
		SELECT s.id, s.case_name, s.document, s.resumed, s.first_number, s.started_at, s.stopped_at,
		       (SELECT COUNT(*) FROM artifacts a WHERE a.session_id = s.id)
		FROM sessions s
		ORDER BY s.started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var result []Session
	for rows.Next() {
		var s Session
		var stopped sql.NullTime
		if err := rows.Scan(&s.ID, &s.CaseName, &s.Document, &s.Resumed, &s.FirstNumber, &s.StartedAt, &stopped, &s.Artifacts); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if stopped.Valid {
			t := stopped.Time
			s.StoppedAt = &t
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return result, nil
}

// Entries lists the artifacts of a session in capture order
func (j *Journal) Entries(sessionID string) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), j.queryTimeout)
	defer cancel()

	rows, err := j.db.QueryContext(ctx, `
		SELECT session_id, label, caption, image_path, display_index, error, captured_at
		FROM artifacts WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		var e Entry
		var display sql.NullInt64
		var errText sql.NullString
		if err := rows.Scan(&e.SessionID, &e.Label, &e.Caption, &e.ImagePath, &display, &errText, &e.CapturedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if display.Valid {
			idx := int(display.Int64)
			e.DisplayIndex = &idx
		}
		e.Error = errText.String
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return result, nil
}
