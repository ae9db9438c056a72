package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			rows INTEGER NOT NULL,
			cols INTEGER NOT NULL,
			transcript_path TEXT NOT NULL DEFAULT '',
			start_ts TEXT NOT NULL,
			end_ts TEXT NOT NULL DEFAULT '',
			chunks INTEGER NOT NULL DEFAULT 0,
			bytes INTEGER NOT NULL DEFAULT 0,
			lines_emitted INTEGER NOT NULL DEFAULT 0,
			lines_filtered INTEGER NOT NULL DEFAULT 0,
			resets INTEGER NOT NULL DEFAULT 0,
			exit_err TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS window_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			window_index INTEGER NOT NULL,
			name TEXT NOT NULL,
			assistant INTEGER NOT NULL DEFAULT 0,
			ts TEXT NOT NULL,
			FOREIGN KEY(session_id) REFERENCES sessions(id)
		);`,
		`CREATE INDEX IF NOT EXISTS window_events_session ON window_events(session_id, id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) StartSession(ctx context.Context, sess Session) error {
	if strings.TrimSpace(sess.ID) == "" {
		return errors.New("session id is empty")
	}
	start := sess.StartTS
	if start.IsZero() {
		start = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions(id, source, rows, cols, transcript_path, start_ts) VALUES(?,?,?,?,?,?)`,
		sess.ID,
		sess.Source,
		sess.Rows,
		sess.Cols,
		sess.TranscriptPath,
		start.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("start session %s: %w", sess.ID, err)
	}
	return nil
}

func (s *SQLiteStore) FinishSession(ctx context.Context, id string, end SessionEnd) error {
	endTS := end.EndTS
	if endTS.IsZero() {
		endTS = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET
			end_ts = ?,
			chunks = ?,
			bytes = ?,
			lines_emitted = ?,
			lines_filtered = ?,
			resets = ?,
			exit_err = ?
		WHERE id = ?
	`,
		endTS.UTC().Format(timeLayout),
		end.Chunks,
		end.Bytes,
		end.LinesEmitted,
		end.LinesFiltered,
		end.Resets,
		end.ExitErr,
		id,
	)
	if err != nil {
		return fmt.Errorf("finish session %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish session %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

func (s *SQLiteStore) RecordWindowEvent(ctx context.Context, ev WindowEvent) error {
	ts := ev.TS
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO window_events(session_id, window_index, name, assistant, ts) VALUES(?,?,?,?,?)`,
		ev.SessionID,
		ev.WindowIndex,
		ev.Name,
		ifThen(ev.Assistant, 1, 0),
		ts.UTC().Format(timeLayout),
	)
	return err
}

const sessionColumns = `id, source, rows, cols, transcript_path, start_ts, end_ts,
	chunks, bytes, lines_emitted, lines_filtered, resets, exit_err`

// ListSessions returns the newest sessions first. A non-positive limit
// returns all of them.
func (s *SQLiteStore) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		ORDER BY start_ts DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &sess, nil
}

func (s *SQLiteStore) WindowEvents(ctx context.Context, sessionID string) ([]WindowEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT window_index, name, assistant, ts
		FROM window_events
		WHERE session_id = ?
		ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []WindowEvent
	for rows.Next() {
		var (
			ev        = WindowEvent{SessionID: sessionID}
			assistant int
			tsRaw     string
		)
		if err := rows.Scan(&ev.WindowIndex, &ev.Name, &assistant, &tsRaw); err != nil {
			return nil, err
		}
		ev.Assistant = assistant == 1
		ev.TS = parseTime(tsRaw)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) GetSummary(ctx context.Context) (Summary, error) {
	var out Summary
	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) as sessions,
			COALESCE(SUM(chunks),0) as chunks,
			COALESCE(SUM(bytes),0) as bytes,
			COALESCE(SUM(lines_emitted),0) as lines_emitted
		FROM sessions
	`)
	if err := row.Scan(&out.Sessions, &out.Chunks, &out.Bytes, &out.LinesEmitted); err != nil {
		return Summary{}, err
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (Session, error) {
	var (
		sess          Session
		startRaw, end string
	)
	if err := sc.Scan(
		&sess.ID, &sess.Source, &sess.Rows, &sess.Cols, &sess.TranscriptPath, &startRaw, &end,
		&sess.Chunks, &sess.Bytes, &sess.LinesEmitted, &sess.LinesFiltered, &sess.Resets, &sess.ExitErr,
	); err != nil {
		return Session{}, err
	}
	sess.StartTS = parseTime(startRaw)
	sess.EndTS = parseTime(end)
	return sess, nil
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func parseTime(raw string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func ifThen(cond bool, yes, no int) int {
	if cond {
		return yes
	}
	return no
}
