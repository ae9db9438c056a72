package state

import (
	"context"
	"time"
)

type Store interface {
	EnsureSchema(ctx context.Context) error
	StartSession(ctx context.Context, sess Session) error
	FinishSession(ctx context.Context, id string, end SessionEnd) error
	RecordWindowEvent(ctx context.Context, ev WindowEvent) error
	ListSessions(ctx context.Context, limit int) ([]Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	WindowEvents(ctx context.Context, sessionID string) ([]WindowEvent, error)
	GetSummary(ctx context.Context) (Summary, error)
	Close() error
}

// Session is one run of the engine over a chunk source.
type Session struct {
	ID             string
	Source         string
	Rows           int
	Cols           int
	TranscriptPath string
	StartTS        time.Time
	EndTS          time.Time
	Chunks         int64
	Bytes          int64
	LinesEmitted   int64
	LinesFiltered  int64
	Resets         int64
	ExitErr        string
}

// Finished reports whether FinishSession was recorded.
func (s Session) Finished() bool { return !s.EndTS.IsZero() }

type SessionEnd struct {
	EndTS         time.Time
	Chunks        int64
	Bytes         int64
	LinesEmitted  int64
	LinesFiltered int64
	Resets        int64
	ExitErr       string
}

// WindowEvent records a change of the active multiplexer window.
type WindowEvent struct {
	SessionID   string
	WindowIndex int
	Name        string
	Assistant   bool
	TS          time.Time
}

type Summary struct {
	Sessions     int
	Chunks       int64
	Bytes        int64
	LinesEmitted int64
}
