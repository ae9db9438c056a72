package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "nested", "state.db"))
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	// Schema creation must be idempotent.
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema twice: %v", err)
	}
	return store
}

func TestSessionLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, time.February, 18, 14, 32, 0, 0, time.UTC)

	if err := store.StartSession(ctx, Session{
		ID:             "s1",
		Source:         "pty:zsh",
		Rows:           24,
		Cols:           80,
		TranscriptPath: "/tmp/s1.txt",
		StartTS:        start,
	}); err != nil {
		t.Fatalf("start session: %v", err)
	}

	got, err := store.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got == nil || got.Finished() {
		t.Fatalf("expected running session, got %+v", got)
	}
	if !got.StartTS.Equal(start) || got.Rows != 24 || got.Source != "pty:zsh" {
		t.Fatalf("unexpected session %+v", got)
	}

	end := start.Add(90 * time.Second)
	if err := store.FinishSession(ctx, "s1", SessionEnd{
		EndTS:         end,
		Chunks:        120,
		Bytes:         4096,
		LinesEmitted:  33,
		LinesFiltered: 7,
		Resets:        1,
	}); err != nil {
		t.Fatalf("finish session: %v", err)
	}
	got, err = store.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("get finished session: %v", err)
	}
	if !got.Finished() || !got.EndTS.Equal(end) || got.Chunks != 120 || got.LinesEmitted != 33 || got.Resets != 1 {
		t.Fatalf("unexpected finished session %+v", got)
	}
}

func TestFinishUnknownSession(t *testing.T) {
	store := newTestStore(t)
	if err := store.FinishSession(context.Background(), "missing", SessionEnd{}); err == nil {
		t.Fatalf("expected error for unknown session")
	}
}

func TestGetSessionMissing(t *testing.T) {
	store := newTestStore(t)
	got, err := store.GetSession(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestListSessionsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := store.StartSession(ctx, Session{ID: id, Source: "replay", Rows: 24, Cols: 80, StartTS: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("start %s: %v", id, err)
		}
	}

	all, err := store.ListSessions(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Fatalf("unexpected order %+v", all)
	}

	limited, err := store.ListSessions(ctx, 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 || limited[1].ID != "b" {
		t.Fatalf("unexpected limited list %+v", limited)
	}
}

func TestWindowEventsAndSummary(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if err := store.StartSession(ctx, Session{ID: "s1", Source: "replay", Rows: 24, Cols: 80}); err != nil {
		t.Fatalf("start: %v", err)
	}
	events := []WindowEvent{
		{SessionID: "s1", WindowIndex: 0, Name: "claude", Assistant: true},
		{SessionID: "s1", WindowIndex: 1, Name: "zsh"},
	}
	for _, ev := range events {
		if err := store.RecordWindowEvent(ctx, ev); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	got, err := store.WindowEvents(ctx, "s1")
	if err != nil {
		t.Fatalf("window events: %v", err)
	}
	if len(got) != 2 || !got[0].Assistant || got[1].Name != "zsh" || got[1].Assistant {
		t.Fatalf("unexpected events %+v", got)
	}

	if err := store.FinishSession(ctx, "s1", SessionEnd{Chunks: 10, Bytes: 100, LinesEmitted: 4}); err != nil {
		t.Fatalf("finish: %v", err)
	}
	sum, err := store.GetSummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Sessions != 1 || sum.Chunks != 10 || sum.Bytes != 100 || sum.LinesEmitted != 4 {
		t.Fatalf("unexpected summary %+v", sum)
	}
}
