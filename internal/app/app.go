package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"docterm/internal/broadcast"
	"docterm/internal/history"
	"docterm/internal/processor"
	"docterm/internal/replay"
	"docterm/internal/source"
	"docterm/internal/state"
	"docterm/internal/telemetry"
	"docterm/internal/term"
	"docterm/internal/ui"
)

const finishTimeout = 5 * time.Second

type App struct {
	cfg Config

	logger  *telemetry.JSONLogger
	debug   *clog.Logger
	debugW  io.Closer
	store   state.Store
	history *history.Store
}

func New(cfg Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	logger, err := telemetry.NewJSONLogger(cfg.LogPath)
	if err != nil {
		return nil, err
	}
	level, err := telemetry.ParseLevel(cfg.LogLevel)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	logger.SetLevel(level)

	store, err := state.NewSQLite(filepath.Join(cfg.DataDir, "state.db"))
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	if err := store.EnsureSchema(context.Background()); err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		logger:  logger,
		debug:   clog.New(io.Discard),
		store:   store,
		history: history.NewStore(cfg.DataDir),
	}
	if cfg.Debug {
		f, err := os.OpenFile(filepath.Join(cfg.DataDir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.debugW = f
		a.debug = clog.NewWithOptions(f, clog.Options{
			Level:           clog.DebugLevel,
			ReportTimestamp: true,
			Prefix:          "docterm",
		})
	}
	return a, nil
}

func (a *App) Config() Config            { return a.cfg }
func (a *App) Store() state.Store        { return a.store }
func (a *App) History() *history.Store   { return a.history }
func (a *App) DebugLogger() *clog.Logger { return a.debug }

func (a *App) Close() {
	_ = a.store.Close()
	_ = a.logger.Close()
	if a.debugW != nil {
		_ = a.debugW.Close()
	}
}

// PTYSource runs command under a pseudo terminal sized from the config.
func (a *App) PTYSource(command []string) *source.PTY {
	return source.NewPTY(source.PTYOptions{
		Command: command,
		Rows:    a.cfg.Rows,
		Cols:    a.cfg.Cols,
		Logger:  a.debug.WithPrefix("pty"),
	})
}

// ReplaySource loads a YAML or ttyrec recording.
func (a *App) ReplaySource(path string, opts replay.PlayOptions) (*source.Replay, error) {
	rec, err := replay.Load(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return source.NewReplay(name, rec, opts), nil
}

// NewView builds the view selected by the UI mode. Plain output goes to w.
func (a *App) NewView(w io.Writer) ui.View {
	theme := ui.ThemeForVariant(a.cfg.UI.Theme)
	switch a.cfg.UI.Mode {
	case "tui":
		return ui.NewViewer(ui.ViewerOptions{
			Theme:    theme,
			MaxLines: a.cfg.UI.MaxLines,
			Logger:   a.debug.WithPrefix("ui"),
		})
	case "off":
		return ui.NewPrinter(io.Discard, theme, false)
	default:
		return ui.NewPrinter(w, theme, ui.IsTerminal(w))
	}
}

// RunOptions tunes one session.
type RunOptions struct {
	// SessionID defaults to a new UUID.
	SessionID string
	// RecordPath saves the raw chunks as a replay file when set.
	RecordPath string
	// Linger keeps the view open after the source ends until the user quits.
	Linger bool
	// Inspect is called with the closed processor before the session is
	// recorded as finished.
	Inspect func(*processor.Processor)
}

// Result summarizes a finished session.
type Result struct {
	SessionID      string
	TranscriptPath string
	Stats          processor.Stats
}

// Run drives src through a processor into view until the source ends or
// the user quits, and records the session in the index.
func (a *App) Run(ctx context.Context, src source.Source, view ui.View, opts RunOptions) (Result, error) {
	id := opts.SessionID
	if id == "" {
		id = uuid.NewString()
	}
	res := Result{SessionID: id}
	log := a.logger.With(map[string]any{"session": id})

	transcript := ""
	if a.cfg.History.Save {
		p, err := a.history.Path(id)
		if err != nil {
			return res, err
		}
		transcript = p
	}
	res.TranscriptPath = transcript

	if err := a.store.StartSession(ctx, state.Session{
		ID:             id,
		Source:         src.Name(),
		Rows:           a.cfg.Rows,
		Cols:           a.cfg.Cols,
		TranscriptPath: transcript,
		StartTS:        time.Now().UTC(),
	}); err != nil {
		return res, fmt.Errorf("start session: %w", err)
	}
	log.Info("session.start", map[string]any{"source": src.Name(), "ui": a.cfg.UI.Mode})

	popts := a.cfg.ProcessorOptions()
	popts.Logger = a.debug.WithPrefix("proc")
	proc := processor.New(popts)

	var rec *replay.Recorder
	if opts.RecordPath != "" {
		rec = replay.NewRecorder()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	ctrl := &controller{src: src, proc: proc, view: view, cancel: cancel, log: log}
	view.SetController(ctrl)

	lines := proc.SubscribeLines()
	plain := proc.SubscribePlain()
	busy := proc.SubscribeIndicator()
	bars := proc.SubscribeBar()
	status := proc.SubscribeStatusBar()

	var (
		g      errgroup.Group
		srcErr error
	)
	g.Go(func() error {
		defer proc.Close()
		srcErr = src.Run(runCtx, func(chunk string) {
			if rec != nil {
				rec.Record(chunk)
			}
			proc.Process(chunk)
		})
		if srcErr != nil {
			log.Warn("source.error", map[string]any{"error": srcErr})
		}
		if opts.Linger && runCtx.Err() == nil {
			view.FlashStatus("session ended, Ctrl+Q to quit")
		} else {
			view.Stop()
		}
		return nil
	})
	g.Go(func() error {
		for batch := range lines.C {
			view.AppendLines(batch)
		}
		return nil
	})
	g.Go(func() error {
		for text := range plain.C {
			if transcript == "" {
				continue
			}
			if err := a.history.Append(id, text); err != nil {
				log.Error("history.append_failed", map[string]any{"error": err})
			}
		}
		return nil
	})
	g.Go(func() error {
		for u := range busy.C {
			view.SetIndicator(u)
		}
		return nil
	})
	g.Go(func() error {
		a.trackWindows(context.WithoutCancel(ctx), id, bars, view, log)
		return nil
	})
	g.Go(func() error {
		for text := range status.C {
			view.SetStatusBar(text)
		}
		return nil
	})

	viewErr := view.Run()
	cancel()
	_ = g.Wait()
	if opts.Inspect != nil {
		opts.Inspect(proc)
	}

	res.Stats = proc.Stats()
	endCtx, endCancel := context.WithTimeout(context.WithoutCancel(ctx), finishTimeout)
	defer endCancel()
	end := state.SessionEnd{
		EndTS:         time.Now().UTC(),
		Chunks:        res.Stats.Chunks,
		Bytes:         res.Stats.Bytes,
		LinesEmitted:  res.Stats.LinesEmitted,
		LinesFiltered: res.Stats.LinesFiltered,
		Resets:        res.Stats.Resets,
	}
	if srcErr != nil {
		end.ExitErr = srcErr.Error()
	}
	if err := a.store.FinishSession(endCtx, id, end); err != nil {
		log.Error("session.finish_failed", map[string]any{"error": err})
	}
	if rec != nil && rec.Len() > 0 {
		if err := replay.Save(opts.RecordPath, rec.Recording(a.cfg.Rows, a.cfg.Cols)); err != nil {
			log.Error("record.save_failed", map[string]any{"path": opts.RecordPath, "error": err})
			return res, errors.Join(srcErr, viewErr, err)
		}
		log.Info("record.saved", map[string]any{"path": opts.RecordPath, "frames": rec.Len()})
	}
	log.Info("session.end", map[string]any{
		"chunks":         res.Stats.Chunks,
		"lines_emitted":  res.Stats.LinesEmitted,
		"lines_filtered": res.Stats.LinesFiltered,
	})
	return res, errors.Join(srcErr, viewErr)
}

// trackWindows forwards bar updates to the view and records every change
// of the active window.
func (a *App) trackWindows(ctx context.Context, id string, bars *broadcast.Subscription[processor.BarUpdate], view ui.View, log *telemetry.JSONLogger) {
	last := processor.Window{Index: -1}
	assistant := strings.ToLower(a.cfg.AssistantName)
	for bar := range bars.C {
		view.SetBar(bar)
		w, ok := bar.Active()
		if !ok || (w.Index == last.Index && w.Name == last.Name) {
			continue
		}
		last = w
		ev := state.WindowEvent{
			SessionID:   id,
			WindowIndex: w.Index,
			Name:        w.Name,
			Assistant:   strings.Contains(strings.ToLower(w.Name), assistant),
			TS:          time.Now().UTC(),
		}
		if err := a.store.RecordWindowEvent(ctx, ev); err != nil {
			log.Error("window_event.record_failed", map[string]any{"error": err})
			continue
		}
		log.Info("window.switch", map[string]any{"index": w.Index, "name": w.Name, "assistant": ev.Assistant})
	}
}

// controller turns view input into bytes for the source.
type controller struct {
	src    source.Source
	proc   *processor.Processor
	view   ui.View
	cancel context.CancelFunc
	log    *telemetry.JSONLogger

	mu   sync.Mutex
	quit bool
}

func (c *controller) OnSubmit(text string) {
	c.send(term.EncodeSubmit(text, c.proc.BracketedPaste()))
}

func (c *controller) OnKey(data []byte) {
	c.send(data)
}

func (c *controller) OnQuit() {
	c.mu.Lock()
	already := c.quit
	c.quit = true
	c.mu.Unlock()
	if already {
		return
	}
	c.log.Info("ui.quit", nil)
	c.cancel()
	c.view.Stop()
}

func (c *controller) send(data []byte) {
	if len(data) == 0 {
		return
	}
	err := c.src.Send(data)
	switch {
	case err == nil:
	case errors.Is(err, source.ErrReadOnly):
		c.view.FlashStatus("read-only session")
	default:
		c.log.Warn("source.send_failed", map[string]any{"error": err})
		c.view.FlashStatus("send failed: " + err.Error())
	}
}
