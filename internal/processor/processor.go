// Package processor turns a raw terminal output stream into document-style
// updates: only the genuinely new display lines, plus side channels for the
// busy indicator, the multiplexer window bar and the assistant status bar.
//
// One Processor owns one screen. Chunks must be fed from a single goroutine
// in arrival order; subscriptions may be read from anywhere.
package processor

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	clog "github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"

	"docterm/internal/broadcast"
	"docterm/internal/term"
)

type Processor struct {
	mu     sync.Mutex
	opts   Options
	tuning Tuning
	log    *clog.Logger

	screen *term.Screen
	interp *term.Interpreter
	prev   *term.Snapshot

	assistant    bool
	indicatorRow int
	lastDiff     time.Time
	bar          BarUpdate
	hasBar       bool
	statusBar    string
	closed       bool
	stats        Stats

	filter    *lineFilter
	indicator *indicator

	lines     *broadcast.Queue[[]term.Line]
	plain     *broadcast.Queue[string]
	barOut    *broadcast.Latest[BarUpdate]
	statusOut *broadcast.Latest[string]
}

// New builds a processor with its own screen and interpreter.
func New(opts Options) *Processor {
	opts = opts.withDefaults()
	screen := term.NewScreen(opts.Cols, opts.Rows)
	p := &Processor{
		opts:         opts,
		tuning:       opts.Tuning,
		log:          opts.Logger,
		screen:       screen,
		interp:       term.NewInterpreter(screen),
		indicatorRow: -1,
		indicator:    newIndicator(opts.Tuning.IndicatorTimeout),
		lines:        broadcast.NewQueue[[]term.Line](),
		plain:        broadcast.NewQueue[string](),
		barOut:       broadcast.NewLatest[BarUpdate](),
		statusOut:    broadcast.NewLatestWith(""),
	}
	p.filter = newLineFilter(opts.Tuning, opts.Logger, p.indicator.observe)
	return p
}

// SubscribeLines delivers every batch of new styled lines. Never drops.
func (p *Processor) SubscribeLines() *broadcast.Subscription[[]term.Line] {
	return p.lines.Subscribe()
}

// SubscribePlain delivers each batch as newline-terminated plain text for
// transcript logging. Never drops.
func (p *Processor) SubscribePlain() *broadcast.Subscription[string] {
	return p.plain.Subscribe()
}

// SubscribeIndicator delivers busy indicator changes, newest wins.
func (p *Processor) SubscribeIndicator() *broadcast.Subscription[IndicatorUpdate] {
	return p.indicator.out.Subscribe()
}

// SubscribeBar delivers window bar changes, newest wins.
func (p *Processor) SubscribeBar() *broadcast.Subscription[BarUpdate] {
	return p.barOut.Subscribe()
}

// SubscribeStatusBar delivers the assistant status bar text, newest wins.
// An empty string means no status bar.
func (p *Processor) SubscribeStatusBar() *broadcast.Subscription[string] {
	return p.statusOut.Subscribe()
}

// Process feeds one raw chunk through the pipeline and publishes whatever
// it produced. It never fails; malformed input only degrades output.
func (p *Processor) Process(chunk string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || chunk == "" {
		return
	}

	n := utf8.RuneCountInString(chunk)
	kind := classify(chunk, n, p.tuning)
	p.stats.Chunks++
	p.stats.Bytes += int64(len(chunk))
	p.log.Debug("chunk", "len", n, "kind", kind, "data", preview(chunk))

	p.interp.Feed(chunk)
	p.extractBar()

	scanned := false
	switch kind {
	case ChunkBar:
		return
	case ChunkIncremental:
		if n < p.tuning.SmallChunkMax {
			if p.assistant {
				p.detectIndicator()
				scanned = true
			}
			if p.opts.Clock().Sub(p.lastDiff) < p.tuning.DiffInterval {
				p.stats.Throttled++
				return
			}
		}
	}
	if p.assistant && !scanned {
		p.detectIndicator()
	}

	p.lastDiff = p.opts.Clock()
	p.emit(p.filter.apply(p.diff(kind), p.assistant))
}

func (p *Processor) emit(lines []term.Line) {
	if len(lines) == 0 {
		return
	}
	texts := make([]string, len(lines))
	for i, line := range lines {
		text := line.Text()
		if isFenceLine(text, p.tuning.FenceRatio) && ansi.StringWidth(text) > p.opts.DisplayCols {
			line = truncateLine(line, p.opts.DisplayCols)
			lines[i] = line
			text = line.Text()
		}
		texts[i] = text
		p.log.Debug("emit", "line", text)
	}
	p.stats.LinesEmitted += int64(len(lines))
	p.lines.Publish(lines)

	if plain := strings.Join(texts, "\n"); !isBlank(plain) {
		p.plain.Publish(plain + "\n")
	}
}

// diff compares the screen with the retained snapshot, replaces the
// snapshot, and returns the rows holding new content.
func (p *Processor) diff(kind ChunkKind) []term.Line {
	prev := p.prev
	p.prev = p.screen.Snapshot()
	p.stats.Diffs++

	if prev == nil {
		return p.firstPaint()
	}

	maxRow := p.opts.Rows - 1
	contentRows, prevContentRows := maxRow, maxRow
	skip, prevSkip := -1, -1
	if p.assistant {
		contentRows = footerTop(p.screen, maxRow, p.tuning)
		prevContentRows = footerTop(prev, maxRow, p.tuning)
		// Only full redraws are trusted for the status bar; incremental
		// updates can leave stats rows half overwritten.
		if kind == ChunkFullRedraw {
			p.setStatusBar(statusBarText(p.screen, contentRows, maxRow))
		}
		skip, prevSkip = p.indicatorRow, indicatorRow(prev)
	} else if kind == ChunkFullRedraw {
		p.setStatusBar("")
	}

	prevLines := contentLines(prev, prevContentRows, prevSkip)
	currLines := contentLines(p.screen, contentRows, skip)
	unchanged := func(r int) bool { return p.screen.RowEquals(r, prev) }

	rows := diffRows(prevLines, currLines, unchanged, p.tuning)
	out := make([]term.Line, 0, len(rows))
	for _, r := range rows {
		out = append(out, p.screen.RowStyled(r))
	}
	return out
}

// firstPaint emits every non-blank row except the bar row and the
// indicator row.
func (p *Processor) firstPaint() []term.Line {
	var out []term.Line
	for r := 0; r < p.opts.Rows-1; r++ {
		if p.assistant && r == p.indicatorRow {
			continue
		}
		if isBlank(p.screen.RowText(r)) {
			continue
		}
		out = append(out, p.screen.RowStyled(r))
	}
	return out
}

func contentLines(g term.Grid, n, skip int) []string {
	lines := make([]string, n)
	for r := range lines {
		if r != skip {
			lines[r] = g.RowText(r)
		}
	}
	return lines
}

func (p *Processor) detectIndicator() {
	row := indicatorRow(p.screen)
	p.indicatorRow = row
	if row < 0 {
		p.indicator.clear()
		return
	}
	status := indicatorStatus(p.screen.RowText(row))
	p.log.Debug("indicator", "row", row, "status", status)
	p.indicator.observe(status)
}

func (p *Processor) extractBar() {
	bar, ok := ParseBar(p.screen.RowText(p.opts.Rows - 1))
	if !ok {
		return
	}
	p.assistant = isAssistantWindow(bar, p.opts.AssistantName)
	if p.hasBar {
		if bar.Equal(p.bar) {
			return
		}
		was, _ := p.bar.Active()
		now, _ := bar.Active()
		if was.Index != now.Index {
			p.resetLocked()
		}
	}
	p.bar, p.hasBar = bar, true
	p.log.Debug("bar", "session", bar.Session, "windows", len(bar.Windows), "active", bar.ActiveIndex, "assistant", p.assistant)
	p.barOut.Publish(bar)
}

func (p *Processor) setStatusBar(text string) {
	if text == p.statusBar {
		return
	}
	p.statusBar = text
	p.statusOut.Publish(text)
}

// Reset discards the retained snapshot so the next diff is treated as a
// first paint. It is called automatically when the active window changes.
func (p *Processor) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
}

func (p *Processor) resetLocked() {
	p.prev = nil
	p.stats.Resets++
	p.log.Debug("reset")
}

// SetAssistantMode forces the assistant heuristics on or off until the next
// bar update decides again.
func (p *Processor) SetAssistantMode(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.assistant = on
}

// AssistantMode reports whether assistant heuristics are active.
func (p *Processor) AssistantMode() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.assistant
}

// BracketedPaste reports whether the remote asked for bracketed paste.
func (p *Processor) BracketedPaste() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interp.BracketedPaste()
}

// IndicatorState returns the busy indicator state machine's state.
func (p *Processor) IndicatorState() IndicatorState {
	return p.indicator.current()
}

// Bar returns the last parsed window bar.
func (p *Processor) Bar() (BarUpdate, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bar, p.hasBar
}

// ScreenText returns the current text of every screen row.
func (p *Processor) ScreenText() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.screen.Lines()
}

func (p *Processor) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.stats
	s.LinesFiltered = p.filter.filtered
	return s
}

// Close stops the indicator timer and closes every subscription. Queued
// lines are still delivered.
func (p *Processor) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.indicator.close()
	p.lines.Close()
	p.plain.Close()
	p.barOut.Close()
	p.statusOut.Close()
}

// truncateLine cuts a styled line to width display cells.
func truncateLine(line term.Line, width int) term.Line {
	out := make(term.Line, 0, len(line))
	for _, run := range line {
		w := ansi.StringWidth(run.Text)
		if w <= width {
			out = append(out, run)
			width -= w
			continue
		}
		if width > 0 {
			run.Text = ansi.Truncate(run.Text, width, "")
			out = append(out, run)
		}
		break
	}
	return out
}

var previewReplacer = strings.NewReplacer("\x1b", "⎋", "\n", "↵", "\r", "⏎")

func preview(chunk string) string {
	return ansi.Truncate(previewReplacer.Replace(chunk), 200, "…")
}
