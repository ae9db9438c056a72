package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"docterm/internal/processor"
	"docterm/internal/term"
)

const (
	pageMain  = "main"
	pageSmall = "small"

	flashTimeout = 3 * time.Second
)

type ViewerOptions struct {
	Theme Theme
	// MaxLines caps the document; older lines are dropped. Zero keeps all.
	MaxLines int
	// Screen replaces the real terminal, e.g. with a simulation screen.
	Screen tcell.Screen
	Logger *clog.Logger
}

// Viewer is a full screen document view: window bar, scrolling document,
// busy indicator, assistant status bar and an input line.
type Viewer struct {
	app   *tview.Application
	root  *tview.Pages
	main  *tview.Flex
	bar   *tview.TextView
	doc   *tview.TextView
	busy  *tview.TextView
	stat  *tview.TextView
	input *tview.InputField

	theme Theme
	log   *clog.Logger

	mu      sync.Mutex
	ctrl    Controller
	running bool
	stopped bool
	live    bool // event loop has drawn at least once
	layout  LayoutMode
	lines   int
	status  string
	flashID uint64
}

func NewViewer(opts ViewerOptions) *Viewer {
	theme := opts.Theme
	if theme.Palette.Ink == "" {
		theme = DefaultTheme()
	}
	log := opts.Logger
	if log == nil {
		log = clog.New(io.Discard)
	}
	p := theme.Palette

	v := &Viewer{
		app:    tview.NewApplication(),
		theme:  theme,
		log:    log,
		layout: LayoutFull,
	}

	v.bar = tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	v.bar.SetBackgroundColor(tcell.GetColor(p.Ink))
	v.bar.SetTextColor(tcell.GetColor(p.Powder))

	v.doc = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true).
		SetMaxLines(opts.MaxLines)

	v.busy = tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	v.busy.SetTextColor(tcell.GetColor(p.Busy))

	v.stat = tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	v.stat.SetBackgroundColor(tcell.GetColor(p.Slate))
	v.stat.SetTextColor(tcell.GetColor(p.Powder))

	v.input = tview.NewInputField().SetLabel("› ")
	v.input.SetLabelColor(tcell.GetColor(p.Accent))
	v.input.SetFieldBackgroundColor(tcell.ColorDefault)

	v.main = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.bar, 1, 0, false).
		AddItem(v.doc, 0, 1, false).
		AddItem(v.busy, 1, 0, false).
		AddItem(v.stat, 1, 0, false).
		AddItem(v.input, 1, 0, true)

	small := tview.NewTextView().SetTextAlign(tview.AlignCenter).SetText("Terminal too small")
	small.SetTextColor(tcell.GetColor(p.Warning))

	v.root = tview.NewPages().
		AddPage(pageMain, v.main, true, true).
		AddPage(pageSmall, small, true, false)

	if opts.Screen != nil {
		v.app.SetScreen(opts.Screen)
	}
	v.app.SetRoot(v.root, true).SetFocus(v.input)
	v.app.SetInputCapture(v.capture)
	v.app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		w, h := screen.Size()
		v.applyLayout(DetermineLayoutMode(w, h))
		return false
	})
	// A Stop that lands before the event loop owns a screen is replayed after
	// the first draw. draw holds the app lock, so app.Stop runs elsewhere.
	v.app.SetAfterDrawFunc(func(tcell.Screen) {
		v.mu.Lock()
		v.live = true
		stopped := v.stopped
		v.mu.Unlock()
		if stopped {
			go v.app.Stop()
		}
	})
	v.app.EnablePaste(true)
	return v
}

func (v *Viewer) Run() error {
	v.mu.Lock()
	if v.running || v.stopped {
		v.mu.Unlock()
		return nil
	}
	v.running = true
	v.mu.Unlock()

	err := v.app.Run()

	v.mu.Lock()
	v.running = false
	v.live = false
	v.mu.Unlock()
	return err
}

// Stop ends Run. A Stop before Run makes Run return at once.
func (v *Viewer) Stop() {
	v.mu.Lock()
	v.stopped = true
	live := v.running && v.live
	v.mu.Unlock()
	if live {
		v.app.Stop()
	}
}

func (v *Viewer) SetController(c Controller) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ctrl = c
}

func (v *Viewer) AppendLines(lines []term.Line) {
	if len(lines) == 0 {
		return
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(lineTags(line))
		b.WriteByte('\n')
	}
	text := b.String()
	v.apply(func() {
		w := v.doc.BatchWriter()
		_, _ = w.Write([]byte(text))
		_ = w.Close()
		v.doc.ScrollToEnd()
		v.mu.Lock()
		v.lines += len(lines)
		v.mu.Unlock()
	})
}

func (v *Viewer) SetBar(bar processor.BarUpdate) {
	text := barTags(bar, v.theme.Palette)
	v.apply(func() { v.bar.SetText(text) })
}

func (v *Viewer) SetIndicator(u processor.IndicatorUpdate) {
	text := ""
	if u.Thinking {
		text = "✶ " + tview.Escape(firstNonEmpty(u.Status, "working…"))
	}
	v.apply(func() { v.busy.SetText(text) })
}

func (v *Viewer) SetStatusBar(text string) {
	v.mu.Lock()
	v.status = text
	v.mu.Unlock()
	v.apply(func() { v.stat.SetText(tview.Escape(text)) })
}

// FlashStatus shows msg in the status row for a few seconds, then restores
// the assistant status bar.
func (v *Viewer) FlashStatus(msg string) {
	v.mu.Lock()
	v.flashID++
	id := v.flashID
	v.mu.Unlock()

	tagged := fmt.Sprintf("[%s::b]%s[-:-:-]", v.theme.Palette.Warning, tview.Escape(msg))
	v.apply(func() { v.stat.SetText(tagged) })
	time.AfterFunc(flashTimeout, func() {
		v.mu.Lock()
		current, status := v.flashID, v.status
		v.mu.Unlock()
		if current == id {
			v.apply(func() { v.stat.SetText(tview.Escape(status)) })
		}
	})
}

// LineCount returns how many document lines were appended.
func (v *Viewer) LineCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lines
}

func (v *Viewer) capture(ev *tcell.EventKey) *tcell.EventKey {
	switch ev.Key() {
	case tcell.KeyCtrlQ:
		v.dispatch(func(c Controller) { c.OnQuit() })
		return nil
	case tcell.KeyPgUp, tcell.KeyPgDn:
		v.doc.InputHandler()(ev, func(tview.Primitive) {})
		return nil
	case tcell.KeyEnter:
		text := v.input.GetText()
		v.input.SetText("")
		if text == "" {
			v.dispatch(func(c Controller) { c.OnKey(term.EncodeNamedKey(term.KeyEnter)) })
		} else {
			v.dispatch(func(c Controller) { c.OnSubmit(text) })
		}
		return nil
	}
	if v.input.GetText() != "" || isEditingKey(ev) {
		return ev
	}
	// With an empty input line, navigation and control keys go straight
	// to the remote so menus can be driven.
	if data := term.EncodeEventToBytes(ev); len(data) > 0 {
		v.log.Debug("key passthrough", "key", ev.Name())
		v.dispatch(func(c Controller) { c.OnKey(data) })
		return nil
	}
	return ev
}

func isEditingKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyRune {
		return ev.Modifiers()&tcell.ModAlt == 0
	}
	switch ev.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		return true
	}
	return false
}

func (v *Viewer) dispatch(fn func(Controller)) {
	v.mu.Lock()
	ctrl := v.ctrl
	v.mu.Unlock()
	if ctrl == nil {
		return
	}
	go fn(ctrl)
}

// apply runs fn on the UI goroutine, or inline when the app is not running.
func (v *Viewer) apply(fn func()) {
	v.mu.Lock()
	running := v.running
	v.mu.Unlock()
	if !running {
		fn()
		return
	}
	v.app.QueueUpdateDraw(fn)
}

func (v *Viewer) applyLayout(mode LayoutMode) {
	if mode == v.layout {
		return
	}
	v.layout = mode
	if mode == LayoutTooSmall {
		v.root.SwitchToPage(pageSmall)
		return
	}
	v.root.SwitchToPage(pageMain)
	chrome := 1
	if mode == LayoutCompact {
		chrome = 0
	}
	v.main.ResizeItem(v.bar, chrome, 0)
	v.main.ResizeItem(v.stat, chrome, 0)
}

// draw renders one frame onto screen without running the event loop.
func (v *Viewer) draw(screen tcell.Screen) {
	w, h := screen.Size()
	v.applyLayout(DetermineLayoutMode(w, h))
	v.root.SetRect(0, 0, w, h)
	v.root.Draw(screen)
	screen.Show()
}

// lineTags converts a styled line into tview color tags.
func lineTags(line term.Line) string {
	var b strings.Builder
	for _, run := range line {
		text := tview.Escape(run.Text)
		if run.Plain() {
			b.WriteString(text)
			continue
		}
		fg, bg := "-", "-"
		if run.FG.Set {
			fg = run.FG.Hex()
		}
		if run.BG.Set {
			bg = run.BG.Hex()
		}
		attrs := ""
		if run.Bold {
			attrs += "b"
		}
		if run.Italic {
			attrs += "i"
		}
		if run.Underline {
			attrs += "u"
		}
		if attrs == "" {
			attrs = "-"
		}
		fmt.Fprintf(&b, "[%s:%s:%s]%s[-:-:-]", fg, bg, attrs, text)
	}
	return b.String()
}

func barTags(bar processor.BarUpdate, p Palette) string {
	var b strings.Builder
	if bar.Session != "" {
		b.WriteString(tview.Escape("[" + bar.Session + "]"))
		b.WriteByte(' ')
	}
	for i, w := range bar.Windows {
		if i > 0 {
			b.WriteByte(' ')
		}
		label := tview.Escape(fmt.Sprintf("%d:%s", w.Index, w.Name))
		if i == bar.ActiveIndex {
			fmt.Fprintf(&b, "[%s:%s:b] %s [-:-:-]", p.Ink, p.Accent, label)
		} else {
			fmt.Fprintf(&b, " %s ", label)
		}
	}
	return b.String()
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}
