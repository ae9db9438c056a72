package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/gdamore/tcell/v2"

	"docterm/internal/processor"
	"docterm/internal/term"
)

type mockController struct {
	mu      sync.Mutex
	submits []string
	keys    [][]byte
	quits   int
}

func (m *mockController) OnSubmit(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submits = append(m.submits, text)
}

func (m *mockController) OnKey(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, append([]byte(nil), data...))
}

func (m *mockController) OnQuit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quits++
}

func (m *mockController) wait(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		m.mu.Lock()
		ok := cond()
		m.mu.Unlock()
		if ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("controller call did not arrive")
}

var (
	_ View = (*Viewer)(nil)
	_ View = (*Printer)(nil)
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init sim screen: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(w, h)
	return s
}

func readLine(s tcell.SimulationScreen, x, y, w int) string {
	var b strings.Builder
	for i := 0; i < w; i++ {
		r, _, _, _ := s.GetContent(x+i, y)
		if r == 0 {
			r = ' '
		}
		b.WriteRune(r)
	}
	return b.String()
}

func screenText(s tcell.SimulationScreen) string {
	w, h := s.Size()
	var rows []string
	for y := 0; y < h; y++ {
		rows = append(rows, readLine(s, 0, y, w))
	}
	return strings.Join(rows, "\n")
}

var red = term.ColorOf(term.StandardColor(1))

func TestViewerRendersChrome(t *testing.T) {
	s := newSimScreen(t, 60, 16)
	v := NewViewer(ViewerOptions{})

	v.SetBar(processor.BarUpdate{
		Session:     "0",
		Windows:     []processor.Window{{Index: 0, Name: "claude", Active: true}, {Index: 1, Name: "zsh"}},
		ActiveIndex: 0,
	})
	v.AppendLines([]term.Line{
		{{Text: "plain [not a tag]"}},
		{{Text: "Error", Style: term.Style{FG: red, Bold: true}}, {Text: ": boom"}},
	})
	v.SetIndicator(processor.IndicatorUpdate{Thinking: true, Status: "Thinking…"})
	v.SetStatusBar("CPU: 5% | RAM: 1%")
	v.draw(s)

	if bar := readLine(s, 0, 0, 60); !strings.Contains(bar, "[0]") || !strings.Contains(bar, "0:claude") || !strings.Contains(bar, "1:zsh") {
		t.Fatalf("unexpected bar row %q", bar)
	}
	if got := readLine(s, 0, 1, 60); !strings.HasPrefix(got, "plain [not a tag]") {
		t.Fatalf("expected escaped document text, got %q", got)
	}
	if got := readLine(s, 0, 2, 60); !strings.HasPrefix(got, "Error: boom") {
		t.Fatalf("expected styled line text, got %q", got)
	}
	_, _, style, _ := s.GetContent(0, 2)
	fg, _, attrs := style.Decompose()
	if fg != tcell.NewRGBColor(0xCC, 0, 0) || attrs&tcell.AttrBold == 0 {
		t.Fatalf("expected bold red run, got fg=%v attrs=%v", fg, attrs)
	}
	if got := readLine(s, 0, 13, 60); !strings.Contains(got, "✶ Thinking…") {
		t.Fatalf("unexpected indicator row %q", got)
	}
	if got := readLine(s, 0, 14, 60); !strings.Contains(got, "CPU: 5% | RAM: 1%") {
		t.Fatalf("unexpected status row %q", got)
	}
	if v.LineCount() != 2 {
		t.Fatalf("expected 2 lines, got %d", v.LineCount())
	}
}

func TestViewerIndicatorClears(t *testing.T) {
	s := newSimScreen(t, 40, 12)
	v := NewViewer(ViewerOptions{})
	v.SetIndicator(processor.IndicatorUpdate{Thinking: true})
	v.draw(s)
	if got := readLine(s, 0, 9, 40); !strings.Contains(got, "working") {
		t.Fatalf("expected default busy text, got %q", got)
	}
	v.SetIndicator(processor.IndicatorUpdate{})
	v.draw(s)
	if got := strings.TrimSpace(readLine(s, 0, 9, 40)); got != "" {
		t.Fatalf("expected empty indicator row, got %q", got)
	}
}

func TestViewerLayoutModes(t *testing.T) {
	v := NewViewer(ViewerOptions{})
	v.SetStatusBar("status-row")

	compact := newSimScreen(t, 40, 8)
	v.draw(compact)
	if strings.Contains(screenText(compact), "status-row") {
		t.Fatalf("compact layout should hide the status row")
	}

	small := newSimScreen(t, 10, 4)
	v.draw(small)
	if !strings.Contains(screenText(small), "small") {
		t.Fatalf("expected too-small notice, got:\n%s", screenText(small))
	}

	full := newSimScreen(t, 40, 16)
	v.draw(full)
	if !strings.Contains(screenText(full), "status-row") {
		t.Fatalf("full layout should show the status row")
	}
}

func TestViewerInputSubmitsAndPassesKeys(t *testing.T) {
	v := NewViewer(ViewerOptions{})
	ctrl := &mockController{}
	v.SetController(ctrl)

	// Empty input: arrows and Enter go straight to the remote.
	if ev := v.capture(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone)); ev != nil {
		t.Fatalf("expected arrow to be consumed")
	}
	ctrl.wait(t, func() bool { return len(ctrl.keys) == 1 })
	if ev := v.capture(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)); ev != nil {
		t.Fatalf("expected enter to be consumed")
	}
	ctrl.wait(t, func() bool { return len(ctrl.keys) == 2 })

	// Typing is left to the input field.
	if ev := v.capture(tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModNone)); ev == nil {
		t.Fatalf("expected rune to reach the input field")
	}

	v.input.SetText("ls -la")
	if ev := v.capture(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone)); ev == nil {
		t.Fatalf("arrows edit the input line while it has text")
	}
	v.capture(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	ctrl.wait(t, func() bool { return len(ctrl.submits) == 1 })
	if v.input.GetText() != "" {
		t.Fatalf("input should clear after submit")
	}

	v.capture(tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl))
	ctrl.wait(t, func() bool { return ctrl.quits == 1 })

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	if string(ctrl.keys[0]) != "\x1b[A" || string(ctrl.keys[1]) != "\r" {
		t.Fatalf("unexpected key bytes %q", ctrl.keys)
	}
	if ctrl.submits[0] != "ls -la" {
		t.Fatalf("unexpected submit %q", ctrl.submits[0])
	}
}

func TestViewerStopRacingRun(t *testing.T) {
	for i := 0; i < 20; i++ {
		v := NewViewer(ViewerOptions{Screen: tcell.NewSimulationScreen("UTF-8")})
		done := make(chan error, 1)
		go func() { done <- v.Run() }()
		if i%2 == 1 {
			// Let Run claim the viewer before stopping it.
			for deadline := time.Now().Add(time.Second); time.Now().Before(deadline); time.Sleep(time.Millisecond) {
				v.mu.Lock()
				running := v.running
				v.mu.Unlock()
				if running {
					break
				}
			}
		}
		v.Stop()
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("expected clean exit, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("iteration %d: Run did not return after Stop", i)
		}
	}
}

func TestLineTags(t *testing.T) {
	line := term.Line{
		{Text: "a[b]"},
		{Text: "x", Style: term.Style{FG: red, BG: term.ColorOf(term.RGB{R: 1, G: 2, B: 3}), Italic: true, Underline: true}},
		{Text: "y", Style: term.Style{Bold: true}},
	}
	want := "a[b[]" + "[#CC0000:#010203:iu]x[-:-:-]" + "[-:-:b]y[-:-:-]"
	if got := lineTags(line); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPrinterPlain(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, DefaultTheme(), false)

	bar := func(active int) processor.BarUpdate {
		return processor.BarUpdate{
			Windows:     []processor.Window{{Index: 0, Name: "claude"}, {Index: 1, Name: "zsh"}},
			ActiveIndex: active,
		}
	}
	p.SetBar(bar(0))
	p.AppendLines([]term.Line{{{Text: "hello", Style: term.Style{FG: red}}}})
	p.SetBar(bar(0))
	p.SetBar(bar(1))
	p.AppendLines([]term.Line{{{Text: "$ ls"}}})
	p.FlashStatus("disconnected")

	want := "hello\n── 1:zsh ──\n$ ls\n» disconnected\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
	if IsTerminal(&buf) {
		t.Fatalf("a buffer is not a terminal")
	}
}

func TestPrinterColor(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, DefaultTheme(), true)
	p.AppendLines([]term.Line{{{Text: "warn", Style: term.Style{FG: red, Bold: true}}, {Text: " tail"}}})

	out := buf.String()
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("expected ANSI styling, got %q", out)
	}
	if ansi.Strip(out) != "warn tail\n" {
		t.Fatalf("unexpected text %q", ansi.Strip(out))
	}
}

func TestPrinterRunStops(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}, DefaultTheme(), false)
	done := make(chan struct{})
	go func() {
		_ = p.Run()
		close(done)
	}()
	p.Stop()
	p.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after Stop")
	}
}
