package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-isatty"

	"docterm/internal/processor"
	"docterm/internal/term"
)

// Printer streams new lines to a writer, like tail -f over the document.
// Window switches are marked with a separator; indicator and status bar
// updates are not printed.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	theme  Theme
	color  bool
	active string
	ctrl   Controller

	done chan struct{}
	once sync.Once
}

func NewPrinter(w io.Writer, theme Theme, color bool) *Printer {
	return &Printer{w: w, theme: theme, color: color, done: make(chan struct{})}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run blocks until Stop.
func (p *Printer) Run() error {
	<-p.done
	return nil
}

func (p *Printer) Stop() {
	p.once.Do(func() { close(p.done) })
}

func (p *Printer) SetController(c Controller) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ctrl = c
}

func (p *Printer) AppendLines(lines []term.Line) {
	if len(lines) == 0 {
		return
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(RenderLine(line, p.color))
		b.WriteByte('\n')
	}
	p.write(b.String())
}

func (p *Printer) SetBar(bar processor.BarUpdate) {
	w, ok := bar.Active()
	if !ok {
		return
	}
	label := fmt.Sprintf("%d:%s", w.Index, w.Name)
	p.mu.Lock()
	changed := label != p.active
	first := p.active == ""
	p.active = label
	p.mu.Unlock()
	if !changed || first {
		return
	}
	sep := "── " + label + " ──"
	if p.color {
		sep = p.theme.Separator.Render(sep)
	}
	p.write(sep + "\n")
}

func (p *Printer) SetIndicator(processor.IndicatorUpdate) {}

func (p *Printer) SetStatusBar(string) {}

func (p *Printer) FlashStatus(msg string) {
	line := "» " + msg
	if p.color {
		line = p.theme.Warning.Render(line)
	}
	p.write(line + "\n")
}

func (p *Printer) write(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.w, s)
}

// RenderLine renders a styled line as ANSI text, or plain text when color
// is off.
func RenderLine(line term.Line, color bool) string {
	if !color {
		return line.Text()
	}
	var b strings.Builder
	for _, run := range line {
		if run.Plain() {
			b.WriteString(run.Text)
			continue
		}
		b.WriteString(runStyle(run.Style).Render(run.Text))
	}
	return b.String()
}

func runStyle(st term.Style) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(st.Bold).Italic(st.Italic).Underline(st.Underline)
	if st.FG.Set {
		s = s.Foreground(lipgloss.Color(st.FG.Hex()))
	}
	if st.BG.Set {
		s = s.Background(lipgloss.Color(st.BG.Hex()))
	}
	return s
}
