package ui

import (
	"docterm/internal/processor"
	"docterm/internal/term"
)

// Controller receives user intent from a view.
type Controller interface {
	// OnSubmit sends a line of text followed by Enter.
	OnSubmit(text string)
	// OnKey sends already encoded key bytes.
	OnKey(data []byte)
	OnQuit()
}

// View renders processor output. Every setter is safe to call from any
// goroutine.
type View interface {
	Run() error
	Stop()
	SetController(Controller)
	AppendLines(lines []term.Line)
	SetBar(bar processor.BarUpdate)
	SetIndicator(u processor.IndicatorUpdate)
	SetStatusBar(text string)
	FlashStatus(msg string)
}

type LayoutMode int

const (
	LayoutFull LayoutMode = iota
	LayoutCompact
	LayoutTooSmall
)

func (m LayoutMode) String() string {
	switch m {
	case LayoutFull:
		return "full"
	case LayoutCompact:
		return "compact"
	default:
		return "too-small"
	}
}
