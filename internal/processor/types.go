package processor

import "slices"

// ChunkKind is the throughput classification of a raw chunk.
type ChunkKind int

const (
	ChunkIncremental ChunkKind = iota
	ChunkFullRedraw
	ChunkBar
)

func (k ChunkKind) String() string {
	switch k {
	case ChunkFullRedraw:
		return "full_redraw"
	case ChunkBar:
		return "bar"
	default:
		return "incremental"
	}
}

// IndicatorState is the busy indicator state machine:
// Idle -> Animating | StatusText -> Idle.
type IndicatorState int

const (
	IndicatorIdle IndicatorState = iota
	IndicatorAnimating
	IndicatorStatusText
)

func (s IndicatorState) String() string {
	switch s {
	case IndicatorAnimating:
		return "animating"
	case IndicatorStatusText:
		return "status_text"
	default:
		return "idle"
	}
}

// IndicatorUpdate is published whenever the busy indicator is observed or
// expires. Status is empty when no plausible status text is known.
type IndicatorUpdate struct {
	Thinking bool
	Status   string
}

// Window is one multiplexer window tab.
type Window struct {
	Index  int
	Name   string
	Active bool
}

// BarUpdate is the parsed multiplexer bar. ActiveIndex is a position in
// Windows, not a window number.
type BarUpdate struct {
	Session     string
	Windows     []Window
	ActiveIndex int
}

// Active returns the active window, or false when the bar has no windows.
func (b BarUpdate) Active() (Window, bool) {
	if b.ActiveIndex < 0 || b.ActiveIndex >= len(b.Windows) {
		return Window{}, false
	}
	return b.Windows[b.ActiveIndex], true
}

// Equal reports whether two bars describe the same windows.
func (b BarUpdate) Equal(o BarUpdate) bool {
	return b.Session == o.Session && b.ActiveIndex == o.ActiveIndex && slices.Equal(b.Windows, o.Windows)
}

// Stats counts pipeline activity since construction.
type Stats struct {
	Chunks        int64
	Bytes         int64
	Diffs         int64
	Throttled     int64
	LinesEmitted  int64
	LinesFiltered int64
	Resets        int64
}
