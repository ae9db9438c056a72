package processor

import (
	"io"
	"time"

	clog "github.com/charmbracelet/log"

	"docterm/internal/term"
)

const (
	DefaultDisplayCols   = 40
	DefaultAssistantName = "claude"
)

// Tuning holds the empirically tuned constants of the change heuristics.
// Zero fields take the defaults from DefaultTuning.
type Tuning struct {
	// Chunks shorter than this carrying a green background and a [N]
	// marker are bar-only updates.
	BarChunkMax int
	// Chunks longer than this with cursor-home and erase are full redraws.
	RedrawChunkMin int
	// Incremental chunks shorter than this may skip the diff.
	SmallChunkMax int
	// Minimum spacing between diffs for small incremental chunks.
	DiffInterval time.Duration
	// How long the busy indicator survives without being seen again.
	IndicatorTimeout time.Duration
	// Number of recently emitted lines used for duplicate suppression.
	DedupWindow int
	// Same-position character match fractions above which a changed row is
	// treated as a partial overwrite.
	ChimeraThreshold       float64
	ScrollChimeraThreshold float64
	ChimeraMinLen          int
	// Fraction of non-space characters that makes a row a fence.
	FenceRatio float64
	// Rows above the bar row searched for the footer.
	FooterScanRows int
}

// DefaultTuning returns the stock heuristic constants.
func DefaultTuning() Tuning {
	return Tuning{
		BarChunkMax:            300,
		RedrawChunkMin:         400,
		SmallChunkMax:          60,
		DiffInterval:           80 * time.Millisecond,
		IndicatorTimeout:       2 * time.Second,
		DedupWindow:            20,
		ChimeraThreshold:       0.6,
		ScrollChimeraThreshold: 0.4,
		ChimeraMinLen:          5,
		FenceRatio:             0.6,
		FooterScanRows:         10,
	}
}

func (t Tuning) withDefaults() Tuning {
	d := DefaultTuning()
	if t.BarChunkMax <= 0 {
		t.BarChunkMax = d.BarChunkMax
	}
	if t.RedrawChunkMin <= 0 {
		t.RedrawChunkMin = d.RedrawChunkMin
	}
	if t.SmallChunkMax <= 0 {
		t.SmallChunkMax = d.SmallChunkMax
	}
	if t.DiffInterval <= 0 {
		t.DiffInterval = d.DiffInterval
	}
	if t.IndicatorTimeout <= 0 {
		t.IndicatorTimeout = d.IndicatorTimeout
	}
	if t.DedupWindow <= 0 {
		t.DedupWindow = d.DedupWindow
	}
	if t.ChimeraThreshold <= 0 {
		t.ChimeraThreshold = d.ChimeraThreshold
	}
	if t.ScrollChimeraThreshold <= 0 {
		t.ScrollChimeraThreshold = d.ScrollChimeraThreshold
	}
	if t.ChimeraMinLen <= 0 {
		t.ChimeraMinLen = d.ChimeraMinLen
	}
	if t.FenceRatio <= 0 {
		t.FenceRatio = d.FenceRatio
	}
	if t.FooterScanRows <= 0 {
		t.FooterScanRows = d.FooterScanRows
	}
	return t
}

// Options configures a Processor. Zero values take defaults.
type Options struct {
	Rows int
	Cols int
	// Fence lines wider than this are truncated before emission.
	DisplayCols int
	// Assistant heuristics run while the active window name contains this
	// (case-insensitive).
	AssistantName string
	Tuning        Tuning
	Logger        *clog.Logger
	// Clock overrides time.Now for the diff throttle.
	Clock func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Rows <= 0 {
		o.Rows = term.DefaultRows
	}
	if o.Cols <= 0 {
		o.Cols = term.DefaultCols
	}
	if o.DisplayCols <= 0 {
		o.DisplayCols = DefaultDisplayCols
	}
	if o.AssistantName == "" {
		o.AssistantName = DefaultAssistantName
	}
	o.Tuning = o.Tuning.withDefaults()
	if o.Logger == nil {
		o.Logger = clog.New(io.Discard)
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}
