package processor

import (
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"docterm/internal/broadcast"
)

// indicator tracks the busy glyph. Observations come from Process; expiry
// comes from a timer goroutine, so all state is guarded by mu.
type indicator struct {
	mu      sync.Mutex
	state   IndicatorState
	status  string
	timer   *time.Timer
	gen     uint64
	timeout time.Duration
	closed  bool
	out     *broadcast.Latest[IndicatorUpdate]
}

func newIndicator(timeout time.Duration) *indicator {
	return &indicator{
		timeout: timeout,
		out:     broadcast.NewLatestWith(IndicatorUpdate{}),
	}
}

// observe records a sighting of the glyph. An empty status keeps the last
// known status text. Every sighting re-arms the expiry timer.
func (ind *indicator) observe(status string) {
	ind.mu.Lock()
	defer ind.mu.Unlock()
	if ind.closed {
		return
	}
	if status != "" {
		ind.status = status
	}
	if ind.status != "" {
		ind.state = IndicatorStatusText
	} else {
		ind.state = IndicatorAnimating
	}
	ind.out.Publish(IndicatorUpdate{Thinking: true, Status: ind.status})
	ind.armLocked()
}

func (ind *indicator) armLocked() {
	if ind.timer != nil {
		ind.timer.Stop()
	}
	ind.gen++
	gen := ind.gen
	ind.timer = time.AfterFunc(ind.timeout, func() { ind.expire(gen) })
}

func (ind *indicator) expire(gen uint64) {
	ind.mu.Lock()
	defer ind.mu.Unlock()
	if ind.closed || gen != ind.gen {
		return
	}
	ind.timer = nil
	ind.idleLocked()
}

// clear ends a busy period immediately, e.g. when the glyph left the screen.
func (ind *indicator) clear() {
	ind.mu.Lock()
	defer ind.mu.Unlock()
	if ind.closed || ind.state == IndicatorIdle {
		return
	}
	ind.stopLocked()
	ind.idleLocked()
}

func (ind *indicator) idleLocked() {
	ind.state = IndicatorIdle
	ind.status = ""
	ind.out.Publish(IndicatorUpdate{})
}

func (ind *indicator) stopLocked() {
	if ind.timer != nil {
		ind.timer.Stop()
		ind.timer = nil
	}
	ind.gen++
}

func (ind *indicator) current() IndicatorState {
	ind.mu.Lock()
	defer ind.mu.Unlock()
	return ind.state
}

func (ind *indicator) close() {
	ind.mu.Lock()
	defer ind.mu.Unlock()
	if ind.closed {
		return
	}
	ind.stopLocked()
	ind.closed = true
	ind.out.Close()
}

// indicatorStatus extracts plausible status text from the row hosting the
// glyph, or "" when the row looks garbled.
func indicatorStatus(row string) string {
	text := strings.TrimSpace(row)
	text = strings.TrimLeftFunc(text, func(r rune) bool {
		return isIndicatorGlyph(r) || unicode.IsSpace(r)
	})
	text = strings.TrimSpace(text)
	// Text after a wide gap is stale content the redraw did not clear.
	if gap := strings.Index(text, "   "); gap > 0 {
		text = strings.TrimSpace(text[:gap])
	}
	first, _ := utf8.DecodeRuneInString(text)
	if utf8.RuneCountInString(text) < 4 || !unicode.IsUpper(first) ||
		strings.ContainsAny(text, "/|") {
		return ""
	}
	return text
}
