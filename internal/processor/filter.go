package processor

import (
	"slices"
	"strings"
	"unicode/utf8"

	clog "github.com/charmbracelet/log"

	"docterm/internal/term"
)

// lineFilter post-processes candidate lines: it drops UI furniture, buffers
// shell prompts until their echo settles, and suppresses recent duplicates.
type lineFilter struct {
	tuning   Tuning
	log      *clog.Logger
	onStatus func(string)

	recent     []string
	pending    term.Line
	hasPending bool
	filtered   int64
}

func newLineFilter(t Tuning, log *clog.Logger, onStatus func(string)) *lineFilter {
	return &lineFilter{
		tuning:   t,
		log:      log,
		onStatus: onStatus,
		recent:   make([]string, 0, t.DedupWindow),
	}
}

func (f *lineFilter) apply(lines []term.Line, assistant bool) []term.Line {
	var out []term.Line
	for _, line := range lines {
		text := line.Text()

		if barLineRe.MatchString(text) {
			f.drop("bar", text)
			continue
		}
		trimmed := trimLeft(text)

		if assistant {
			if reason := f.assistantNoise(text, trimmed); reason != "" {
				f.drop(reason, text)
				continue
			}
			if status, ok := statusLineText(text); ok {
				f.drop("status", text)
				if status != "" && f.onStatus != nil {
					f.onStatus(status)
				}
				continue
			}
		}

		// Each redraw of a shell prompt replaces the buffered one, so a
		// command echoed keystroke by keystroke surfaces once.
		if shellPromptRe.MatchString(trimmed) {
			f.log.Debug("buffer prompt", "line", text)
			f.pending, f.hasPending = line, true
			continue
		}

		if f.hasPending {
			key := strings.TrimSpace(f.pending.Text())
			if key != "" && f.remember(key) {
				f.log.Debug("flush prompt", "line", key)
				out = append(out, f.pending)
			}
			f.pending, f.hasPending = nil, false
		}

		if key := strings.TrimSpace(text); key != "" && !f.remember(key) {
			f.drop("dedup", text)
			continue
		}
		out = append(out, line)
	}
	return out
}

func (f *lineFilter) assistantNoise(text, trimmed string) string {
	switch {
	case loneGlyphRe.MatchString(text):
		return "lone_glyph"
	case isFenceLine(text, f.tuning.FenceRatio) && utf8.RuneCountInString(strings.TrimSpace(text)) > 20:
		return "fence"
	case isBarePrompt(text):
		return "prompt"
	case isStatusInfoLine(text):
		return "status_info"
	case isBackgroundHint(trimmed):
		return "bg_hint"
	case toolProgress.MatchString(trimmed):
		return "tool_progress"
	}
	return ""
}

// remember adds key to the recent window. It returns false when key was
// already there.
func (f *lineFilter) remember(key string) bool {
	if slices.Contains(f.recent, key) {
		return false
	}
	if len(f.recent) >= f.tuning.DedupWindow {
		f.recent = slices.Delete(f.recent, 0, len(f.recent)-f.tuning.DedupWindow+1)
	}
	f.recent = append(f.recent, key)
	return true
}

func (f *lineFilter) drop(reason, text string) {
	f.filtered++
	f.log.Debug("filter", "reason", reason, "line", text)
}
