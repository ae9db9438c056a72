package processor

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const indicatorGlyphs = "✶✻✽·✢*"

var (
	loneGlyphRe   = regexp.MustCompile(`^\s*[` + indicatorGlyphs + `]\s*$`)
	ellipsisRe    = regexp.MustCompile(`[.…\x{2024}\x{2025}]+\s*$`)
	barLineRe     = regexp.MustCompile(`^\[\d+]\s+\d+:\S.*`)
	toolProgress  = regexp.MustCompile(`^⎿\s+\S+…\s*\(\d+s.*\)$`)
	shellPromptRe = regexp.MustCompile(`^(➜|\$|%|#)\s.*`)
	barMarkerRe   = regexp.MustCompile(`\[\d+\]`)
	multiSpaceRe  = regexp.MustCompile(`\s{2,}`)

	// A glyph plus a few capitalized words and an ellipsis, or the same
	// words alone. Anything may follow the ellipsis (timers, counters).
	statusLineRe = regexp.MustCompile(
		`^\s*[` + indicatorGlyphs + `]\s+([A-Z][a-z]{2,}(?:\s+\w+){0,3})[.…\x{2024}\x{2025}]{1,3}.*$` +
			`|^\s*([A-Z][a-z]{2,}(?:\s+\w+){0,3})[.…\x{2024}\x{2025}]{1,3}.*$`)
)

func isIndicatorGlyph(r rune) bool {
	return strings.ContainsRune(indicatorGlyphs, r)
}

func isFenceRune(r rune) bool {
	switch r {
	case '─', '═', '━', '-', '=':
		return true
	}
	return false
}

func trimLeft(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// isFenceLine reports whether at least ratio of the non-space characters are
// horizontal rule glyphs.
func isFenceLine(text string, ratio float64) bool {
	var nonSpace, fence int
	for _, r := range text {
		if r != ' ' {
			nonSpace++
		}
		if isFenceRune(r) {
			fence++
		}
	}
	if nonSpace == 0 {
		return false
	}
	return float64(fence)/float64(nonSpace) >= ratio
}

// isStatusInfoLine matches pipe separated resource stats such as
// "CPU: 51% | RAM: 11% | GPU0: 0%". The keyword requirement keeps shell
// pipelines out.
func isStatusInfoLine(text string) bool {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < 5 || !strings.Contains(trimmed, "|") {
		return false
	}
	for _, kw := range []string{"%", "GB", "tokens", "CPU", "RAM", "GPU"} {
		if strings.Contains(trimmed, kw) {
			return true
		}
	}
	return false
}

// isFooterLine matches the fixed rows of the assistant footer: long rules and
// the accept/reject hint row.
func isFooterLine(text string, ratio float64) bool {
	return (isFenceLine(text, ratio) && utf8.RuneCountInString(text) > 20) ||
		strings.HasPrefix(trimLeft(text), "⏵")
}

func isPromptLine(text string) bool {
	trimmed := trimLeft(text)
	return strings.HasPrefix(trimmed, "❯") || strings.HasPrefix(trimmed, ">")
}

func isBarePrompt(text string) bool {
	if !isPromptLine(text) {
		return false
	}
	rest := trimLeft(text)
	rest = strings.TrimPrefix(rest, "❯")
	rest = strings.TrimPrefix(rest, ">")
	return isBlank(rest)
}

func isBackgroundHint(trimmed string) bool {
	return strings.Contains(trimmed, "ctrl+b") && strings.Contains(trimmed, "run in background")
}

// stripSelector removes menu selector glyphs so a row can be compared with
// its unselected form.
func stripSelector(text string) string {
	text = strings.ReplaceAll(text, "❯", " ")
	text = strings.ReplaceAll(text, ">", " ")
	return trimLeft(text)
}

func stripBullet(text string) string {
	text = trimLeft(text)
	text = strings.TrimPrefix(text, "●")
	return trimLeft(text)
}

// statusLineText extracts the status words from a status line, without the
// ellipsis. ok is false when the line is not a status line.
func statusLineText(text string) (status string, ok bool) {
	m := statusLineRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	raw := m[1]
	if raw == "" {
		raw = m[2]
	}
	return strings.TrimSpace(ellipsisRe.ReplaceAllString(strings.TrimSpace(raw), "")), true
}
