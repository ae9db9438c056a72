package processor

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	barSessionRe = regexp.MustCompile(`^\[([^\]]+)]\s+`)
	barWindowRe  = regexp.MustCompile(`(\d+):(\S+)`)
)

// ParseBar parses a multiplexer status row of the form
//
//	[session] 0:zsh  1:claude*  2:htop-        "host" 14:32 18-Feb-26
//
// Window entries stop at the first run of three spaces so the right-hand
// status (clock, host) is never read as windows. A trailing "*" or "*-"
// marks the active window; a trailing "-" alone marks the last window.
func ParseBar(row string) (BarUpdate, bool) {
	if isBlank(row) {
		return BarUpdate{}, false
	}
	loc := barSessionRe.FindStringSubmatchIndex(row)
	if loc == nil {
		return BarUpdate{}, false
	}
	session := row[loc[2]:loc[3]]
	rest := row[loc[1]:]
	if gap := strings.Index(rest, "   "); gap >= 0 {
		rest = rest[:gap]
	}

	matches := barWindowRe.FindAllStringSubmatch(rest, -1)
	if len(matches) == 0 {
		return BarUpdate{}, false
	}

	bar := BarUpdate{Session: session, Windows: make([]Window, 0, len(matches))}
	active := -1
	for _, m := range matches {
		index, _ := strconv.Atoi(m[1])
		name := m[2]
		isActive := strings.HasSuffix(name, "*") || strings.HasSuffix(name, "*-")
		name = strings.TrimSuffix(name, "*")
		name = strings.TrimSuffix(name, "*-")
		name = strings.TrimSuffix(name, "-")
		if isActive && active < 0 {
			active = len(bar.Windows)
		}
		bar.Windows = append(bar.Windows, Window{Index: index, Name: name, Active: isActive})
	}
	bar.ActiveIndex = max(active, 0)
	return bar, true
}

// isAssistantWindow reports whether the bar's active window runs the
// assistant.
func isAssistantWindow(bar BarUpdate, assistantName string) bool {
	w, ok := bar.Active()
	if !ok || assistantName == "" {
		return false
	}
	return strings.Contains(strings.ToLower(w.Name), strings.ToLower(assistantName))
}
