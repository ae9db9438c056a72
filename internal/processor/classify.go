package processor

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

// Classify sorts a raw chunk by the work it is likely to need. It is a
// throughput heuristic only; every chunk is still fed to the screen.
func Classify(chunk string, t Tuning) ChunkKind {
	return classify(chunk, utf8.RuneCountInString(chunk), t.withDefaults())
}

func classify(chunk string, n int, t Tuning) ChunkKind {
	if n < t.BarChunkMax && strings.Contains(chunk, "\x1b[42m") &&
		barMarkerRe.MatchString(ansi.Strip(chunk)) {
		return ChunkBar
	}

	if n > t.RedrawChunkMin {
		home := strings.Contains(chunk, "\x1b[H") || strings.Contains(chunk, "\x1b[1;1H")
		erase := strings.Contains(chunk, "\x1b[K") || strings.Contains(chunk, "\x1b[J") ||
			strings.Contains(chunk, "\x1b[2J")
		if home && erase {
			return ChunkFullRedraw
		}
	}
	return ChunkIncremental
}
