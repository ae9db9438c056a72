package processor

import (
	"strings"

	"docterm/internal/term"
)

// footerTop finds the first row of the assistant's fixed footer (rules,
// prompt, stats rows, hints) directly above maxRow. It returns maxRow when
// no footer is present.
func footerTop(g term.Grid, maxRow int, t Tuning) int {
	top := -1
	for r := maxRow - 1; r >= max(0, maxRow-t.FooterScanRows); r-- {
		text := g.RowText(r)
		switch {
		case isFooterLine(text, t.FenceRatio) || isStatusInfoLine(text):
			top = r
		case isBlank(text) && top >= 0:
			top = r
		case top >= 0:
			return top
		}
	}
	if top < 0 {
		return maxRow
	}
	return top
}

// statusBarText joins the stats rows inside the footer [top, maxRow).
func statusBarText(g term.Grid, top, maxRow int) string {
	var parts []string
	for r := top; r < maxRow; r++ {
		text := g.RowText(r)
		if isStatusInfoLine(text) {
			parts = append(parts, strings.TrimSpace(text))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return multiSpaceRe.ReplaceAllString(strings.Join(parts, " "), " ")
}

// indicatorRow returns the lowest row above the bar row with an indicator
// glyph in its first three columns, or -1.
func indicatorRow(g term.Grid) int {
	for r := g.Rows() - 2; r >= 0; r-- {
		if hasIndicatorGlyph(g, r) {
			return r
		}
	}
	return -1
}

func hasIndicatorGlyph(g term.Grid, row int) bool {
	for c := 0; c < min(3, g.Cols()); c++ {
		if isIndicatorGlyph(g.Cell(row, c).Ch) {
			return true
		}
	}
	return false
}
