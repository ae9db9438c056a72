package processor

import "slices"

// overlap returns the length of the longest suffix of prev equal to a prefix
// of curr: how many rows the content scrolled up by.
func overlap(prev, curr []string) int {
	for n := min(len(prev), len(curr)); n > 0; n-- {
		if slices.Equal(prev[len(prev)-n:], curr[:n]) {
			return n
		}
	}
	return 0
}

// isChimera reports whether curr looks like prev partially overwritten in
// place: more than threshold of the characters over their common length sit
// at the same positions.
func isChimera(prev, curr string, threshold float64, minLen int) bool {
	if isBlank(prev) || isBlank(curr) {
		return false
	}
	a, b := []rune(prev), []rune(curr)
	n := min(len(a), len(b))
	if n < minLen {
		return false
	}
	same := 0
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			same++
		}
	}
	return float64(same)/float64(n) > threshold
}

// diffRows compares the content rows of two screen states and returns the
// indexes in curr holding new content. unchanged reports whether row r is
// identical in both states including styling.
func diffRows(prev, curr []string, unchanged func(row int) bool, t Tuning) []int {
	if n := overlap(prev, curr); n > 0 {
		var rows []int
		for r := n; r < len(curr); r++ {
			if isBlank(curr[r]) {
				continue
			}
			if r < len(prev) && isChimera(prev[r], curr[r], t.ScrollChimeraThreshold, t.ChimeraMinLen) {
				continue
			}
			rows = append(rows, r)
		}
		return rows
	}

	var changed []int
	selectorOnly, bulletOnly := 0, 0
	for r, line := range curr {
		if isBlank(line) {
			continue
		}
		if r < len(prev) && prev[r] == line && unchanged(r) {
			continue
		}
		changed = append(changed, r)
		if r < len(prev) && stripSelector(line) == stripSelector(prev[r]) {
			selectorOnly++
		}
		if r < len(prev) && stripBullet(line) == stripBullet(prev[r]) {
			bulletOnly++
		}
	}
	if len(changed) == 0 {
		return nil
	}

	// Menu navigation: only the selector moved. Emit the new selection.
	if selectorOnly == len(changed) {
		for _, r := range changed {
			if isPromptLine(curr[r]) {
				return []int{r}
			}
		}
		return nil
	}
	// Bullet blink.
	if bulletOnly == len(changed) {
		return nil
	}

	rows := changed[:0]
	for _, r := range changed {
		if r < len(prev) && isChimera(prev[r], curr[r], t.ChimeraThreshold, t.ChimeraMinLen) {
			continue
		}
		rows = append(rows, r)
	}
	return rows
}
