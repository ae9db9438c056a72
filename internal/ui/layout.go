package ui

// DetermineLayoutMode picks how much chrome fits. Compact drops the bar and
// status rows; too small shows only a notice.
func DetermineLayoutMode(cols, rows int) LayoutMode {
	if cols < 20 || rows < 5 {
		return LayoutTooSmall
	}
	if rows < 12 {
		return LayoutCompact
	}
	return LayoutFull
}
