package term

import "strings"

const (
	DefaultCols = 80
	DefaultRows = 24
)

// Color is an optional RGB value. The zero value means "terminal default".
type Color struct {
	RGB
	Set bool
}

// ColorOf wraps c as a set color.
func ColorOf(c RGB) Color {
	return Color{RGB: c, Set: true}
}

// Style is the rendition applied to written characters.
type Style struct {
	FG        Color
	BG        Color
	Bold      bool
	Italic    bool
	Underline bool
}

// Plain reports whether the style carries no color and no attributes.
func (s Style) Plain() bool {
	return s == Style{}
}

// Cell is one display character and its rendition.
type Cell struct {
	Ch rune
	Style
}

// BlankCell returns the default cell: a space with no styling.
func BlankCell() Cell {
	return Cell{Ch: ' '}
}

// Clear resets the cell to BlankCell, dropping any styling.
func (c *Cell) Clear() {
	*c = BlankCell()
}

// Run is a maximal span of equally styled characters.
type Run struct {
	Text string
	Style
}

// Line is a styled display line.
type Line []Run

// Text returns the unstyled content of the line.
func (l Line) Text() string {
	var b strings.Builder
	for _, r := range l {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Screen is a fixed-size grid of cells plus a cursor.
//
// The cursor column may equal Cols() right after a write into the last
// column; the wrap to the next row happens on the following write.
type Screen struct {
	cols, rows int
	cells      [][]Cell
	row, col   int
}

// NewScreen allocates a blank screen. Non-positive sizes fall back to 80x24.
func NewScreen(cols, rows int) *Screen {
	if cols < 1 {
		cols = DefaultCols
	}
	if rows < 1 {
		rows = DefaultRows
	}
	s := &Screen{cols: cols, rows: rows, cells: make([][]Cell, rows)}
	for r := range s.cells {
		s.cells[r] = blankRow(cols)
	}
	return s
}

func blankRow(cols int) []Cell {
	row := make([]Cell, cols)
	for i := range row {
		row[i] = BlankCell()
	}
	return row
}

func (s *Screen) Cols() int { return s.cols }
func (s *Screen) Rows() int { return s.rows }

// Cursor returns the zero-based cursor position.
func (s *Screen) Cursor() (row, col int) {
	return s.row, s.col
}

// Cell returns the cell at (row, col). Out of range positions read as blank.
func (s *Screen) Cell(row, col int) Cell {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return BlankCell()
	}
	return s.cells[row][col]
}

func (s *Screen) MoveCursorTo(row, col int) {
	s.row = clamp(row, 0, s.rows-1)
	s.col = clamp(col, 0, s.cols-1)
}

// Relative moves stop at the screen edge; n is bounded first so huge counts
// cannot overflow.
func (s *Screen) MoveCursorUp(n int) {
	s.row = clamp(s.row-clamp(n, 0, s.rows), 0, s.rows-1)
}

func (s *Screen) MoveCursorDown(n int) {
	s.row = clamp(s.row+clamp(n, 0, s.rows), 0, s.rows-1)
}

func (s *Screen) MoveCursorForward(n int) {
	s.col = clamp(s.col+clamp(n, 0, s.cols), 0, s.cols-1)
}

func (s *Screen) MoveCursorBackward(n int) {
	s.col = clamp(s.col-clamp(n, 0, s.cols), 0, s.cols-1)
}

func (s *Screen) CarriageReturn() {
	s.col = 0
}

// LineFeed moves down one row, scrolling when already on the last row.
func (s *Screen) LineFeed() {
	if s.row < s.rows-1 {
		s.row++
		return
	}
	s.ScrollUp()
}

// WriteChar writes ch at the cursor and advances. A cursor past the last
// column wraps to the next row before the write.
func (s *Screen) WriteChar(ch rune, style Style) {
	if s.col >= s.cols {
		s.col = 0
		s.LineFeed()
	}
	s.cells[s.row][s.col] = Cell{Ch: ch, Style: style}
	s.col++
}

func (s *Screen) EraseToEndOfLine() {
	s.clearRange(s.row, s.col, s.cols)
}

func (s *Screen) EraseToStartOfLine() {
	s.clearRange(s.row, 0, min(s.col, s.cols-1)+1)
}

func (s *Screen) EraseEntireLine() {
	s.clearRange(s.row, 0, s.cols)
}

func (s *Screen) EraseToEndOfScreen() {
	s.EraseToEndOfLine()
	for r := s.row + 1; r < s.rows; r++ {
		s.clearRange(r, 0, s.cols)
	}
}

func (s *Screen) EraseToStartOfScreen() {
	s.EraseToStartOfLine()
	for r := 0; r < s.row; r++ {
		s.clearRange(r, 0, s.cols)
	}
}

func (s *Screen) EraseEntireScreen() {
	for r := 0; r < s.rows; r++ {
		s.clearRange(r, 0, s.cols)
	}
}

// EraseChars clears n cells starting at the cursor without moving it.
func (s *Screen) EraseChars(n int) {
	s.clearRange(s.row, s.col, s.col+clamp(n, 0, s.cols))
}

func (s *Screen) clearRange(row, from, to int) {
	from = max(from, 0)
	to = min(to, s.cols)
	for c := from; c < to; c++ {
		s.cells[row][c].Clear()
	}
}

// ScrollUp shifts every row up by one and blanks the new bottom row.
// The old top row is discarded.
func (s *Screen) ScrollUp() {
	top := s.cells[0]
	copy(s.cells, s.cells[1:])
	for i := range top {
		top[i].Clear()
	}
	s.cells[s.rows-1] = top
}

// RowText returns the row's characters with trailing spaces trimmed.
func (s *Screen) RowText(row int) string {
	if row < 0 || row >= s.rows {
		return ""
	}
	return rowText(s.cells[row])
}

// RowStyled returns the row as styled runs, dropping trailing blanks that
// carry no background color.
func (s *Screen) RowStyled(row int) Line {
	if row < 0 || row >= s.rows {
		return nil
	}
	return styledRow(s.cells[row])
}

// Lines returns the text of every row.
func (s *Screen) Lines() []string {
	out := make([]string, s.rows)
	for r := range out {
		out[r] = s.RowText(r)
	}
	return out
}

// VisibleLines returns row texts up to the last non-blank row.
func (s *Screen) VisibleLines() []string {
	lines := s.Lines()
	last := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			last = i
			break
		}
	}
	return lines[:last+1]
}

// Snapshot returns a deep, independent copy of the cell grid.
func (s *Screen) Snapshot() *Snapshot {
	cells := make([][]Cell, s.rows)
	for r := range cells {
		cells[r] = append([]Cell(nil), s.cells[r]...)
	}
	return &Snapshot{cols: s.cols, rows: s.rows, cells: cells}
}

// RowEquals reports whether live row r matches the same row in snap, cell
// for cell including styling.
func (s *Screen) RowEquals(row int, snap *Snapshot) bool {
	if snap == nil || row < 0 || row >= s.rows || row >= snap.rows {
		return false
	}
	return RowsEqual(s.cells[row], snap.cells[row])
}

// Snapshot is an immutable copy of a screen's cells.
type Snapshot struct {
	cols, rows int
	cells      [][]Cell
}

func (s *Snapshot) Cols() int { return s.cols }
func (s *Snapshot) Rows() int { return s.rows }

func (s *Snapshot) Cell(row, col int) Cell {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return BlankCell()
	}
	return s.cells[row][col]
}

func (s *Snapshot) RowText(row int) string {
	if row < 0 || row >= s.rows {
		return ""
	}
	return rowText(s.cells[row])
}

// RowsEqual compares two rows cell by cell.
func RowsEqual(a, b []Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func rowText(cells []Cell) string {
	var b strings.Builder
	b.Grow(len(cells))
	for _, c := range cells {
		b.WriteRune(c.Ch)
	}
	return strings.TrimRight(b.String(), " ")
}

func styledRow(cells []Cell) Line {
	last := len(cells) - 1
	for last >= 0 && cells[last].Ch == ' ' && !cells[last].BG.Set {
		last--
	}
	var (
		line Line
		b    strings.Builder
	)
	for i := 0; i <= last; i++ {
		c := cells[i]
		if i > 0 && c.Style != cells[i-1].Style {
			line = append(line, Run{Text: b.String(), Style: cells[i-1].Style})
			b.Reset()
		}
		b.WriteRune(c.Ch)
	}
	if last >= 0 {
		line = append(line, Run{Text: b.String(), Style: cells[last].Style})
	}
	return line
}
