package term

import (
	"strings"
	"testing"
)

func writeString(s *Screen, text string, style Style) {
	for _, ch := range text {
		s.WriteChar(ch, style)
	}
}

func TestNewScreenDefaults(t *testing.T) {
	s := NewScreen(0, -1)
	if s.Cols() != DefaultCols || s.Rows() != DefaultRows {
		t.Fatalf("expected %dx%d, got %dx%d", DefaultCols, DefaultRows, s.Cols(), s.Rows())
	}
	if c := s.Cell(0, 0); c != BlankCell() {
		t.Fatalf("expected blank cell, got %+v", c)
	}
}

func TestWriteCharDefersWrap(t *testing.T) {
	s := NewScreen(5, 3)
	writeString(s, "abcde", Style{})

	row, col := s.Cursor()
	if row != 0 || col != 5 {
		t.Fatalf("expected cursor (0,5) after filling the row, got (%d,%d)", row, col)
	}
	if got := s.RowText(1); got != "" {
		t.Fatalf("row 1 should still be blank, got %q", got)
	}

	s.WriteChar('f', Style{})
	if got := s.RowText(0); got != "abcde" {
		t.Fatalf("row 0 = %q", got)
	}
	if got := s.RowText(1); got != "f" {
		t.Fatalf("row 1 = %q", got)
	}
	row, col = s.Cursor()
	if row != 1 || col != 1 {
		t.Fatalf("expected cursor (1,1), got (%d,%d)", row, col)
	}
}

func TestWrapAtBottomScrolls(t *testing.T) {
	s := NewScreen(3, 2)
	writeString(s, "abcdefg", Style{})
	if got := s.Lines(); got[0] != "def" || got[1] != "g" {
		t.Fatalf("unexpected lines %q", got)
	}
}

func TestCursorMovesClamp(t *testing.T) {
	s := NewScreen(10, 5)
	s.MoveCursorTo(100, -3)
	if r, c := s.Cursor(); r != 4 || c != 0 {
		t.Fatalf("got (%d,%d)", r, c)
	}
	s.MoveCursorUp(50)
	s.MoveCursorForward(50)
	if r, c := s.Cursor(); r != 0 || c != 9 {
		t.Fatalf("got (%d,%d)", r, c)
	}
	s.MoveCursorDown(2)
	s.MoveCursorBackward(4)
	if r, c := s.Cursor(); r != 2 || c != 5 {
		t.Fatalf("got (%d,%d)", r, c)
	}
}

func TestCursorMovesHugeCounts(t *testing.T) {
	const huge = int(^uint(0) >> 1)
	s := NewScreen(10, 5)
	s.MoveCursorTo(2, 3)
	s.MoveCursorForward(huge)
	if r, c := s.Cursor(); r != 2 || c != 9 {
		t.Fatalf("expected (2,9), got (%d,%d)", r, c)
	}
	s.MoveCursorDown(huge)
	if r, c := s.Cursor(); r != 4 || c != 9 {
		t.Fatalf("expected (4,9), got (%d,%d)", r, c)
	}
	s.MoveCursorBackward(huge)
	s.MoveCursorUp(huge)
	if r, c := s.Cursor(); r != 0 || c != 0 {
		t.Fatalf("expected (0,0), got (%d,%d)", r, c)
	}

	writeString(s, "abcdefghij", Style{})
	s.MoveCursorTo(0, 4)
	s.EraseChars(huge)
	if got := s.RowText(0); got != "abcd" {
		t.Fatalf("expected %q, got %q", "abcd", got)
	}
}

func TestLineFeedScrollsAtBottom(t *testing.T) {
	s := NewScreen(4, 3)
	for i, text := range []string{"one", "two", "thr"} {
		s.MoveCursorTo(i, 0)
		writeString(s, text, Style{})
	}
	s.MoveCursorTo(2, 1)
	s.LineFeed()

	want := []string{"two", "thr", ""}
	got := s.Lines()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %q, want %q", i, got[i], want[i])
		}
	}
	if r, c := s.Cursor(); r != 2 || c != 1 {
		t.Fatalf("line feed should keep the column, got (%d,%d)", r, c)
	}
}

func TestScrollUpClearsReusedRow(t *testing.T) {
	red := Style{FG: ColorOf(StandardColor(1)), Bold: true}
	s := NewScreen(3, 2)
	writeString(s, "xyz", red)
	s.ScrollUp()
	for c := 0; c < 3; c++ {
		if cell := s.Cell(1, c); cell != BlankCell() {
			t.Fatalf("bottom row cell %d not cleared: %+v", c, cell)
		}
	}
}

func TestEraseOperations(t *testing.T) {
	fill := func() *Screen {
		s := NewScreen(5, 3)
		for r := 0; r < 3; r++ {
			s.MoveCursorTo(r, 0)
			writeString(s, "abcde", Style{Bold: true})
		}
		s.MoveCursorTo(1, 2)
		return s
	}

	tests := []struct {
		name  string
		erase func(*Screen)
		want  []string
	}{
		{"to end of line", (*Screen).EraseToEndOfLine, []string{"abcde", "ab", "abcde"}},
		{"to start of line", (*Screen).EraseToStartOfLine, []string{"abcde", "   de", "abcde"}},
		{"entire line", (*Screen).EraseEntireLine, []string{"abcde", "", "abcde"}},
		{"to end of screen", (*Screen).EraseToEndOfScreen, []string{"abcde", "ab", ""}},
		{"to start of screen", (*Screen).EraseToStartOfScreen, []string{"", "   de", "abcde"}},
		{"entire screen", (*Screen).EraseEntireScreen, []string{"", "", ""}},
		{"chars", func(s *Screen) { s.EraseChars(2) }, []string{"abcde", "ab  e", "abcde"}},
		{"chars past edge", func(s *Screen) { s.EraseChars(20) }, []string{"abcde", "ab", "abcde"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fill()
			tt.erase(s)
			got := s.Lines()
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("row %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
			if r, c := s.Cursor(); r != 1 || c != 2 {
				t.Fatalf("erase moved the cursor to (%d,%d)", r, c)
			}
		})
	}
}

func TestErasedCellsDropStyle(t *testing.T) {
	s := NewScreen(4, 1)
	writeString(s, "abcd", Style{BG: ColorOf(StandardColor(2))})
	s.MoveCursorTo(0, 1)
	s.EraseToEndOfLine()
	if cell := s.Cell(0, 3); cell != BlankCell() {
		t.Fatalf("erased cell kept styling: %+v", cell)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := NewScreen(4, 2)
	writeString(s, "ab", Style{})
	snap := s.Snapshot()

	s.MoveCursorTo(0, 0)
	writeString(s, "zz", Style{})

	if got := snap.RowText(0); got != "ab" {
		t.Fatalf("snapshot changed with the live screen: %q", got)
	}
	if s.RowEquals(0, snap) {
		t.Fatalf("row 0 should differ from the snapshot")
	}
	if !s.RowEquals(1, snap) {
		t.Fatalf("row 1 should equal the snapshot")
	}
	if s.RowEquals(0, nil) {
		t.Fatalf("nil snapshot never matches")
	}
}

func TestRowEqualsComparesStyle(t *testing.T) {
	s := NewScreen(4, 1)
	writeString(s, "ab", Style{})
	snap := s.Snapshot()
	s.MoveCursorTo(0, 0)
	writeString(s, "ab", Style{Italic: true})
	if s.RowEquals(0, snap) {
		t.Fatalf("rows with equal text but different style must differ")
	}
}

func TestRowStyledRuns(t *testing.T) {
	red := Style{FG: ColorOf(StandardColor(1))}
	green := Style{BG: ColorOf(StandardColor(2))}

	s := NewScreen(12, 1)
	writeString(s, "ab", Style{})
	writeString(s, "cd", red)
	writeString(s, " ", green)

	line := s.RowStyled(0)
	if len(line) != 3 {
		t.Fatalf("expected 3 runs, got %d: %+v", len(line), line)
	}
	if line[0].Text != "ab" || !line[0].Plain() {
		t.Fatalf("run 0 = %+v", line[0])
	}
	if line[1].Text != "cd" || line[1].Style != red {
		t.Fatalf("run 1 = %+v", line[1])
	}
	// A trailing space with a background colour is content.
	if line[2].Text != " " || line[2].Style != green {
		t.Fatalf("run 2 = %+v", line[2])
	}
	if got := line.Text(); got != "abcd " {
		t.Fatalf("line text = %q", got)
	}
}

func TestRowStyledBlankRow(t *testing.T) {
	s := NewScreen(6, 2)
	if line := s.RowStyled(1); len(line) != 0 {
		t.Fatalf("blank row should have no runs, got %+v", line)
	}
}

func TestVisibleLines(t *testing.T) {
	s := NewScreen(6, 5)
	s.MoveCursorTo(2, 0)
	writeString(s, "hi", Style{})
	got := s.VisibleLines()
	if len(got) != 3 || got[2] != "hi" {
		t.Fatalf("visible lines = %q", got)
	}
	if got := NewScreen(3, 3).VisibleLines(); len(got) != 0 {
		t.Fatalf("blank screen should have no visible lines, got %q", got)
	}
}

func TestPaletteColor(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{1, "#CC0000"},
		{9, "#EF2929"},
		{16, "#000000"},
		{21, "#0000FF"},
		{196, "#FF0000"},
		{231, "#FFFFFF"},
		{232, "#080808"},
		{255, "#EEEEEE"},
	}
	for _, tt := range tests {
		if got := PaletteColor(tt.index).Hex(); got != tt.want {
			t.Fatalf("palette %d = %s, want %s", tt.index, got, tt.want)
		}
	}
}

func TestRowTextTrimsTrailingSpaces(t *testing.T) {
	s := NewScreen(10, 1)
	writeString(s, "a b   ", Style{})
	if got := s.RowText(0); got != "a b" {
		t.Fatalf("got %q", got)
	}
	if got := strings.Join(s.Lines(), "|"); got != "a b" {
		t.Fatalf("lines = %q", got)
	}
}
