package ui

import "testing"

func TestDetermineLayoutMode(t *testing.T) {
	cases := []struct {
		cols, rows int
		want       LayoutMode
	}{
		{cols: 80, rows: 24, want: LayoutFull},
		{cols: 40, rows: 12, want: LayoutFull},
		{cols: 80, rows: 8, want: LayoutCompact},
		{cols: 19, rows: 24, want: LayoutTooSmall},
		{cols: 80, rows: 4, want: LayoutTooSmall},
	}
	for _, tc := range cases {
		if got := DetermineLayoutMode(tc.cols, tc.rows); got != tc.want {
			t.Fatalf("DetermineLayoutMode(%d, %d): expected %s, got %s", tc.cols, tc.rows, tc.want, got)
		}
	}
}
