package term

// Grid is a read-only view over a cell grid. Both the live Screen and a
// retained Snapshot satisfy it.
type Grid interface {
	Rows() int
	Cols() int
	Cell(row, col int) Cell
	RowText(row int) string
}

var (
	_ Grid = (*Screen)(nil)
	_ Grid = (*Snapshot)(nil)
)
