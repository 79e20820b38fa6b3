package core

import "fmt"

// Point is a cell position, 0-indexed from the top-left.
type Point struct {
	Row int
	Col int
}

// String returns "(row, col)".
func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Size is a terminal or screen size in cells.
type Size struct {
	Rows    int
	Columns int
}

// String returns "rowsxcolumns".
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Rows, s.Columns)
}

// IsZero reports whether either dimension is unknown.
func (s Size) IsZero() bool {
	return s.Rows <= 0 || s.Columns <= 0
}
