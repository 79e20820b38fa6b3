package screen

import (
	"hash/maphash"

	"github.com/rivo/uniseg"

	"github.com/dshills/pgline/internal/renderer/core"
)

// ControlStyle is appended to the style of control characters, which are
// drawn in caret notation.
const ControlStyle = "class:control-character"

// Screen is a sparse grid of Chars with a cursor position.
type Screen struct {
	rows    map[int]map[int]Char
	rowMax  map[int]int
	escapes map[core.Point]string

	// rowSum XORs a hash of every written cell and escape of a row.
	rowSum map[int]uint64

	cursor     core.Point
	showCursor bool

	width  int
	height int
}

// New creates an empty screen with a visible cursor at (0, 0).
func New() *Screen {
	return &Screen{
		rows:       make(map[int]map[int]Char),
		rowMax:     make(map[int]int),
		escapes:    make(map[core.Point]string),
		rowSum:     make(map[int]uint64),
		showCursor: true,
	}
}

// Width returns one past the rightmost written column.
func (s *Screen) Width() int { return s.width }

// Height returns one past the lowest written row.
func (s *Screen) Height() int { return s.height }

// Cursor returns the cursor position.
func (s *Screen) Cursor() core.Point { return s.cursor }

// SetCursor moves the cursor. The position counts toward the height so
// that the cursor row is always drawn.
func (s *Screen) SetCursor(p core.Point) {
	s.cursor = p
	s.grow(p.Row, -1)
}

// CursorVisible reports whether the cursor should be shown.
func (s *Screen) CursorVisible() bool { return s.showCursor }

// SetCursorVisible shows or hides the cursor.
func (s *Screen) SetCursorVisible(v bool) { s.showCursor = v }

// At returns the cell at p, or Blank.
func (s *Screen) At(p core.Point) Char {
	if row, ok := s.rows[p.Row]; ok {
		if c, ok := row[p.Col]; ok {
			return c
		}
	}
	return Blank
}

// MaxColumn returns the rightmost written column of row, or -1 if the row
// is empty.
func (s *Screen) MaxColumn(row int) int {
	if m, ok := s.rowMax[row]; ok {
		return m
	}
	return -1
}

func (s *Screen) grow(row, col int) {
	if row+1 > s.height {
		s.height = row + 1
	}
	if col+1 > s.width {
		s.width = col + 1
	}
}

func (s *Screen) set(p core.Point, c Char) {
	row, ok := s.rows[p.Row]
	if !ok {
		row = make(map[int]Char)
		s.rows[p.Row] = row
	}
	if old, ok := row[p.Col]; ok {
		s.rowSum[p.Row] ^= cellHash(p.Col, old.Text, old.Style, false)
	}
	row[p.Col] = c
	s.rowSum[p.Row] ^= cellHash(p.Col, c.Text, c.Style, false)
	if m, ok := s.rowMax[p.Row]; !ok || p.Col > m {
		s.rowMax[p.Row] = p.Col
	}
	s.grow(p.Row, p.Col)
}

// SameRow reports whether row holds the same cells and escapes in s and
// other. A false result only means the row has to be compared cell by cell.
func (s *Screen) SameRow(other *Screen, row int) bool {
	return s.rowSum[row] == other.rowSum[row] && s.MaxColumn(row) == other.MaxColumn(row)
}

var cellSeed = maphash.MakeSeed()

type cellKey struct {
	col         int
	text, style string
	escape      bool
}

func cellHash(col int, text, style string, escape bool) uint64 {
	return maphash.Comparable(cellSeed, cellKey{col: col, text: text, style: style, escape: escape})
}

func (s *Screen) lookup(p core.Point) (Char, bool) {
	row, ok := s.rows[p.Row]
	if !ok {
		return Char{}, false
	}
	c, ok := row[p.Col]
	return c, ok
}

// WriteChar stores c at p. A write is rejected, and false returned, when
// the cell already holds a char with a higher z-index. Overwriting half of
// a double-width char blanks the other half. A double-width c also claims
// the cell to its right.
func (s *Screen) WriteChar(p core.Point, c Char) bool {
	if p.Row < 0 || p.Col < 0 {
		return false
	}
	if old, ok := s.lookup(p); ok && old.ZIndex > c.ZIndex {
		return false
	}
	if c.Width == 2 {
		right := core.Point{Row: p.Row, Col: p.Col + 1}
		if old, ok := s.lookup(right); ok && old.ZIndex > c.ZIndex {
			c = Char{Text: " ", Style: c.Style, Width: 1, ZIndex: c.ZIndex}
		}
	}

	s.breakWide(p)
	s.set(p, c)

	if c.Width == 2 {
		right := core.Point{Row: p.Row, Col: p.Col + 1}
		s.breakWide(right)
		s.set(right, sentinel(c.Style, c.ZIndex))
	}
	return true
}

// breakWide blanks the other half of a double-width char that overlaps p,
// before p itself is overwritten.
func (s *Screen) breakWide(p core.Point) {
	old, ok := s.lookup(p)
	if !ok {
		return
	}
	switch {
	case old.IsSentinel() && p.Col > 0:
		left := core.Point{Row: p.Row, Col: p.Col - 1}
		if l, ok := s.lookup(left); ok && l.Width == 2 {
			s.set(left, Char{Text: " ", Style: l.Style, Width: 1, ZIndex: l.ZIndex})
		}
	case old.Width == 2:
		right := core.Point{Row: p.Row, Col: p.Col + 1}
		if r, ok := s.lookup(right); ok && r.IsSentinel() {
			s.set(right, Char{Text: " ", Style: r.Style, Width: 1, ZIndex: r.ZIndex})
		}
	}
}

// WriteString writes text starting at p, one grapheme cluster per cell,
// and returns the position after the last cell written. Control characters
// are drawn in caret notation. A zero-width cluster at the start of text
// is joined to the cell before p. Writing stops at maxCol when it is
// positive; a double-width cluster that would straddle maxCol is replaced
// by a blank.
func (s *Screen) WriteString(p core.Point, text, style string, z, maxCol int) core.Point {
	state := -1
	for len(text) > 0 {
		var cluster string
		var width int
		cluster, text, width, state = uniseg.FirstGraphemeClusterInString(text, state)

		if ctl, ok := controlText(cluster); ok {
			cs := JoinStyle(style, ControlStyle)
			for _, r := range ctl {
				if maxCol > 0 && p.Col >= maxCol {
					return p
				}
				s.WriteChar(p, Char{Text: string(r), Style: cs, Width: 1, ZIndex: z})
				p.Col++
			}
			continue
		}

		if width == 0 {
			s.joinPrevious(p, cluster)
			continue
		}
		if width > 2 {
			width = 2
		}
		if maxCol > 0 && p.Col+width > maxCol {
			if p.Col < maxCol {
				s.WriteChar(p, Char{Text: " ", Style: style, Width: 1, ZIndex: z})
				p.Col++
			}
			return p
		}
		s.WriteChar(p, Char{Text: cluster, Style: style, Width: width, ZIndex: z})
		p.Col += width
	}
	return p
}

func (s *Screen) joinPrevious(p core.Point, cluster string) {
	if p.Col == 0 {
		return
	}
	prev := core.Point{Row: p.Row, Col: p.Col - 1}
	c, ok := s.lookup(prev)
	if ok && c.IsSentinel() && prev.Col > 0 {
		prev.Col--
		c, ok = s.lookup(prev)
	}
	if !ok {
		return
	}
	c.Text += cluster
	s.set(prev, c)
}

// AddZeroWidthEscape attaches an escape sequence (for example a hyperlink
// or terminal title change) to be written raw before the cell at p.
func (s *Screen) AddZeroWidthEscape(p core.Point, esc string) {
	if old, ok := s.escapes[p]; ok {
		s.rowSum[p.Row] ^= cellHash(p.Col, old, "", true)
	}
	s.escapes[p] += esc
	s.rowSum[p.Row] ^= cellHash(p.Col, s.escapes[p], "", true)
}

// ZeroWidthEscape returns the escapes attached to p.
func (s *Screen) ZeroWidthEscape(p core.Point) string {
	return s.escapes[p]
}

// FillArea applies style to every cell of the rectangle starting at p,
// appending to the style of cells that are already written.
func (s *Screen) FillArea(p core.Point, size core.Size, style string) {
	if style == "" {
		return
	}
	for r := p.Row; r < p.Row+size.Rows; r++ {
		for c := p.Col; c < p.Col+size.Columns; c++ {
			pos := core.Point{Row: r, Col: c}
			ch, ok := s.lookup(pos)
			if !ok {
				ch = Blank
			}
			ch.Style = JoinStyle(style, ch.Style)
			s.set(pos, ch)
		}
	}
}

// JoinStyle concatenates style strings; later words take precedence.
func JoinStyle(styles ...string) string {
	out := ""
	for _, st := range styles {
		switch {
		case st == "":
		case out == "":
			out = st
		default:
			out += " " + st
		}
	}
	return out
}

// WritePosition is the region a container may draw into.
type WritePosition struct {
	Col    int
	Row    int
	Width  int
	Height int
}

// Contains reports whether p lies inside the region.
func (wp WritePosition) Contains(p core.Point) bool {
	return p.Row >= wp.Row && p.Row < wp.Row+wp.Height &&
		p.Col >= wp.Col && p.Col < wp.Col+wp.Width
}
