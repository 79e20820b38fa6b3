package layout

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/pgline/internal/renderer/screen"
)

// wordWrapLookback bounds how far back word wrapping looks for a space.
const wordWrapLookback = 20

// Cell is one column of a laid out line. The right half of a double-width
// character is a continuation cell with Width 0 and no text.
type Cell struct {
	Text  string
	Style string
	Width int
}

// IsContinuation reports whether c is the right half of a wide character.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Text == ""
}

// LineLayout is the visual form of one logical line.
type LineLayout struct {
	// Cells holds one entry per display column, tabs expanded.
	Cells []Cell

	// BufferCols maps rune index to visual column. It has one extra entry
	// for the position after the last rune.
	BufferCols []int

	// WrapPoints are the visual columns where wrapped rows start.
	WrapPoints []int
	RowCount   int

	Width   int
	HasTabs bool
	HasWide bool

	wrapWidth int
}

// VisualColumn converts a rune index to a visual column. Indexes past the
// end extrapolate one column per rune.
func (l *LineLayout) VisualColumn(idx int) int {
	if idx < 0 {
		return 0
	}
	if len(l.BufferCols) == 0 {
		return idx
	}
	if idx >= len(l.BufferCols) {
		return l.BufferCols[len(l.BufferCols)-1] + idx - len(l.BufferCols) + 1
	}
	return l.BufferCols[idx]
}

// IndexAt converts a visual column to the index of the rune drawn there.
// Columns inside a wide character or tab give that rune, combining marks
// stay with their base, and columns past the end give the rune count.
func (l *LineLayout) IndexAt(visCol int) int {
	if len(l.BufferCols) == 0 {
		return max(visCol, 0)
	}
	idx := 0
	for i, c := range l.BufferCols {
		if c > visCol {
			break
		}
		if c > l.BufferCols[idx] {
			idx = i
		}
	}
	return idx
}

// VisualRow returns the wrapped row a visual column falls on.
func (l *LineLayout) VisualRow(visCol int) int {
	row := 0
	for _, wp := range l.WrapPoints {
		if visCol < wp {
			break
		}
		row++
	}
	return row
}

// RowStartColumn returns the visual column where a wrapped row starts.
func (l *LineLayout) RowStartColumn(row int) int {
	if row <= 0 || len(l.WrapPoints) == 0 {
		return 0
	}
	row = min(row, len(l.WrapPoints))
	return l.WrapPoints[row-1]
}

// RowEndColumn returns the visual column where a wrapped row ends
// (exclusive).
func (l *LineLayout) RowEndColumn(row int) int {
	if row < 0 {
		return 0
	}
	if row >= len(l.WrapPoints) {
		return l.Width
	}
	return l.WrapPoints[row]
}

// CellsForRow returns the cells of a wrapped row.
func (l *LineLayout) CellsForRow(row int) []Cell {
	start := min(l.RowStartColumn(row), len(l.Cells))
	end := min(l.RowEndColumn(row), len(l.Cells))
	return l.Cells[start:end]
}

// CursorPosition returns the row and column of the cursor placed before
// rune idx. A cursor that would sit just past a full wrapped row moves to
// the start of the next one.
func (l *LineLayout) CursorPosition(idx int) (row, col int) {
	vis := l.VisualColumn(idx)
	row = l.VisualRow(vis)
	col = vis - l.RowStartColumn(row)
	if l.wrapWidth > 0 && col >= l.wrapWidth {
		row, col = row+1, 0
	}
	return row, col
}

// IsEmpty reports whether the line has no cells.
func (l *LineLayout) IsEmpty() bool {
	return len(l.Cells) == 0
}

// LayoutEngine computes line layouts. The zero value does not wrap and
// uses the default tab width.
type LayoutEngine struct {
	tabs       TabExpander
	wrapWidth  int
	wrapAtWord bool
}

// NewLayoutEngine creates a layout engine with the given tab width.
func NewLayoutEngine(tabWidth int) LayoutEngine {
	return LayoutEngine{tabs: NewTabExpander(tabWidth)}
}

// TabWidth returns the tab width.
func (e LayoutEngine) TabWidth() int {
	if e.tabs.tabWidth == 0 {
		return DefaultTabWidth
	}
	return e.tabs.tabWidth
}

// WrapWidth returns the wrap width, 0 when wrapping is off.
func (e LayoutEngine) WrapWidth() int {
	return e.wrapWidth
}

// WithWrap returns a copy of e wrapping at width; 0 disables wrapping.
// When atWord is set rows break after a space if one is near.
func (e LayoutEngine) WithWrap(width int, atWord bool) LayoutEngine {
	e.wrapWidth = max(width, 0)
	e.wrapAtWord = atWord
	return e
}

// Layout computes the visual layout of one line, which must not contain
// newlines.
func (e LayoutEngine) Layout(line Fragments) *LineLayout {
	if e.tabs.tabWidth == 0 {
		e.tabs = NewTabExpander(DefaultTabWidth)
	}
	l := &LineLayout{RowCount: 1, wrapWidth: e.wrapWidth}
	rowStart := 0

	place := func(cells ...Cell) {
		w := len(cells)
		for e.wrapWidth > 0 && len(l.Cells) > rowStart && len(l.Cells)-rowStart+w > e.wrapWidth {
			rowStart = e.findWrapPoint(l, rowStart)
			l.WrapPoints = append(l.WrapPoints, rowStart)
			l.RowCount++
		}
		l.Cells = append(l.Cells, cells...)
	}

	for _, f := range line {
		text := f.Text
		state := -1
		for text != "" {
			var cluster string
			var width int
			cluster, text, width, state = uniseg.FirstGraphemeClusterInString(text, state)
			runes := utf8.RuneCountInString(cluster)

			if cluster == "\t" {
				l.HasTabs = true
				l.mark(runes, len(l.Cells))
				for range e.tabs.TabStopOffset(len(l.Cells)) {
					place(Cell{Text: " ", Style: f.Style, Width: 1})
				}
				continue
			}
			if caret, ok := controlCaret(cluster); ok {
				style := screen.JoinStyle(f.Style, screen.ControlStyle)
				l.mark(runes, len(l.Cells))
				place(Cell{Text: "^", Style: style, Width: 1})
				place(Cell{Text: caret, Style: style, Width: 1})
				continue
			}
			if width == 0 {
				l.mark(runes, len(l.Cells))
				if i := lastCharCell(l.Cells); i >= 0 {
					l.Cells[i].Text += cluster
				}
				continue
			}

			if width >= 2 {
				l.HasWide = true
				place(Cell{Text: cluster, Style: f.Style, Width: 2}, Cell{Style: f.Style})
				l.mark(runes, len(l.Cells)-2)
				continue
			}
			place(Cell{Text: cluster, Style: f.Style, Width: 1})
			l.mark(runes, len(l.Cells)-1)
		}
	}

	l.BufferCols = append(l.BufferCols, len(l.Cells))
	l.Width = len(l.Cells)
	return l
}

func (l *LineLayout) mark(runes, col int) {
	for range runes {
		l.BufferCols = append(l.BufferCols, col)
	}
}

// findWrapPoint returns where the row starting at rowStart breaks. Word
// wrapping breaks after the last space within reach.
func (e LayoutEngine) findWrapPoint(l *LineLayout, rowStart int) int {
	col := len(l.Cells)
	if !e.wrapAtWord {
		return col
	}
	for i := col - 1; i > rowStart && i >= col-wordWrapLookback; i-- {
		if l.Cells[i].Text == " " {
			return i + 1
		}
	}
	return col
}

func lastCharCell(cells []Cell) int {
	for i := len(cells) - 1; i >= 0; i-- {
		if !cells[i].IsContinuation() {
			return i
		}
	}
	return -1
}

// controlCaret returns the letter of the caret notation for a control
// character.
func controlCaret(s string) (string, bool) {
	if len(s) != 1 {
		return "", false
	}
	switch b := s[0]; {
	case b < 0x20:
		return string(rune(b + '@')), true
	case b == 0x7f:
		return "?", true
	}
	return "", false
}
