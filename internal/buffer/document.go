package buffer

import (
	"strings"
	"unicode"
)

// Document is an immutable text with a cursor position.
type Document struct {
	text   []rune
	cursor int
}

// NewDocument creates a document. The cursor is clamped to the text.
func NewDocument(text string, cursor int) Document {
	r := []rune(text)
	return Document{text: r, cursor: clamp(cursor, 0, len(r))}
}

// NewDocumentAtEnd creates a document with the cursor after the text.
func NewDocumentAtEnd(text string) Document {
	r := []rune(text)
	return Document{text: r, cursor: len(r)}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Text returns the whole text.
func (d Document) Text() string { return string(d.text) }

// Len returns the text length in runes.
func (d Document) Len() int { return len(d.text) }

// CursorPosition returns the cursor as a rune offset.
func (d Document) CursorPosition() int { return d.cursor }

// TextBeforeCursor returns the text left of the cursor.
func (d Document) TextBeforeCursor() string { return string(d.text[:d.cursor]) }

// TextAfterCursor returns the text from the cursor on.
func (d Document) TextAfterCursor() string { return string(d.text[d.cursor:]) }

// CharBeforeCursor returns the rune left of the cursor, or 0.
func (d Document) CharBeforeCursor() rune {
	if d.cursor == 0 {
		return 0
	}
	return d.text[d.cursor-1]
}

// CurrentChar returns the rune under the cursor, or 0 at the end.
func (d Document) CurrentChar() rune {
	if d.cursor >= len(d.text) {
		return 0
	}
	return d.text[d.cursor]
}

// IsCursorAtEnd reports whether the cursor is after the last rune.
func (d Document) IsCursorAtEnd() bool { return d.cursor == len(d.text) }

// Lines splits the text on newlines.
func (d Document) Lines() []string { return strings.Split(string(d.text), "\n") }

// LineCount returns the number of lines.
func (d Document) LineCount() int { return len(d.Lines()) }

// lineStarts returns the offset of the first rune of every line.
func (d Document) lineStarts() []int {
	starts := []int{0}
	for i, r := range d.text {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// TranslateIndexToPosition converts an offset to a row and column.
func (d Document) TranslateIndexToPosition(index int) (row, col int) {
	index = clamp(index, 0, len(d.text))
	starts := d.lineStarts()
	for row = len(starts) - 1; row > 0 && starts[row] > index; row-- {
	}
	return row, index - starts[row]
}

// TranslateRowColToIndex converts a row and column to an offset, clamping
// both to the text.
func (d Document) TranslateRowColToIndex(row, col int) int {
	starts := d.lineStarts()
	row = clamp(row, 0, len(starts)-1)
	end := len(d.text)
	if row+1 < len(starts) {
		end = starts[row+1] - 1
	}
	return clamp(starts[row]+col, starts[row], end)
}

// CursorRow returns the line of the cursor.
func (d Document) CursorRow() int {
	row, _ := d.TranslateIndexToPosition(d.cursor)
	return row
}

// CursorCol returns the column of the cursor.
func (d Document) CursorCol() int {
	_, col := d.TranslateIndexToPosition(d.cursor)
	return col
}

// CurrentLine returns the line of the cursor.
func (d Document) CurrentLine() string {
	return d.Lines()[d.CursorRow()]
}

// CurrentLineBeforeCursor returns the current line left of the cursor.
func (d Document) CurrentLineBeforeCursor() string {
	before := d.TextBeforeCursor()
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		return before[i+1:]
	}
	return before
}

// CurrentLineAfterCursor returns the current line from the cursor on.
func (d Document) CurrentLineAfterCursor() string {
	after := d.TextAfterCursor()
	if i := strings.IndexByte(after, '\n'); i >= 0 {
		return after[:i]
	}
	return after
}

// OnFirstLine reports whether the cursor is on the first line.
func (d Document) OnFirstLine() bool { return d.CursorRow() == 0 }

// OnLastLine reports whether the cursor is on the last line.
func (d Document) OnLastLine() bool { return d.CursorRow() == d.LineCount()-1 }

// StartOfLinePosition returns the relative offset to the start of the
// current line (zero or negative).
func (d Document) StartOfLinePosition() int {
	return -len([]rune(d.CurrentLineBeforeCursor()))
}

// EndOfLinePosition returns the relative offset to the end of the current
// line.
func (d Document) EndOfLinePosition() int {
	return len([]rune(d.CurrentLineAfterCursor()))
}

// CursorLeftPosition returns the relative offset for moving count runes
// left without leaving the line.
func (d Document) CursorLeftPosition(count int) int {
	if count < 0 {
		return d.CursorRightPosition(-count)
	}
	return -min(d.CursorCol(), count)
}

// CursorRightPosition returns the relative offset for moving count runes
// right without leaving the line.
func (d Document) CursorRightPosition(count int) int {
	if count < 0 {
		return d.CursorLeftPosition(-count)
	}
	return min(count, d.EndOfLinePosition())
}

// CursorUpPosition returns the relative offset for moving count lines up,
// keeping preferredCol (or the current column when negative).
func (d Document) CursorUpPosition(count, preferredCol int) int {
	if preferredCol < 0 {
		preferredCol = d.CursorCol()
	}
	row := max(0, d.CursorRow()-count)
	return d.TranslateRowColToIndex(row, preferredCol) - d.cursor
}

// CursorDownPosition is the downward counterpart of CursorUpPosition.
func (d Document) CursorDownPosition(count, preferredCol int) int {
	if preferredCol < 0 {
		preferredCol = d.CursorCol()
	}
	return d.TranslateRowColToIndex(d.CursorRow()+count, preferredCol) - d.cursor
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// FindPreviousWordBeginning returns the relative offset to the start of
// the count-th word left of the cursor, or 0 if there is none.
func (d Document) FindPreviousWordBeginning(count int) int {
	pos := d.cursor
	for range max(count, 1) {
		for pos > 0 && !isWordRune(d.text[pos-1]) {
			pos--
		}
		for pos > 0 && isWordRune(d.text[pos-1]) {
			pos--
		}
	}
	return pos - d.cursor
}

// FindNextWordEnding returns the relative offset to the end of the
// count-th word right of the cursor.
func (d Document) FindNextWordEnding(count int) int {
	pos := d.cursor
	for range max(count, 1) {
		for pos < len(d.text) && !isWordRune(d.text[pos]) {
			pos++
		}
		for pos < len(d.text) && isWordRune(d.text[pos]) {
			pos++
		}
	}
	return pos - d.cursor
}

// FindStartOfPreviousWhitespaceWord returns the relative offset to the
// start of the whitespace separated word left of the cursor, as used by
// unix-word-rubout.
func (d Document) FindStartOfPreviousWhitespaceWord() int {
	pos := d.cursor
	for pos > 0 && unicode.IsSpace(d.text[pos-1]) {
		pos--
	}
	for pos > 0 && !unicode.IsSpace(d.text[pos-1]) {
		pos--
	}
	return pos - d.cursor
}

// InsertBefore returns a document with text inserted at the cursor and
// the cursor after it.
func (d Document) InsertBefore(text string) Document {
	ins := []rune(text)
	out := make([]rune, 0, len(d.text)+len(ins))
	out = append(out, d.text[:d.cursor]...)
	out = append(out, ins...)
	out = append(out, d.text[d.cursor:]...)
	return Document{text: out, cursor: d.cursor + len(ins)}
}
