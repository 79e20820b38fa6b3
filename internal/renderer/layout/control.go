package layout

import (
	"github.com/dshills/pgline/internal/buffer"
	"github.com/dshills/pgline/internal/renderer/core"
)

// Content is what a control shows at a given width.
type Content struct {
	Lines []Fragments

	// Cursor is the line (Row) and rune index within that line (Col).
	Cursor     core.Point
	ShowCursor bool
}

// Control produces the content of a Window.
type Control interface {
	Content(width int) Content
	Focusable() bool
}

// TextControl shows static or computed text.
type TextControl struct {
	text      func() Fragments
	focusable bool
}

// NewTextControl shows fixed text.
func NewTextControl(text Fragments) *TextControl {
	return &TextControl{text: func() Fragments { return text }}
}

// NewDynamicTextControl shows whatever fn returns at render time.
func NewDynamicTextControl(fn func() Fragments) *TextControl {
	return &TextControl{text: fn}
}

// SetFocusable controls whether the text can take focus.
func (c *TextControl) SetFocusable(v bool) { c.focusable = v }

// Focusable implements Control.
func (c *TextControl) Focusable() bool { return c.focusable }

// Content implements Control.
func (c *TextControl) Content(int) Content {
	var text Fragments
	if c.text != nil {
		text = c.text()
	}
	return Content{Lines: text.SplitLines()}
}

// Lexer styles the lines of a buffer, returning one Fragments per line.
// It must not add or remove text. Lines are passed together so constructs
// such as block comments can span them.
type Lexer func(lines []string) []Fragments

// LinePrefix returns what is drawn before line n of a buffer, such as the
// prompt on the first line and a continuation marker on the others.
type LinePrefix func(n int) Fragments

// BufferControl shows an editable buffer.
type BufferControl struct {
	buf    *buffer.Buffer
	lexer  Lexer
	prefix LinePrefix
}

// BufferControlOption configures a BufferControl.
type BufferControlOption func(*BufferControl)

// WithLexer styles buffer lines.
func WithLexer(l Lexer) BufferControlOption {
	return func(c *BufferControl) { c.lexer = l }
}

// WithLinePrefix draws fn(n) before line n.
func WithLinePrefix(fn LinePrefix) BufferControlOption {
	return func(c *BufferControl) { c.prefix = fn }
}

// NewBufferControl creates a control for b.
func NewBufferControl(b *buffer.Buffer, opts ...BufferControlOption) *BufferControl {
	c := &BufferControl{buf: b}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Buffer returns the buffer shown.
func (c *BufferControl) Buffer() *buffer.Buffer { return c.buf }

// Focusable implements Control.
func (c *BufferControl) Focusable() bool { return true }

// Content implements Control.
func (c *BufferControl) Content(int) Content {
	d := c.buf.Document()
	lines := d.Lines()
	out := make([]Fragments, len(lines))
	cursor := core.Point{Row: d.CursorRow(), Col: d.CursorCol()}
	var styled []Fragments
	if c.lexer != nil {
		styled = c.lexer(lines)
	}

	for i, line := range lines {
		var fs Fragments
		if c.prefix != nil {
			p := c.prefix(i)
			if i == cursor.Row {
				cursor.Col += p.RuneCount()
			}
			fs = append(fs, p...)
		}
		if i < len(styled) {
			fs = append(fs, styled[i]...)
		} else if line != "" {
			fs = append(fs, Fragment{Text: line})
		}
		out[i] = fs
	}
	return Content{Lines: out, Cursor: cursor, ShowCursor: true}
}

// IndexAt converts a content position, as returned by Window.PositionAt,
// to an offset in the buffer text. Positions inside the line prefix give
// the start of the line.
func (c *BufferControl) IndexAt(line, idx int) int {
	if c.prefix != nil {
		idx -= c.prefix(line).RuneCount()
	}
	return c.buf.Document().TranslateRowColToIndex(line, max(idx, 0))
}
