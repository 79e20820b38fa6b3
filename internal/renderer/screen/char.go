package screen

import (
	"github.com/rivo/uniseg"
)

// Char is a single cell of the screen.
type Char struct {
	// Text is one grapheme cluster. Empty for the right half of a
	// double-width character.
	Text string

	// Style is an unresolved style string such as "class:prompt bold".
	Style string

	// Width is the display width: 1 or 2, or 0 for the sentinel.
	Width int

	// ZIndex orders overlapping writes; higher wins.
	ZIndex int
}

// Blank is the cell every unwritten position reads as.
var Blank = Char{Text: " ", Width: 1}

// NewChar creates a cell for text with the given style.
func NewChar(text, style string) Char {
	w := uniseg.StringWidth(text)
	if w > 2 {
		w = 2
	}
	if w < 1 {
		w = 1
	}
	return Char{Text: text, Style: style, Width: w}
}

// sentinel returns the right half of a double-width char.
func sentinel(style string, z int) Char {
	return Char{Style: style, ZIndex: z}
}

// IsSentinel reports whether c is the right half of a double-width char.
func (c Char) IsSentinel() bool {
	return c.Width == 0 && c.Text == ""
}

// Equal compares the rendered outcome of two cells. ZIndex is ignored.
func (c Char) Equal(o Char) bool {
	return c.Text == o.Text && c.Style == o.Style
}

// controlText returns the caret notation for control runes.
func controlText(s string) (string, bool) {
	if len(s) != 1 {
		return "", false
	}
	b := s[0]
	switch {
	case b < 0x20:
		return "^" + string(rune(b+'@')), true
	case b == 0x7f:
		return "^?", true
	}
	return "", false
}
