package core

import (
	"fmt"
	"strings"
)

// Attribute represents text attributes (bold, italic, etc.).
type Attribute uint16

// Text attribute flags.
const (
	AttrNone          Attribute = 0
	AttrBold          Attribute = 1 << iota
	AttrDim                     // Faint/dim text
	AttrItalic                  // Italic text
	AttrUnderline               // Underlined text
	AttrBlink                   // Blinking text (rarely supported)
	AttrReverse                 // Reverse video (swap fg/bg)
	AttrStrikethrough           // Strikethrough text
	AttrHidden                  // Hidden/invisible text
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a new attribute set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Without returns a new attribute set with the given attribute removed.
func (a Attribute) Without(attr Attribute) Attribute {
	return a &^ attr
}

// Attrs is the fully resolved visual style of a cell.
// It is comparable, so two style strings with the same rendering compare
// equal.
type Attrs struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultAttrs is the terminal's default rendition.
var DefaultAttrs = Attrs{Foreground: ColorDefault, Background: ColorDefault}

// String returns a debug representation.
func (a Attrs) String() string {
	var parts []string
	if !a.Foreground.IsDefault() {
		parts = append(parts, "fg:"+a.Foreground.String())
	}
	if !a.Background.IsDefault() {
		parts = append(parts, "bg:"+a.Background.String())
	}
	for _, f := range attrFlags {
		if a.Attributes.Has(f.attr) {
			parts = append(parts, f.name)
		}
	}
	if len(parts) == 0 {
		return "default"
	}
	return strings.Join(parts, " ")
}

var attrFlags = []struct {
	name string
	attr Attribute
}{
	{"bold", AttrBold},
	{"dim", AttrDim},
	{"italic", AttrItalic},
	{"underline", AttrUnderline},
	{"blink", AttrBlink},
	{"reverse", AttrReverse},
	{"strike", AttrStrikethrough},
	{"hidden", AttrHidden},
}

// ColorDepth is the number of colors the terminal can display.
type ColorDepth int

const (
	// Depth1Bit renders attributes only.
	Depth1Bit ColorDepth = iota
	// Depth4Bit uses the sixteen ANSI colors.
	Depth4Bit
	// Depth8Bit uses the 256-color palette.
	Depth8Bit
	// Depth24Bit uses true color.
	Depth24Bit
)

// DefaultColorDepth is used when nothing is known about the terminal.
const DefaultColorDepth = Depth8Bit

// String returns the depth name.
func (d ColorDepth) String() string {
	switch d {
	case Depth1Bit:
		return "1bit"
	case Depth4Bit:
		return "4bit"
	case Depth8Bit:
		return "8bit"
	case Depth24Bit:
		return "24bit"
	default:
		return fmt.Sprintf("ColorDepth(%d)", int(d))
	}
}

// ParseColorDepth parses "1", "4", "8", "24", with or without a "bit"
// suffix, and the names "monochrome", "ansi", "256" and "truecolor".
func ParseColorDepth(s string) (ColorDepth, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "1bit", "monochrome":
		return Depth1Bit, nil
	case "4", "4bit", "ansi", "16":
		return Depth4Bit, nil
	case "8", "8bit", "256":
		return Depth8Bit, nil
	case "24", "24bit", "truecolor":
		return Depth24Bit, nil
	}
	return DefaultColorDepth, fmt.Errorf("unknown color depth %q", s)
}
