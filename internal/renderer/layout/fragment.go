package layout

import (
	"strings"
	"unicode/utf8"
)

// Fragment is a run of text drawn with one style.
type Fragment struct {
	Style string
	Text  string
}

// Fragments is styled text.
type Fragments []Fragment

// Text returns a single fragment.
func Text(style, text string) Fragments {
	return Fragments{{Style: style, Text: text}}
}

// String returns the plain text.
func (fs Fragments) String() string {
	var sb strings.Builder
	for _, f := range fs {
		sb.WriteString(f.Text)
	}
	return sb.String()
}

// RuneCount returns the number of runes in the plain text.
func (fs Fragments) RuneCount() int {
	n := 0
	for _, f := range fs {
		n += utf8.RuneCountInString(f.Text)
	}
	return n
}

// SplitLines splits fs at newlines. There is always at least one line.
func (fs Fragments) SplitLines() []Fragments {
	lines := []Fragments{nil}
	for _, f := range fs {
		parts := strings.Split(f.Text, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part != "" {
				last := len(lines) - 1
				lines[last] = append(lines[last], Fragment{Style: f.Style, Text: part})
			}
		}
	}
	return lines
}
