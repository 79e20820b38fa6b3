package output

import (
	"strconv"
	"strings"

	"github.com/dshills/pgline/internal/renderer/core"
)

type sgrKey struct {
	attrs core.Attrs
	depth core.ColorDepth
}

var attrCodes = []struct {
	attr core.Attribute
	code string
}{
	{core.AttrBold, "1"},
	{core.AttrDim, "2"},
	{core.AttrItalic, "3"},
	{core.AttrBlink, "5"},
	{core.AttrUnderline, "4"},
	{core.AttrReverse, "7"},
	{core.AttrHidden, "8"},
	{core.AttrStrikethrough, "9"},
}

// sgr builds the escape sequence that resets attributes and applies a.
func sgr(a core.Attrs, depth core.ColorDepth) string {
	parts := make([]string, 0, 8)
	parts = appendColor(parts, a.Foreground, depth, false)
	parts = appendColor(parts, a.Background, depth, true)
	for _, ac := range attrCodes {
		if a.Attributes.Has(ac.attr) {
			parts = append(parts, ac.code)
		}
	}
	if len(parts) == 0 {
		return "\x1b[0m"
	}
	return "\x1b[0;" + strings.Join(parts, ";") + "m"
}

func appendColor(parts []string, c core.Color, depth core.ColorDepth, bg bool) []string {
	if c.IsDefault() || depth == core.Depth1Bit {
		return parts
	}

	if c.IsANSI() || depth == core.Depth4Bit {
		idx := int(c.To16())
		base := 30
		if idx >= 8 {
			base = 90
			idx -= 8
		}
		if bg {
			base += 10
		}
		return append(parts, strconv.Itoa(base+idx))
	}

	sel := "38"
	if bg {
		sel = "48"
	}
	if depth == core.Depth24Bit && !c.Indexed {
		return append(parts, sel, "2",
			strconv.Itoa(int(c.R)), strconv.Itoa(int(c.G)), strconv.Itoa(int(c.B)))
	}
	return append(parts, sel, "5", strconv.Itoa(int(c.To256())))
}
