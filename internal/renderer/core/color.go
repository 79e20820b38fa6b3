package core

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color represents a color value.
// Supports true color (RGB) and terminal palette colors.
type Color struct {
	R, G, B uint8
	// If Indexed is true, R contains the palette index (0-255).
	// G and B are ignored in indexed mode.
	Indexed bool
	// Default indicates this is the terminal's default color.
	Default bool
}

// ColorDefault represents the terminal's default color.
var ColorDefault = Color{Default: true}

// ansiNames lists the sixteen ANSI palette entries by index.
var ansiNames = [16]string{
	"ansiblack", "ansired", "ansigreen", "ansiyellow",
	"ansiblue", "ansimagenta", "ansicyan", "ansigray",
	"ansibrightblack", "ansibrightred", "ansibrightgreen", "ansibrightyellow",
	"ansibrightblue", "ansibrightmagenta", "ansibrightcyan", "ansiwhite",
}

// ansiAliases are alternative spellings accepted by ParseColor.
var ansiAliases = map[string]uint8{
	"ansidarkgray":  8,
	"ansilightgray": 7,
	"ansibrown":     3,
	"ansidarkred":   1,
	"ansidarkgreen": 2,
	"ansidarkblue":  4,
	"ansiteal":      6,
	"ansipurple":    5,
	"ansifuchsia":   13,
	"ansiturquoise": 14,
}

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromIndex creates an indexed palette color.
func ColorFromIndex(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// ColorFromHex creates a color from "#rgb", "#rrggbb" or the same without
// the leading '#'.
func ColorFromHex(hex string) (Color, error) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid hex color length: %s", hex)
	}
	c, err := colorful.Hex("#" + h)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color: %s", hex)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// ParseColor parses "default", an ANSI palette name such as "ansired" or
// "ansibrightblue", or a hex color.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "default":
		return ColorDefault, nil
	}
	for i, name := range ansiNames {
		if s == name {
			return ColorFromIndex(uint8(i)), nil
		}
	}
	if idx, ok := ansiAliases[s]; ok {
		return ColorFromIndex(idx), nil
	}
	return ColorFromHex(s)
}

// IsDefault returns true if this is the default/transparent color.
func (c Color) IsDefault() bool {
	return c.Default
}

// IsANSI returns true for the sixteen named palette colors.
func (c Color) IsANSI() bool {
	return c.Indexed && c.R < 16
}

// String returns a string representation of the color.
func (c Color) String() string {
	switch {
	case c.Default:
		return "default"
	case c.IsANSI():
		return ansiNames[c.R]
	case c.Indexed:
		return fmt.Sprintf("idx(%d)", c.R)
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGB returns the color's components. Palette colors use the xterm defaults.
func (c Color) RGB() (r, g, b uint8) {
	if c.Indexed {
		p := palette256[c.R]
		return p.r, p.g, p.b
	}
	return c.R, c.G, c.B
}

type rgb struct{ r, g, b uint8 }

// palette256 holds the xterm default palette.
var palette256 = func() [256]rgb {
	var p [256]rgb
	copy(p[:16], []rgb{
		{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
		{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
		{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
		{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
	})
	levels := [6]uint8{0, 95, 135, 175, 215, 255}
	for i := 0; i < 216; i++ {
		p[16+i] = rgb{levels[i/36], levels[(i/6)%6], levels[i%6]}
	}
	for i := 0; i < 24; i++ {
		v := uint8(8 + 10*i)
		p[232+i] = rgb{v, v, v}
	}
	return p
}()

// nearest returns the palette index in [lo, hi) closest to (r, g, b).
func nearest(r, g, b uint8, lo, hi int) uint8 {
	target := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	best, bestDist := lo, -1.0
	for i := lo; i < hi; i++ {
		p := palette256[i]
		d := target.DistanceRgb(colorful.Color{R: float64(p.r) / 255, G: float64(p.g) / 255, B: float64(p.b) / 255})
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint8(best)
}

// To16 maps the color to the nearest of the sixteen ANSI colors.
func (c Color) To16() uint8 {
	if c.IsANSI() {
		return c.R
	}
	r, g, b := c.RGB()
	return nearest(r, g, b, 0, 16)
}

// To256 maps the color to the nearest 256-palette entry. ANSI colors keep
// their index; RGB colors are matched against the cube and gray ramp.
func (c Color) To256() uint8 {
	if c.Indexed {
		return c.R
	}
	return nearest(c.R, c.G, c.B, 16, 256)
}
