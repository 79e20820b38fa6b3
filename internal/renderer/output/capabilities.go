package output

import (
	"strings"

	"github.com/gdamore/tcell/v2/terminfo"
	_ "github.com/gdamore/tcell/v2/terminfo/base"

	"github.com/dshills/pgline/internal/renderer/core"
)

// Capabilities describes what a terminal type supports.
type Capabilities struct {
	Term string

	// Known is false when the terminal type is not in the database.
	Known bool

	// Colors is the palette size from terminfo, or 0.
	Colors int

	TrueColor       bool
	Title           bool
	AlternateScreen bool
	Mouse           bool
	BracketedPaste  bool

	// Lines and Columns are the terminfo defaults, used when the size
	// cannot be queried.
	Lines   int
	Columns int
}

// noTitle lists terminals that print the title escape instead of
// interpreting it.
var noTitle = map[string]bool{
	"linux":       true,
	"eterm-color": true,
}

// LookupCapabilities returns the capabilities for term. env supplies
// environment variables such as COLORTERM; it may be nil.
func LookupCapabilities(term string, env func(string) string) Capabilities {
	if env == nil {
		env = func(string) string { return "" }
	}

	caps := Capabilities{
		Term:            term,
		Title:           !noTitle[term] && term != "dumb",
		AlternateScreen: term != "dumb",
		BracketedPaste:  term != "dumb",
	}

	if ti, err := terminfo.LookupTerminfo(term); err == nil {
		caps.Known = true
		caps.Colors = ti.Colors
		caps.TrueColor = ti.SetFgBgRGB != "" || ti.SetFgRGB != "" || ti.SetBgRGB != ""
		caps.AlternateScreen = ti.EnterCA != ""
		caps.Mouse = ti.Mouse != ""
		caps.Lines = ti.Lines
		caps.Columns = ti.Columns
	}

	switch strings.ToLower(env("COLORTERM")) {
	case "truecolor", "24bit":
		caps.TrueColor = true
	}
	if env("TCELL_TRUECOLOR") == "disable" {
		caps.TrueColor = false
	}
	return caps
}

// ColorDepth picks the depth to render with.
func (c Capabilities) ColorDepth() core.ColorDepth {
	switch {
	case c.Term == "dumb":
		return core.Depth1Bit
	case c.Term == "linux" || c.Term == "eterm-color":
		return core.Depth4Bit
	case c.TrueColor:
		return core.Depth24Bit
	case !c.Known:
		return core.DefaultColorDepth
	case c.Colors >= 256:
		return core.Depth8Bit
	case c.Colors >= 8:
		return core.Depth4Bit
	}
	return core.Depth1Bit
}

// DetectColorDepth is LookupCapabilities(term, env).ColorDepth().
func DetectColorDepth(term string, env func(string) string) core.ColorDepth {
	return LookupCapabilities(term, env).ColorDepth()
}
