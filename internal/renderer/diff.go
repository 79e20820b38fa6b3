package renderer

import (
	"strings"

	"github.com/dshills/pgline/internal/renderer/core"
	"github.com/dshills/pgline/internal/renderer/output"
	"github.com/dshills/pgline/internal/renderer/screen"
)

// DiffOptions are the inputs of OutputScreenDiff.
type DiffOptions struct {
	Output output.Output

	// Screen is the new frame; Previous is the frame currently shown, or
	// nil if the terminal content is unknown.
	Screen   *screen.Screen
	Previous *screen.Screen

	// Cursor is where the terminal cursor is now, relative to the top-left
	// of the rendered area.
	Cursor core.Point

	Size          core.Size
	PreviousWidth int
	ColorDepth    core.ColorDepth

	// Attrs resolves a cell style string.
	Attrs func(style string) core.Attrs

	IsDone     bool
	FullScreen bool
}

// differ emits cursor motion and styled text, tracking where the terminal
// cursor ends up. Nothing is written until the first change, so an
// unchanged frame costs zero bytes.
type differ struct {
	out   output.Output
	attrs func(string) core.Attrs
	depth core.ColorDepth
	width int

	pos       core.Point
	started   bool
	lastStyle string
	styled    bool
}

func (d *differ) begin() {
	if d.started {
		return
	}
	d.started = true
	d.out.HideCursor()
}

func (d *differ) resetAttributes() {
	d.begin()
	d.out.ResetAttributes()
	d.styled = false
}

// moveCursor prefers newlines for moving down and relative motion within
// a row.
func (d *differ) moveCursor(to core.Point) {
	cur := d.pos
	if to == cur {
		return
	}
	d.begin()

	if to.Row > cur.Row {
		d.resetAttributes()
		d.out.Write(strings.Repeat("\r\n", to.Row-cur.Row))
		d.out.CursorForward(to.Col)
		d.pos = to
		return
	}
	if to.Row < cur.Row {
		d.out.CursorUp(cur.Row - to.Row)
	}

	switch {
	case cur.Col >= d.width-1:
		// Past the margin the column is ambiguous; restart the row.
		d.out.Write("\r")
		d.out.CursorForward(to.Col)
	case to.Col < cur.Col:
		d.out.CursorBackward(cur.Col - to.Col)
	case to.Col > cur.Col:
		d.out.CursorForward(to.Col - cur.Col)
	}
	d.pos = to
}

func (d *differ) outputChar(c screen.Char) {
	if d.styled && d.lastStyle == c.Style {
		d.out.Write(c.Text)
		return
	}
	attrs := d.attrs(c.Style)
	if !d.styled || attrs != d.attrs(d.lastStyle) {
		d.out.SetAttributes(attrs, d.depth)
	}
	d.out.Write(c.Text)
	d.lastStyle = c.Style
	d.styled = true
}

// OutputScreenDiff writes the changes needed to turn Previous into Screen
// and returns the resulting cursor position. Rows are walked top to
// bottom and cells left to right; rows and cells that render the same are
// skipped.
// A missing previous frame, a width change or IsDone causes a full redraw.
func OutputScreenDiff(o DiffOptions) core.Point {
	out := o.Output
	width, height := o.Size.Columns, o.Size.Rows
	d := &differ{
		out:   out,
		attrs: o.Attrs,
		depth: o.ColorDepth,
		width: width,
		pos:   o.Cursor,
	}

	prev := o.Previous
	if prev == nil {
		d.begin()
		out.DisableAutowrap()
	}
	if o.IsDone || prev == nil || o.PreviousWidth != width {
		d.begin()
		d.moveCursor(core.Point{})
		d.resetAttributes()
		out.EraseDown()
		prev = screen.New()
	}

	scr := o.Screen
	currentHeight := min(scr.Height(), height)
	rowCount := min(max(scr.Height(), prev.Height()), height)

	for row := 0; row < rowCount; row++ {
		if scr.SameRow(prev, row) {
			continue
		}
		newMax := min(width-1, scr.MaxColumn(row))
		prevMax := min(width-1, prev.MaxColumn(row))

		for col := 0; col <= newMax; {
			p := core.Point{Row: row, Col: col}
			nc := scr.At(p)
			if nc.IsSentinel() {
				col++
				continue
			}
			w := max(nc.Width, 1)
			if !nc.Equal(prev.At(p)) {
				d.begin()
				d.moveCursor(p)
				if esc := scr.ZeroWidthEscape(p); esc != "" {
					out.WriteRaw(esc)
				}
				d.outputChar(nc)
				d.pos.Col += w
			}
			col += w
		}

		if newMax < prevMax {
			d.moveCursor(core.Point{Row: row, Col: newMax + 1})
			d.resetAttributes()
			out.EraseEndOfLine()
		}
	}

	// Make room below when the frame grew.
	if currentHeight > prev.Height() {
		d.moveCursor(core.Point{Row: currentHeight - 1})
	}

	if o.IsDone {
		d.moveCursor(core.Point{Row: currentHeight})
		out.EraseDown()
	} else {
		d.moveCursor(scr.Cursor())
	}

	if d.started {
		if o.IsDone || !o.FullScreen {
			out.EnableAutowrap()
		}
		d.resetAttributes()
		if scr.CursorVisible() || o.IsDone {
			out.ShowCursor()
		}
	}
	return d.pos
}
