package layout

import (
	"github.com/dshills/pgline/internal/renderer/core"
	"github.com/dshills/pgline/internal/renderer/screen"
)

// Dimension bounds a window's height. Zero fields are unconstrained; a
// zero Preferred means the content height.
type Dimension struct {
	Min       int
	Max       int
	Preferred int
}

// Exact returns a dimension of exactly n rows.
func Exact(n int) Dimension {
	return Dimension{Min: n, Max: n, Preferred: n}
}

func (d Dimension) apply(h int) int {
	if d.Preferred > 0 {
		h = d.Preferred
	}
	if d.Min > 0 {
		h = max(h, d.Min)
	}
	if d.Max > 0 {
		h = min(h, d.Max)
	}
	return h
}

// Window draws a control into its region: wrapping or horizontally
// scrolling lines, scrolling vertically to keep the cursor visible, and
// placing the terminal cursor when focused.
type Window struct {
	control    Control
	height     Dimension
	style      func() string
	wrap       bool
	wordWrap   bool
	dontExtend bool
	engine     LayoutEngine
	cache      *LineCache

	focused bool
	vscroll int
	hscroll int

	// Last frame, for mapping screen points back to content.
	drawn       bool
	lastPos     screen.WritePosition
	lastLayouts []*LineLayout
}

// WindowOption configures a Window.
type WindowOption func(*Window)

// WithHeight bounds the window height.
func WithHeight(d Dimension) WindowOption {
	return func(w *Window) { w.height = d }
}

// WithStyle sets the style applied under the content.
func WithStyle(style string) WindowOption {
	return func(w *Window) { w.style = func() string { return style } }
}

// WithDynamicStyle computes the style every frame.
func WithDynamicStyle(fn func() string) WindowOption {
	return func(w *Window) { w.style = fn }
}

// WithWrapLines soft wraps long lines instead of scrolling horizontally.
func WithWrapLines(wrap bool) WindowOption {
	return func(w *Window) { w.wrap = wrap }
}

// WithWordWrap breaks wrapped rows after spaces when possible.
func WithWordWrap() WindowOption {
	return func(w *Window) {
		w.wrap = true
		w.wordWrap = true
	}
}

// WithTabWidth sets the tab stop distance.
func WithTabWidth(n int) WindowOption {
	return func(w *Window) { w.engine = NewLayoutEngine(n) }
}

// DontExtendHeight keeps the window at its preferred height when a
// container has rows to spare.
func DontExtendHeight() WindowOption {
	return func(w *Window) { w.dontExtend = true }
}

// NewWindow creates a window showing c.
func NewWindow(c Control, opts ...WindowOption) *Window {
	w := &Window{
		control: c,
		wrap:    true,
		engine:  NewLayoutEngine(DefaultTabWidth),
		cache:   NewLineCache(DefaultLineCacheSize),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Control returns the control shown.
func (w *Window) Control() Control { return w.control }

// HasFocus reports whether the window had focus in the last frame.
func (w *Window) HasFocus() bool { return w.focused }

// Children implements Container.
func (w *Window) Children() []Container { return nil }

func (w *Window) extendable() bool { return !w.dontExtend }

// PreferredHeight implements renderer.Container.
func (w *Window) PreferredHeight(width, maxAvailable int) int {
	h := w.height.Preferred
	if h == 0 {
		_, layouts, cursorRow, _ := w.layoutContent(width)
		h = max(totalRows(layouts), cursorRow+1)
	}
	return min(w.height.apply(h), maxAvailable)
}

// layoutContent lays out the control's lines and locates the cursor in
// visual rows and columns.
func (w *Window) layoutContent(width int) (Content, []*LineLayout, int, int) {
	content := w.control.Content(width)
	e := w.engine
	if w.wrap {
		e = e.WithWrap(width, w.wordWrap)
	}

	layouts := make([]*LineLayout, len(content.Lines))
	cursorRow, cursorCol := 0, 0
	rows := 0
	for i, line := range content.Lines {
		l := w.cache.Get(e, line)
		layouts[i] = l
		if i == content.Cursor.Row {
			r, c := l.CursorPosition(content.Cursor.Col)
			cursorRow, cursorCol = rows+r, c
		}
		rows += l.RowCount
	}
	return content, layouts, cursorRow, cursorCol
}

func totalRows(layouts []*LineLayout) int {
	n := 0
	for _, l := range layouts {
		n += l.RowCount
	}
	return max(n, 1)
}

// WriteToScreen implements renderer.Container.
func (w *Window) WriteToScreen(scr *screen.Screen, wp screen.WritePosition) {
	if wp.Width <= 0 || wp.Height <= 0 {
		return
	}
	content, layouts, cursorRow, cursorCol := w.layoutContent(wp.Width)
	total := max(totalRows(layouts), cursorRow+1)
	w.scrollTo(cursorRow, cursorCol, total, wp)
	w.drawn, w.lastPos, w.lastLayouts = true, wp, layouts

	y := 0
	for _, l := range layouts {
		for r := range l.RowCount {
			if row := y - w.vscroll; row >= 0 && row < wp.Height {
				w.drawRow(scr, wp, row, l.CellsForRow(r))
			}
			y++
		}
	}

	style := ""
	if w.style != nil {
		style = w.style()
	}
	scr.FillArea(core.Point{Row: wp.Row, Col: wp.Col}, core.Size{Rows: wp.Height, Columns: wp.Width}, style)

	if w.focused && content.ShowCursor {
		scr.SetCursor(core.Point{
			Row: wp.Row + cursorRow - w.vscroll,
			Col: wp.Col + cursorCol - w.hscroll,
		})
		scr.SetCursorVisible(true)
	}
}

func (w *Window) scrollTo(cursorRow, cursorCol, total int, wp screen.WritePosition) {
	if cursorRow < w.vscroll {
		w.vscroll = cursorRow
	}
	if cursorRow >= w.vscroll+wp.Height {
		w.vscroll = cursorRow - wp.Height + 1
	}
	w.vscroll = max(min(w.vscroll, total-wp.Height), 0)

	if w.wrap {
		w.hscroll = 0
		return
	}
	if cursorCol < w.hscroll {
		w.hscroll = cursorCol
	}
	if cursorCol >= w.hscroll+wp.Width {
		w.hscroll = cursorCol - wp.Width + 1
	}
}

func (w *Window) drawRow(scr *screen.Screen, wp screen.WritePosition, row int, cells []Cell) {
	for i, c := range cells {
		x := i - w.hscroll
		if c.IsContinuation() || x < 0 || x+c.Width > wp.Width {
			continue
		}
		scr.WriteChar(core.Point{Row: wp.Row + row, Col: wp.Col + x},
			screen.Char{Text: c.Text, Style: c.Style, Width: c.Width})
	}
}

// PositionAt returns the content line and rune index drawn at p in the
// last frame. Points right of a line's end give its end; points below the
// last line give the end of the last line.
func (w *Window) PositionAt(p core.Point) (line, idx int, ok bool) {
	wp := w.lastPos
	if !w.drawn || len(w.lastLayouts) == 0 ||
		p.Row < wp.Row || p.Row >= wp.Row+wp.Height ||
		p.Col < wp.Col || p.Col >= wp.Col+wp.Width {
		return 0, 0, false
	}
	row := p.Row - wp.Row + w.vscroll
	col := p.Col - wp.Col + w.hscroll
	for i, l := range w.lastLayouts {
		if row < l.RowCount {
			vis := l.RowStartColumn(row) + col
			if row+1 < l.RowCount {
				vis = min(vis, l.RowEndColumn(row)-1)
			}
			return i, l.IndexAt(vis), true
		}
		row -= l.RowCount
	}
	last := len(w.lastLayouts) - 1
	return last, w.lastLayouts[last].IndexAt(w.lastLayouts[last].Width), true
}
