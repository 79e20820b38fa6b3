package layout

import (
	"slices"

	"github.com/dshills/pgline/internal/buffer"
	"github.com/dshills/pgline/internal/renderer/core"
	"github.com/dshills/pgline/internal/renderer/screen"
)

// Layout is the root of what an application draws. It tracks which window
// has focus.
type Layout struct {
	root    Container
	current *Window
}

// New creates a layout focused on the first focusable window.
func New(root Container) *Layout {
	l := &Layout{root: root}
	for _, w := range l.Windows() {
		if w.control.Focusable() {
			l.current = w
			break
		}
	}
	return l
}

// Root returns the root container.
func (l *Layout) Root() Container { return l.root }

// Windows returns every window in the layout, top to bottom.
func (l *Layout) Windows() []*Window {
	var out []*Window
	Walk(l.root, func(c Container) bool {
		if w, ok := c.(*Window); ok {
			out = append(out, w)
		}
		return true
	})
	return out
}

// Focus moves the focus to w.
func (l *Layout) Focus(w *Window) error {
	if !slices.Contains(l.Windows(), w) {
		return ErrNotInLayout
	}
	if !w.control.Focusable() {
		return ErrNotFocusable
	}
	l.current = w
	return nil
}

// FocusNext moves the focus to the next focusable window, wrapping around.
func (l *Layout) FocusNext() { l.cycle(1) }

// FocusPrevious moves the focus to the previous focusable window.
func (l *Layout) FocusPrevious() { l.cycle(-1) }

func (l *Layout) cycle(step int) {
	var ws []*Window
	for _, w := range l.Windows() {
		if w.control.Focusable() {
			ws = append(ws, w)
		}
	}
	if len(ws) == 0 {
		return
	}
	i := slices.Index(ws, l.current)
	l.current = ws[((i+step)%len(ws)+len(ws))%len(ws)]
}

// CurrentWindow returns the focused window, or nil.
func (l *Layout) CurrentWindow() *Window { return l.current }

// CurrentBuffer returns the buffer of the focused window, or nil when it
// does not show one.
func (l *Layout) CurrentBuffer() *buffer.Buffer {
	if l.current == nil {
		return nil
	}
	if bc, ok := l.current.control.(*BufferControl); ok {
		return bc.Buffer()
	}
	return nil
}

// BufferAt finds the buffer window drawn at p, a point relative to the
// top left of the layout, in the last frame. It returns the window and the
// buffer offset under p.
func (l *Layout) BufferAt(p core.Point) (*Window, int, bool) {
	for _, w := range l.Windows() {
		bc, ok := w.control.(*BufferControl)
		if !ok {
			continue
		}
		if line, idx, ok := w.PositionAt(p); ok {
			return w, bc.IndexAt(line, idx), true
		}
	}
	return nil, 0, false
}

// PreferredHeight implements renderer.Container.
func (l *Layout) PreferredHeight(width, maxAvailable int) int {
	return l.root.PreferredHeight(width, maxAvailable)
}

// WriteToScreen implements renderer.Container.
func (l *Layout) WriteToScreen(scr *screen.Screen, wp screen.WritePosition) {
	for _, w := range l.Windows() {
		w.focused = w == l.current
		w.drawn = false
	}
	l.root.WriteToScreen(scr, wp)
}
