package bindings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/pgline/internal/input/key"
	"github.com/dshills/pgline/internal/input/keymap"
	"github.com/dshills/pgline/internal/renderer/core"
	"github.com/dshills/pgline/internal/renderer/layout"
)

// ErrInvalidMouseReport is returned by ParseMouseEvent for data that is
// not a mouse report.
var ErrInvalidMouseReport = errors.New("invalid mouse report")

// MouseEventType is what happened in a mouse report.
type MouseEventType uint8

const (
	MouseDown MouseEventType = iota
	MouseUp
	MouseMove
	ScrollUp
	ScrollDown
	ScrollSideways
)

var mouseEventTypeNames = [...]string{"down", "up", "move", "scroll-up", "scroll-down", "scroll-sideways"}

func (t MouseEventType) String() string {
	if int(t) < len(mouseEventTypeNames) {
		return mouseEventTypeNames[t]
	}
	return "unknown"
}

// MouseButton is the button of a press or release. Terminals do not say
// which button a non-SGR release was for.
type MouseButton uint8

const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
	MouseNoButton
)

// MouseEvent is a decoded mouse report. Position is 0-based and relative
// to the terminal's top left corner.
type MouseEvent struct {
	Type     MouseEventType
	Button   MouseButton
	Position core.Point
}

// Button code bits shared by all three report formats.
const (
	mouseButtonMask = 3
	mouseMotion     = 32
	mouseWheel      = 64
)

// ParseMouseEvent decodes an X10 ("\x1b[M" and three characters), urxvt
// ("\x1b[b;x;yM") or SGR ("\x1b[<b;x;yM", "m" for a release) report.
func ParseMouseEvent(data string) (MouseEvent, error) {
	var code, x, y int
	release := false

	switch {
	case strings.HasPrefix(data, "\x1b[<"):
		body := data[3:]
		if len(body) < 2 {
			return MouseEvent{}, invalidMouseReport(data)
		}
		switch body[len(body)-1] {
		case 'M':
		case 'm':
			release = true
		default:
			return MouseEvent{}, invalidMouseReport(data)
		}
		var err error
		if code, x, y, err = parseMouseFields(body[:len(body)-1]); err != nil {
			return MouseEvent{}, invalidMouseReport(data)
		}

	case strings.HasPrefix(data, "\x1b[M"):
		r := []rune(data[3:])
		if len(r) != 3 {
			return MouseEvent{}, invalidMouseReport(data)
		}
		code, x, y = int(r[0])-32, int(r[1])-32, int(r[2])-32

	case strings.HasPrefix(data, "\x1b[") && strings.HasSuffix(data, "M"):
		var err error
		if code, x, y, err = parseMouseFields(data[2 : len(data)-1]); err != nil {
			return MouseEvent{}, invalidMouseReport(data)
		}
		code -= 32

	default:
		return MouseEvent{}, invalidMouseReport(data)
	}

	if code < 0 || x < 1 || y < 1 {
		return MouseEvent{}, invalidMouseReport(data)
	}
	ev := MouseEvent{Position: core.Point{Row: y - 1, Col: x - 1}}
	button := MouseButton(code & mouseButtonMask)
	switch {
	case code&mouseWheel != 0:
		switch button {
		case MouseLeft:
			ev.Type = ScrollUp
		case MouseMiddle:
			ev.Type = ScrollDown
		default:
			ev.Type = ScrollSideways
		}
		ev.Button = MouseNoButton
	case release || button == MouseNoButton:
		ev.Type, ev.Button = MouseUp, button
	case code&mouseMotion != 0:
		ev.Type, ev.Button = MouseMove, button
	default:
		ev.Type, ev.Button = MouseDown, button
	}
	return ev, nil
}

func parseMouseFields(s string) (code, x, y int, err error) {
	parts := strings.Split(s, ";")
	if len(parts) != 3 {
		return 0, 0, 0, ErrInvalidMouseReport
	}
	var v [3]int
	for i, p := range parts {
		if v[i], err = strconv.Atoi(p); err != nil {
			return 0, 0, 0, err
		}
	}
	return v[0], v[1], v[2], nil
}

func invalidMouseReport(data string) error {
	return fmt.Errorf("%w: %q", ErrInvalidMouseReport, data)
}

// layoutOwner is implemented by applications whose layout can be hit
// tested.
type layoutOwner interface {
	Layout() *layout.Layout
}

// mouseEvent handles a terminal mouse report. Wheel turns become
// <scroll-up> and <scroll-down> keys, and a left click moves the cursor.
// Malformed reports are dropped.
func mouseEvent(e *keymap.Event) error {
	ev, err := ParseMouseEvent(e.Data())
	if err != nil {
		return nil
	}
	switch ev.Type {
	case ScrollUp:
		e.Processor().FeedMultiple([]key.KeyPress{key.NewKeyPress(key.KeyScrollUp, "")}, true)
	case ScrollDown:
		e.Processor().FeedMultiple([]key.KeyPress{key.NewKeyPress(key.KeyScrollDown, "")}, true)
	case MouseDown:
		if ev.Button == MouseLeft {
			return clickAt(e, ev.Position)
		}
	}
	return nil
}

// clickAt focuses the buffer drawn at p and moves its cursor there. It
// does nothing while the prompt's place on the terminal is unknown.
func clickAt(e *keymap.Event, p core.Point) error {
	owner, ok := e.App().(layoutOwner)
	r := e.App().Renderer()
	if !ok || r == nil {
		return nil
	}
	above, err := r.RowsAboveLayout()
	if err != nil {
		return nil
	}
	l := owner.Layout()
	w, idx, ok := l.BufferAt(core.Point{Row: p.Row - above, Col: p.Col})
	if !ok {
		return nil
	}
	if err := l.Focus(w); err != nil {
		return err
	}
	w.Control().(*layout.BufferControl).Buffer().SetCursorPosition(idx)
	return nil
}
