package renderer

import (
	"slices"
	"time"

	"github.com/dshills/pgline/internal/eventloop"
	"github.com/dshills/pgline/internal/logging"
	"github.com/dshills/pgline/internal/renderer/core"
	"github.com/dshills/pgline/internal/renderer/output"
	"github.com/dshills/pgline/internal/renderer/screen"
)

// Container is the root of a layout.
type Container interface {
	// PreferredHeight returns how many rows the container wants at the
	// given width.
	PreferredHeight(width, maxAvailable int) int

	// WriteToScreen draws the container into wp.
	WriteToScreen(scr *screen.Screen, wp screen.WritePosition)
}

type cprSupport int

const (
	cprUnknown cprSupport = iota
	cprSupported
	cprNotSupported
)

// Options configures the renderer.
type Options struct {
	// FullScreen uses the alternate screen and the whole terminal height.
	FullScreen bool

	// MouseSupport is consulted every frame; nil means off.
	MouseSupport func() bool

	// BracketedPaste enables bracketed paste mode while rendering.
	BracketedPaste bool

	// ColorDepth is consulted every frame; nil uses the output's depth.
	ColorDepth func() core.ColorDepth

	// CPRTimeout is how long to wait for the first cursor position report
	// before deciding the terminal does not answer.
	CPRTimeout time.Duration

	// OnCPRNotSupported is called on the loop when that happens.
	OnCPRNotSupported func()

	Logger *logging.Logger
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		BracketedPaste: true,
		CPRTimeout:     2 * time.Second,
	}
}

// Renderer draws frames to an Output. It must only be used on the loop
// thread.
type Renderer struct {
	out   output.Output
	style *core.StyleSheet
	loop  *eventloop.Loop
	opts  Options
	log   *logging.Logger

	cprSupport cprSupport
	cprWaiters []*eventloop.Future

	inAltScreen  bool
	mouseEnabled bool
	pasteEnabled bool

	cursorPos          core.Point
	lastScreen         *screen.Screen
	lastSize           core.Size
	lastStyleVersion   uint64
	lastDepth          core.ColorDepth
	minAvailableHeight int
}

// New creates a renderer.
func New(out output.Output, style *core.StyleSheet, loop *eventloop.Loop, opts Options) *Renderer {
	if style == nil {
		style = core.NewStyleSheet(nil)
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	if opts.CPRTimeout <= 0 {
		opts.CPRTimeout = DefaultOptions().CPRTimeout
	}
	r := &Renderer{
		out:   out,
		style: style,
		loop:  loop,
		opts:  opts,
		log:   log.WithComponent("renderer"),
	}
	r.Reset(false)
	return r
}

// Output returns the output the renderer writes to.
func (r *Renderer) Output() output.Output { return r.out }

// Style returns the style sheet.
func (r *Renderer) Style() *core.StyleSheet { return r.style }

// SetStyle replaces the style sheet; the next frame is a full redraw.
func (r *Renderer) SetStyle(s *core.StyleSheet) {
	r.style = s
	r.lastScreen = nil
}

// Reset forgets what is on the terminal, so the next render starts from
// scratch at the current cursor row, and turns off the terminal modes the
// renderer enabled.
func (r *Renderer) Reset(leaveAlternateScreen bool) {
	r.cursorPos = core.Point{}
	r.lastScreen = nil
	r.lastSize = core.Size{}
	r.minAvailableHeight = 0

	if r.inAltScreen && leaveAlternateScreen {
		r.out.QuitAlternateScreen()
		r.inAltScreen = false
	}
	if r.mouseEnabled {
		r.out.DisableMouseSupport()
		r.mouseEnabled = false
	}
	if r.pasteEnabled {
		r.out.DisableBracketedPaste()
		r.pasteEnabled = false
	}
	if err := r.out.Flush(); err != nil {
		r.log.Warn("flush on reset: %v", err)
	}
}

// HeightIsKnown reports whether the space below the prompt is known.
func (r *Renderer) HeightIsKnown() bool {
	return r.opts.FullScreen || r.minAvailableHeight > 0
}

// RowsAboveLayout returns how many terminal rows lie above the rendered
// area.
func (r *Renderer) RowsAboveLayout() (int, error) {
	switch {
	case r.inAltScreen:
		return 0, nil
	case r.minAvailableHeight > 0:
		last := 0
		if r.lastScreen != nil {
			last = r.lastScreen.Height()
		}
		return r.out.Size().Rows - max(r.minAvailableHeight, last), nil
	}
	return 0, ErrHeightUnknown
}

// LastScreen returns the most recently rendered frame, or nil.
func (r *Renderer) LastScreen() *screen.Screen { return r.lastScreen }

// CursorPosition returns where the renderer left the terminal cursor,
// relative to the rendered area.
func (r *Renderer) CursorPosition() core.Point { return r.cursorPos }

// MinAvailableHeight returns the rows known to be free below the prompt.
func (r *Renderer) MinAvailableHeight() int { return r.minAvailableHeight }

// Render draws c. When isDone is true the frame is final: the cursor is
// left below it and the renderer is reset.
func (r *Renderer) Render(c Container, isDone bool) {
	out := r.out

	if r.opts.FullScreen && !r.inAltScreen {
		r.inAltScreen = true
		out.EnterAlternateScreen()
	}
	if r.opts.BracketedPaste && !r.pasteEnabled {
		out.EnableBracketedPaste()
		r.pasteEnabled = true
	}
	needsMouse := r.opts.MouseSupport != nil && r.opts.MouseSupport()
	switch {
	case needsMouse && !r.mouseEnabled:
		out.EnableMouseSupport()
		r.mouseEnabled = true
	case !needsMouse && r.mouseEnabled:
		out.DisableMouseSupport()
		r.mouseEnabled = false
	}

	size := out.Size()
	scr := screen.New()
	scr.SetCursorVisible(false)

	var height int
	switch {
	case r.opts.FullScreen:
		height = size.Rows
	case isDone:
		height = c.PreferredHeight(size.Columns, size.Rows)
	default:
		last := 0
		if r.lastScreen != nil {
			last = r.lastScreen.Height()
		}
		height = max(r.minAvailableHeight, last, c.PreferredHeight(size.Columns, size.Rows))
	}
	height = min(height, size.Rows)

	depth := out.ColorDepth()
	if r.opts.ColorDepth != nil {
		depth = r.opts.ColorDepth()
	}
	if r.lastSize != size || depth != r.lastDepth {
		r.lastScreen = nil
	}
	if v := r.style.Version(); v != r.lastStyleVersion {
		r.lastScreen = nil
		r.lastStyleVersion = v
	}
	if r.lastScreen == nil {
		r.log.Debug("full redraw at %s", size)
	}

	c.WriteToScreen(scr, screen.WritePosition{Width: size.Columns, Height: height})

	r.cursorPos = OutputScreenDiff(DiffOptions{
		Output:        out,
		Screen:        scr,
		Previous:      r.lastScreen,
		Cursor:        r.cursorPos,
		Size:          size,
		PreviousWidth: r.lastSize.Columns,
		ColorDepth:    depth,
		Attrs:         r.style.Resolve,
		IsDone:        isDone,
		FullScreen:    r.opts.FullScreen,
	})
	r.lastScreen = scr
	r.lastSize = size
	r.lastDepth = depth

	if err := out.Flush(); err != nil {
		r.log.Error("flush frame: %v", err)
	}
	if isDone {
		r.Reset(true)
	}
}

// Erase hides the rendered output and moves the cursor back to where
// rendering started.
func (r *Renderer) Erase(leaveAlternateScreen bool) {
	out := r.out
	out.CursorBackward(r.cursorPos.Col)
	out.CursorUp(r.cursorPos.Row)
	out.EraseDown()
	out.ResetAttributes()
	out.EnableAutowrap()
	if err := out.Flush(); err != nil {
		r.log.Warn("flush on erase: %v", err)
	}
	r.Reset(leaveAlternateScreen)
}

// Clear erases the whole terminal and starts rendering at the top.
func (r *Renderer) Clear() {
	r.Erase(true)
	r.out.EraseScreen()
	r.out.CursorGoto(0, 0)
	if err := r.out.Flush(); err != nil {
		r.log.Warn("flush on clear: %v", err)
	}
	r.RequestAbsoluteCursorPosition()
}

// WaitingForCPR reports whether a cursor position report is outstanding.
func (r *Renderer) WaitingForCPR() bool { return len(r.cprWaiters) > 0 }

// RequestAbsoluteCursorPosition asks the terminal where the cursor is, so
// that the space below it can be used. Until the first answer arrives the
// terminal's support is unknown; after CPRTimeout without one it is
// assumed unsupported and no further requests are made.
func (r *Renderer) RequestAbsoluteCursorPosition() {
	if r.opts.FullScreen || r.cprSupport == cprNotSupported {
		return
	}
	if !r.out.RespondsToCPR() {
		r.cprSupport = cprNotSupported
		return
	}

	switch r.cprSupport {
	case cprSupported:
		r.askForCPR()
	case cprUnknown:
		if r.WaitingForCPR() {
			return
		}
		r.askForCPR()
		r.loop.CallLater(r.opts.CPRTimeout, func() {
			if r.cprSupport != cprUnknown {
				return
			}
			r.cprSupport = cprNotSupported
			r.log.Warn("terminal did not answer cursor position request")
			if r.opts.OnCPRNotSupported != nil {
				r.opts.OnCPRNotSupported()
			}
		})
	}
}

func (r *Renderer) askForCPR() {
	r.cprWaiters = append(r.cprWaiters, eventloop.NewFuture(r.loop))
	r.out.AskForCPR()
}

// ReportAbsoluteCursorRow records a cursor position report for the
// 1-based row.
func (r *Renderer) ReportAbsoluteCursorRow(row int) {
	r.cprSupport = cprSupported
	r.minAvailableHeight = r.out.Size().Rows - row + 1

	if len(r.cprWaiters) == 0 {
		return
	}
	f := r.cprWaiters[0]
	r.cprWaiters = r.cprWaiters[1:]
	_ = f.SetResult(nil)
}

// WaitForCPRResponses returns a future that resolves once every
// outstanding report has arrived, or after timeout. On timeout the
// outstanding requests are forgotten.
func (r *Renderer) WaitForCPRResponses(timeout time.Duration) *eventloop.Future {
	if len(r.cprWaiters) == 0 || r.cprSupport == cprNotSupported {
		return eventloop.Succeed(r.loop, nil)
	}

	done := eventloop.NewFuture(r.loop)
	waiters := slices.Clone(r.cprWaiters)
	remaining := len(waiters)
	for _, w := range waiters {
		w.AddDoneCallback(func(*eventloop.Future) {
			remaining--
			if remaining == 0 {
				_ = done.SetResult(nil)
			}
		})
	}
	r.loop.CallLater(timeout, func() {
		if done.SetResult(nil) == nil {
			r.cprWaiters = nil
		}
	})
	return done
}
