package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/dshills/pgline/internal/renderer/core"
)

// DefaultSize is reported when the terminal size is unknown.
var DefaultSize = core.Size{Rows: 24, Columns: 80}

// Vt100 is an Output for VT100-compatible terminals.
type Vt100 struct {
	w    io.Writer
	fd   int
	caps Capabilities

	depth     core.ColorDepth
	fixedSize core.Size
	noCPR     bool

	buf bytes.Buffer

	mu       sync.Mutex
	sgrCache map[sgrKey]string
}

// Option configures a Vt100.
type Option func(*Vt100)

// WithColorDepth overrides the detected color depth.
func WithColorDepth(d core.ColorDepth) Option {
	return func(v *Vt100) { v.depth = d }
}

// WithSize fixes the reported size, for writers that are not terminals.
func WithSize(s core.Size) Option {
	return func(v *Vt100) { v.fixedSize = s }
}

// WithCapabilities replaces the capabilities looked up from TERM.
func WithCapabilities(c Capabilities) Option {
	return func(v *Vt100) { v.caps = c }
}

// WithoutCPR marks the terminal as not answering cursor position requests.
func WithoutCPR() Option {
	return func(v *Vt100) { v.noCPR = true }
}

// NewVt100 creates an Output writing to w for terminal type termName.
func NewVt100(w io.Writer, termName string, opts ...Option) *Vt100 {
	v := &Vt100{
		w:        w,
		fd:       -1,
		caps:     LookupCapabilities(termName, os.Getenv),
		sgrCache: make(map[sgrKey]string),
	}
	v.depth = -1
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		v.fd = int(f.Fd())
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.depth < 0 {
		v.depth = v.caps.ColorDepth()
	}
	return v
}

// FromFile creates an Output for f using $TERM.
func FromFile(f *os.File, opts ...Option) *Vt100 {
	v := NewVt100(f, os.Getenv("TERM"), opts...)
	if !term.IsTerminal(v.fd) {
		v.noCPR = true
	}
	return v
}

// Capabilities returns the terminal capabilities in use.
func (v *Vt100) Capabilities() Capabilities { return v.caps }

// Fd implements Output.
func (v *Vt100) Fd() int { return v.fd }

// Write implements Output.
func (v *Vt100) Write(data string) {
	v.buf.WriteString(strings.ReplaceAll(data, "\x1b", "?"))
}

// WriteRaw implements Output.
func (v *Vt100) WriteRaw(data string) {
	v.buf.WriteString(data)
}

// SetTitle implements Output.
func (v *Vt100) SetTitle(title string) {
	if !v.caps.Title {
		return
	}
	title = strings.NewReplacer("\x1b", "", "\x07", "").Replace(title)
	v.WriteRaw("\x1b]2;" + title + "\x07")
}

// ClearTitle implements Output.
func (v *Vt100) ClearTitle() { v.SetTitle("") }

// EraseScreen implements Output.
func (v *Vt100) EraseScreen() { v.WriteRaw("\x1b[2J") }

// EraseEndOfLine implements Output.
func (v *Vt100) EraseEndOfLine() { v.WriteRaw("\x1b[K") }

// EraseDown implements Output.
func (v *Vt100) EraseDown() { v.WriteRaw("\x1b[J") }

// EnterAlternateScreen implements Output.
func (v *Vt100) EnterAlternateScreen() { v.WriteRaw("\x1b[?1049h\x1b[H") }

// QuitAlternateScreen implements Output.
func (v *Vt100) QuitAlternateScreen() { v.WriteRaw("\x1b[?1049l") }

// EnableMouseSupport turns on basic, urxvt and SGR mouse reporting.
func (v *Vt100) EnableMouseSupport() {
	v.WriteRaw("\x1b[?1000h")
	v.WriteRaw("\x1b[?1015h")
	v.WriteRaw("\x1b[?1006h")
}

// DisableMouseSupport implements Output.
func (v *Vt100) DisableMouseSupport() {
	v.WriteRaw("\x1b[?1000l")
	v.WriteRaw("\x1b[?1015l")
	v.WriteRaw("\x1b[?1006l")
}

// ResetAttributes implements Output.
func (v *Vt100) ResetAttributes() { v.WriteRaw("\x1b[0m") }

// SetAttributes implements Output.
func (v *Vt100) SetAttributes(attrs core.Attrs, depth core.ColorDepth) {
	v.WriteRaw(v.sgr(attrs, depth))
}

func (v *Vt100) sgr(attrs core.Attrs, depth core.ColorDepth) string {
	k := sgrKey{attrs, depth}
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.sgrCache[k]
	if !ok {
		s = sgr(attrs, depth)
		v.sgrCache[k] = s
	}
	return s
}

// DisableAutowrap implements Output.
func (v *Vt100) DisableAutowrap() { v.WriteRaw("\x1b[?7l") }

// EnableAutowrap implements Output.
func (v *Vt100) EnableAutowrap() { v.WriteRaw("\x1b[?7h") }

// EnableBracketedPaste implements Output.
func (v *Vt100) EnableBracketedPaste() { v.WriteRaw("\x1b[?2004h") }

// DisableBracketedPaste implements Output.
func (v *Vt100) DisableBracketedPaste() { v.WriteRaw("\x1b[?2004l") }

// CursorGoto implements Output.
func (v *Vt100) CursorGoto(row, col int) {
	v.WriteRaw(fmt.Sprintf("\x1b[%d;%dH", row, col))
}

func (v *Vt100) move(n int, final string) {
	switch {
	case n <= 0:
	case n == 1:
		v.WriteRaw("\x1b[" + final)
	default:
		v.WriteRaw("\x1b[" + strconv.Itoa(n) + final)
	}
}

// CursorUp implements Output.
func (v *Vt100) CursorUp(n int) { v.move(n, "A") }

// CursorDown implements Output.
func (v *Vt100) CursorDown(n int) { v.move(n, "B") }

// CursorForward implements Output.
func (v *Vt100) CursorForward(n int) { v.move(n, "C") }

// CursorBackward moves left; a single step is a backspace.
func (v *Vt100) CursorBackward(n int) {
	if n == 1 {
		v.WriteRaw("\b")
		return
	}
	v.move(n, "D")
}

// HideCursor implements Output.
func (v *Vt100) HideCursor() { v.WriteRaw("\x1b[?25l") }

// ShowCursor also stops the cursor from blinking.
func (v *Vt100) ShowCursor() { v.WriteRaw("\x1b[?12l\x1b[?25h") }

// AskForCPR implements Output.
func (v *Vt100) AskForCPR() {
	v.WriteRaw("\x1b[6n")
	_ = v.Flush()
}

// RespondsToCPR implements Output.
func (v *Vt100) RespondsToCPR() bool { return !v.noCPR }

// Bell implements Output.
func (v *Vt100) Bell() {
	v.WriteRaw("\a")
	_ = v.Flush()
}

// Flush implements Output.
func (v *Vt100) Flush() error {
	if v.buf.Len() == 0 {
		return nil
	}
	_, err := v.w.Write(v.buf.Bytes())
	v.buf.Reset()
	if err != nil {
		return fmt.Errorf("write terminal output: %w", err)
	}
	return nil
}

// Size implements Output. It queries the terminal, then falls back to the
// LINES/COLUMNS environment, the terminfo defaults and DefaultSize.
func (v *Vt100) Size() core.Size {
	if !v.fixedSize.IsZero() {
		return v.fixedSize
	}
	if v.fd >= 0 {
		if cols, rows, err := term.GetSize(v.fd); err == nil && rows > 0 && cols > 0 {
			return core.Size{Rows: rows, Columns: cols}
		}
	}
	s := core.Size{Rows: v.caps.Lines, Columns: v.caps.Columns}
	if n, err := strconv.Atoi(os.Getenv("LINES")); err == nil && n > 0 {
		s.Rows = n
	}
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		s.Columns = n
	}
	if s.IsZero() {
		return DefaultSize
	}
	return s
}

// ColorDepth implements Output.
func (v *Vt100) ColorDepth() core.ColorDepth { return v.depth }
