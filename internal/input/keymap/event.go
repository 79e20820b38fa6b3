package keymap

import (
	"strings"

	"github.com/dshills/pgline/internal/buffer"
	"github.com/dshills/pgline/internal/eventloop"
	"github.com/dshills/pgline/internal/input/key"
	"github.com/dshills/pgline/internal/renderer"
)

// maxArg bounds the numeric argument; larger values fall back to 1.
const maxArg = 1000000

// App is the part of the application key handlers operate on.
type App interface {
	Loop() *eventloop.Loop
	KeyProcessor() *Processor
	Renderer() *renderer.Renderer
	CurrentBuffer() *buffer.Buffer
	Clipboard() *buffer.Clipboard
	IsDone() bool
	Invalidate()
	Bell()

	// Exit finishes the running application with result.
	Exit(result any) error

	// Abort finishes the running application with err.
	Abort(err error) error
}

// Event is passed to a Handler for a matched key sequence.
type Event struct {
	p        *Processor
	arg      string
	keys     []key.KeyPress
	prevKeys []key.KeyPress
	isRepeat bool
}

// App returns the application.
func (e *Event) App() App { return e.p.app }

// Processor returns the processor that dispatched the event.
func (e *Event) Processor() *Processor { return e.p }

// CurrentBuffer returns the focused buffer.
func (e *Event) CurrentBuffer() *buffer.Buffer { return e.p.app.CurrentBuffer() }

// KeySequence returns the key presses that matched.
func (e *Event) KeySequence() []key.KeyPress { return e.keys }

// PreviousKeySequence returns the key presses of the previous event.
func (e *Event) PreviousKeySequence() []key.KeyPress { return e.prevKeys }

// Data returns the text of the last key press.
func (e *Event) Data() string {
	if len(e.keys) == 0 {
		return ""
	}
	return e.keys[len(e.keys)-1].Data
}

// IsRepeat reports whether the previous event used the same binding.
func (e *Event) IsRepeat() bool { return e.isRepeat }

// ArgPresent reports whether a numeric argument was typed.
func (e *Event) ArgPresent() bool { return e.arg != "" }

// Arg returns the numeric argument. It is 1 when absent, -1 for a lone
// "-" and falls back to 1 when out of range.
func (e *Event) Arg() int {
	if e.arg == "-" {
		return -1
	}
	if e.arg == "" {
		return 1
	}
	n := 0
	neg := strings.HasPrefix(e.arg, "-")
	for _, r := range strings.TrimPrefix(e.arg, "-") {
		n = n*10 + int(r-'0')
		if n >= maxArg {
			return 1
		}
	}
	if neg {
		n = -n
	}
	return n
}

// AppendToArgCount adds a digit or a leading "-" to the numeric argument
// used by the next event. Other input is ignored.
func (e *Event) AppendToArgCount(data string) {
	var result string
	switch {
	case data == "-":
		if e.arg != "" && e.arg != "-" {
			return
		}
		result = "-"
	case len(data) == 1 && data[0] >= '0' && data[0] <= '9':
		result = e.arg + data
	default:
		return
	}
	e.p.arg = result
}
