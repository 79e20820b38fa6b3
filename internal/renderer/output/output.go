package output

import (
	"github.com/dshills/pgline/internal/renderer/core"
)

// Output is the set of primitive terminal operations the renderer uses.
type Output interface {
	// Fd returns the file descriptor written to, or -1.
	Fd() int

	// Write queues text. Escape characters are replaced so that text can
	// never inject a control sequence.
	Write(data string)
	// WriteRaw queues data verbatim.
	WriteRaw(data string)

	SetTitle(title string)
	ClearTitle()

	EraseScreen()
	EraseEndOfLine()
	EraseDown()

	EnterAlternateScreen()
	QuitAlternateScreen()

	EnableMouseSupport()
	DisableMouseSupport()

	ResetAttributes()
	SetAttributes(attrs core.Attrs, depth core.ColorDepth)

	DisableAutowrap()
	EnableAutowrap()

	EnableBracketedPaste()
	DisableBracketedPaste()

	// CursorGoto moves to a 1-based terminal row and column.
	CursorGoto(row, col int)
	CursorUp(n int)
	CursorDown(n int)
	CursorForward(n int)
	CursorBackward(n int)

	HideCursor()
	ShowCursor()

	// AskForCPR requests a cursor position report and flushes.
	AskForCPR()
	// RespondsToCPR reports whether the terminal is expected to answer.
	RespondsToCPR() bool

	// Bell rings the bell and flushes.
	Bell()

	// Flush writes all queued data.
	Flush() error

	// Size returns the terminal size.
	Size() core.Size

	// ColorDepth returns the color depth to render with.
	ColorDepth() core.ColorDepth
}
