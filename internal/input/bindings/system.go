package bindings

import (
	"fmt"

	"github.com/dshills/pgline/internal/input/key"
	"github.com/dshills/pgline/internal/input/keymap"
)

// System returns bindings for terminal generated events: cursor position
// reports, mouse reports and wheel scrolling.
func System() *keymap.Registry {
	r := keymap.NewRegistry()
	r.MustAdd("<cursor-position-response>", keymap.HandlerFunc(cursorPositionReport),
		keymap.Named("cursor-position-report"), keymap.NoSaveBefore(), keymap.WithRecordInMacro(keymap.Never))

	scroll := func(k key.Key) keymap.HandlerFunc {
		return func(e *keymap.Event) error {
			e.Processor().FeedMultiple([]key.KeyPress{key.NewKeyPress(k, "")}, true)
			return nil
		}
	}
	r.MustAdd("<scroll-up>", scroll(key.KeyUp), keymap.Named("scroll-up"), keymap.NoSaveBefore())
	r.MustAdd("<scroll-down>", scroll(key.KeyDown), keymap.Named("scroll-down"), keymap.NoSaveBefore())
	r.MustAdd("<vt100-mouse-event>", keymap.HandlerFunc(mouseEvent),
		keymap.Named("mouse-event"), keymap.NoSaveBefore(), keymap.WithRecordInMacro(keymap.Never))
	return r
}

// ParseCPR extracts the row and column from a cursor position report
// such as "\x1b[12;1R".
func ParseCPR(data string) (row, col int, err error) {
	if _, err := fmt.Sscanf(data, "\x1b[%d;%dR", &row, &col); err != nil {
		return 0, 0, fmt.Errorf("parse cursor position report %q: %w", data, err)
	}
	return row, col, nil
}

func cursorPositionReport(e *keymap.Event) error {
	row, _, err := ParseCPR(e.Data())
	if err != nil {
		return err
	}
	if r := e.App().Renderer(); r != nil {
		r.ReportAbsoluteCursorRow(row)
	}
	return nil
}

// Defaults merges the basic, Emacs and system bindings.
func Defaults(c *Commands) keymap.Bindings {
	return keymap.Merge(Basic(c), Emacs(c), System())
}
