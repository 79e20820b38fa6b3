package layout

import "errors"

var (
	// ErrNotInLayout is returned when focusing a window outside the layout.
	ErrNotInLayout = errors.New("window is not part of the layout")

	// ErrNotFocusable is returned when focusing a window whose control
	// cannot take focus.
	ErrNotFocusable = errors.New("window cannot take focus")
)
