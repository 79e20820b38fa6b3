package renderer

import "errors"

// ErrHeightUnknown is returned when the rows above the layout cannot be
// computed because no cursor position report has arrived.
var ErrHeightUnknown = errors.New("renderer: terminal height unknown")
