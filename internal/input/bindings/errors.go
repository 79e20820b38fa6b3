package bindings

import "errors"

// ErrUnknownCommand indicates a command name with no registered handler.
var ErrUnknownCommand = errors.New("unknown command")
