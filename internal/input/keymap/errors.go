package keymap

import (
	"errors"
	"fmt"
)

// Errors returned by registries and loaders.
var (
	// ErrEmptySequence indicates a binding without keys.
	ErrEmptySequence = errors.New("empty key sequence")

	// ErrNilHandler indicates a binding without a handler.
	ErrNilHandler = errors.New("nil key handler")

	// ErrUnknownFormat indicates a keymap file with an unsupported extension.
	ErrUnknownFormat = errors.New("unknown keymap format")
)

// ParseError reports a malformed keymap file.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }
