package buffer

import "errors"

// Errors returned by buffer operations.
var (
	// ErrReadOnly indicates an edit was attempted on a read-only buffer.
	ErrReadOnly = errors.New("buffer is read-only")

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")
)
