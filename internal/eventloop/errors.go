package eventloop

import (
	"errors"
	"fmt"
)

// Event loop errors.
var (
	// ErrFutureDone is returned when resolving a future that is already done.
	ErrFutureDone = errors.New("future already resolved")

	// ErrFutureNotDone is returned by Result on a pending future.
	ErrFutureNotDone = errors.New("future not resolved")

	// ErrNilError is returned by SetError when given a nil error.
	ErrNilError = errors.New("nil error")

	// ErrLoopRunning indicates RunUntilComplete was re-entered.
	ErrLoopRunning = errors.New("event loop already running")

	// ErrLoopClosed indicates the loop was closed.
	ErrLoopClosed = errors.New("event loop closed")
)

// PanicError wraps a value recovered from a panicking callback, executor
// function or coroutine.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value if it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
