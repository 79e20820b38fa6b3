package script

import (
	"errors"
	"fmt"
)

var (
	// ErrStateClosed is returned when using a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNotFunction is returned when a "lua:" command names a global
	// that is not a function.
	ErrNotFunction = errors.New("not a lua function")
)

// LuaError is a failure while loading or running Lua code.
type LuaError struct {
	// Source is the file, chunk or binding that failed.
	Source string
	Err    error
}

func (e *LuaError) Error() string {
	return fmt.Sprintf("lua %s: %v", e.Source, e.Err)
}

func (e *LuaError) Unwrap() error {
	return e.Err
}
