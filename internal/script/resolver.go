package script

import (
	"fmt"
	"unicode"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/pgline/internal/input/bindings"
	"github.com/dshills/pgline/internal/input/keymap"
)

// Prefix marks keymap commands handled by Lua.
const Prefix = "lua:"

// Register makes c resolve "lua:" commands through s.
func Register(c *bindings.Commands, s *State) {
	c.RegisterPrefix(Prefix, s.Resolve)
}

// Resolve returns a handler for the part of a command after "lua:". A
// bare identifier names a global function; anything else is compiled as a
// chunk with the event in scope.
func (s *State) Resolve(rest string) (keymap.Handler, error) {
	name := Prefix + rest
	if isIdentifier(rest) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return nil, ErrStateClosed
		}
		fn, ok := s.l.GetGlobal(rest).(*lua.LFunction)
		if !ok {
			return nil, &LuaError{Source: name, Err: fmt.Errorf("%w: %s", ErrNotFunction, rest)}
		}
		return s.handler(fn, name), nil
	}

	fn, err := s.compile(name, func(l *lua.LState) (*lua.LFunction, error) {
		return l.LoadString("local event = ...\n" + rest)
	})
	if err != nil {
		return nil, err
	}
	return s.handler(fn, name), nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', unicode.IsLetter(r) && r < unicode.MaxASCII:
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
