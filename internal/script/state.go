package script

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/pgline/internal/input/keymap"
	"github.com/dshills/pgline/internal/logging"
)

// DefaultTimeout bounds a single script load or handler call.
const DefaultTimeout = 2 * time.Second

// State is a sandboxed Lua interpreter with the pgline module installed.
// gopher-lua states are not goroutine safe; the mutex serializes calls.
type State struct {
	mu      sync.Mutex
	l       *lua.LState
	timeout time.Duration
	log     *logging.Logger

	bindings *keymap.Registry
	closed   bool
}

// Option configures a State.
type Option func(*State)

// WithTimeout bounds every load and call. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(s *State) { s.timeout = d }
}

// WithLogger receives print output and handler failures.
func WithLogger(l *logging.Logger) Option {
	return func(s *State) { s.log = l.WithComponent("script") }
}

// NewState creates a sandboxed state.
func NewState(opts ...Option) *State {
	s := &State{
		timeout:  DefaultTimeout,
		log:      logging.Nop(),
		bindings: keymap.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.l = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.l)
	s.installSandbox()
	s.installModule()
	return s
}

// Bindings returns the key bindings scripts registered with pgline.bind.
func (s *State) Bindings() *keymap.Registry { return s.bindings }

// DoFile runs a Lua file.
func (s *State) DoFile(path string) error {
	fn, err := s.compile(path, func(l *lua.LState) (*lua.LFunction, error) {
		return l.LoadFile(path)
	})
	if err != nil {
		return err
	}
	return s.run(path, func() error {
		return s.l.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	})
}

// DoString runs code; name identifies it in errors.
func (s *State) DoString(name, code string) error {
	fn, err := s.compile(name, func(l *lua.LState) (*lua.LFunction, error) {
		return l.LoadString(code)
	})
	if err != nil {
		return err
	}
	return s.run(name, func() error {
		return s.l.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	})
}

func (s *State) compile(name string, load func(*lua.LState) (*lua.LFunction, error)) (*lua.LFunction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStateClosed
	}
	fn, err := load(s.l)
	if err != nil {
		return nil, &LuaError{Source: name, Err: err}
	}
	return fn, nil
}

// run executes fn under the lock with the timeout installed. Panics from
// the interpreter become errors.
func (s *State) run(name string, fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStateClosed
	}

	if s.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		s.l.SetContext(ctx)
		defer func() {
			s.l.RemoveContext()
			cancel()
		}()
	}
	defer func() {
		if r := recover(); r != nil {
			err = &LuaError{Source: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := fn(); err != nil {
		return &LuaError{Source: name, Err: err}
	}
	return nil
}

// Close releases the interpreter.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.l.Close()
	s.closed = true
}
