//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package input

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/dshills/pgline/internal/eventloop"
	"github.com/dshills/pgline/internal/input/key"
)

// ErrNotTerminal is returned by NewPosix for descriptors that are not
// terminals.
var ErrNotTerminal = errors.New("input: not a terminal")

// Posix reads from a terminal file descriptor.
type Posix struct {
	*base
	f      *os.File
	fd     int
	closed atomic.Bool
}

// NewPosix creates an input reading from f, which must be a terminal.
func NewPosix(f *os.File) (*Posix, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%w: %s", ErrNotTerminal, f.Name())
	}
	return &Posix{base: newBase(), f: f, fd: fd}, nil
}

// Fd implements Input.
func (p *Posix) Fd() int { return p.fd }

// Closed implements Input.
func (p *Posix) Closed() bool { return p.closed.Load() }

// ReadKeys implements Input.
func (p *Posix) ReadKeys() []key.KeyPress {
	if p.closed.Load() {
		return p.take()
	}
	buf := make([]byte, readSize)
	n, err := readRetry(p.fd, buf)
	switch {
	case err != nil && errors.Is(err, unix.EAGAIN):
		return nil
	case err != nil || n == 0:
		p.closed.Store(true)
		p.decoder.reset()
		return p.FlushKeys()
	}
	return p.feed(buf[:n])
}

// readRetry reads once, retrying reads interrupted by a signal such as
// SIGWINCH.
func readRetry(fd int, buf []byte) (int, error) {
	for {
		n, err := unix.Read(fd, buf)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return n, err
	}
}

// RawMode disables echo, line buffering, signal keys and CR translation.
func (p *Posix) RawMode() (func(), error) {
	old, err := term.MakeRaw(p.fd)
	if err != nil {
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}
	return func() { _ = term.Restore(p.fd, old) }, nil
}

// CookedMode enables echo, line buffering, signal keys and CR translation.
func (p *Posix) CookedMode() (func(), error) {
	old, err := term.GetState(p.fd)
	if err != nil {
		return nil, fmt.Errorf("save terminal state: %w", err)
	}
	if err := setCooked(p.fd); err != nil {
		return nil, fmt.Errorf("enter cooked mode: %w", err)
	}
	return func() { _ = term.Restore(p.fd, old) }, nil
}

// Attach implements Input.
func (p *Posix) Attach(loop *eventloop.Loop, cb func()) func() {
	return p.attach(p.fd, loop, cb)
}

// Detach implements Input.
func (p *Posix) Detach(loop *eventloop.Loop) func() {
	return p.detach(p.fd, loop)
}

// Close marks the input closed. The file is owned by the caller.
func (p *Posix) Close() error {
	p.closed.Store(true)
	return nil
}
