package input

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/dshills/pgline/internal/eventloop"
	"github.com/dshills/pgline/internal/input/key"
)

// Pipe is an Input fed through an OS pipe. Terminal modes are no-ops.
type Pipe struct {
	*base
	r, w   *os.File
	fd     int
	closed atomic.Bool
}

// NewPipe creates a pipe input.
func NewPipe() (*Pipe, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create input pipe: %w", err)
	}
	return &Pipe{base: newBase(), r: r, w: w, fd: int(r.Fd())}, nil
}

// Send writes text to the pipe.
func (p *Pipe) Send(text string) error {
	return p.SendBytes([]byte(text))
}

// SendBytes writes raw bytes to the pipe.
func (p *Pipe) SendBytes(data []byte) error {
	if _, err := p.w.Write(data); err != nil {
		return fmt.Errorf("write input pipe: %w", err)
	}
	return nil
}

// CloseWrite closes the writing end; the reader then sees end of input.
func (p *Pipe) CloseWrite() error {
	return p.w.Close()
}

// Fd implements Input.
func (p *Pipe) Fd() int { return p.fd }

// Closed implements Input.
func (p *Pipe) Closed() bool { return p.closed.Load() }

// ReadKeys implements Input.
func (p *Pipe) ReadKeys() []key.KeyPress {
	if p.closed.Load() {
		return p.take()
	}
	buf := make([]byte, readSize)
	n, err := p.r.Read(buf)
	if err != nil || n == 0 {
		p.closed.Store(true)
		return p.FlushKeys()
	}
	return p.feed(buf[:n])
}

// RawMode implements Input.
func (p *Pipe) RawMode() (func(), error) { return func() {}, nil }

// CookedMode implements Input.
func (p *Pipe) CookedMode() (func(), error) { return func() {}, nil }

// Attach implements Input.
func (p *Pipe) Attach(loop *eventloop.Loop, cb func()) func() {
	return p.attach(p.Fd(), loop, cb)
}

// Detach implements Input.
func (p *Pipe) Detach(loop *eventloop.Loop) func() {
	return p.detach(p.Fd(), loop)
}

// Close closes both ends of the pipe.
func (p *Pipe) Close() error {
	p.closed.Store(true)
	werr := p.w.Close()
	rerr := p.r.Close()
	if rerr != nil {
		return rerr
	}
	if werr != nil && !errors.Is(werr, os.ErrClosed) {
		return werr
	}
	return nil
}
