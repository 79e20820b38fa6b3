package input

import (
	"errors"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/dshills/pgline/internal/eventloop"
	"github.com/dshills/pgline/internal/input/key"
	"github.com/dshills/pgline/internal/input/vt100"
)

// ErrClosed is returned when operating on a closed input.
var ErrClosed = errors.New("input: closed")

// readSize is the most bytes consumed per ReadKeys call.
const readSize = 1024

// Input is a source of key presses.
type Input interface {
	// Fd returns the descriptor the event loop polls.
	Fd() int

	// ReadKeys reads the available bytes and returns the key presses
	// parsed from them. It must only be called when Fd is readable.
	ReadKeys() []key.KeyPress

	// FlushKeys resolves a pending partial escape sequence.
	FlushKeys() []key.KeyPress

	// Closed reports whether end of input was reached.
	Closed() bool

	// RawMode switches the terminal to raw mode. The returned function
	// restores the previous mode.
	RawMode() (restore func(), err error)

	// CookedMode switches the terminal to line mode with echo. The
	// returned function restores the previous mode.
	CookedMode() (restore func(), err error)

	// Attach makes cb the loop's callback for Fd. The returned function
	// restores whichever callback was attached before.
	Attach(loop *eventloop.Loop, cb func()) (detach func())

	// Detach removes the current callback until the returned function is
	// called.
	Detach(loop *eventloop.Loop) (reattach func())

	// StoreTypeahead keeps keys that were read but not processed, for
	// the next application reading this input.
	StoreTypeahead(keys []key.KeyPress)

	// TakeTypeahead returns and clears the stored keys.
	TakeTypeahead() []key.KeyPress

	Close() error
}

// decoder incrementally decodes UTF-8. Incomplete trailing sequences are
// kept for the next chunk; invalid bytes decode to U+FFFD.
type decoder struct {
	t       transform.Transformer
	pending []byte
}

func newDecoder() *decoder {
	return &decoder{t: unicode.UTF8.NewDecoder()}
}

func (d *decoder) decode(data []byte) string {
	src := append(d.pending, data...)
	d.pending = nil
	dst := make([]byte, len(src)*3+utf8.UTFMax)

	nDst, nSrc, err := d.t.Transform(dst, src, false)
	switch {
	case err == nil:
	case errors.Is(err, transform.ErrShortSrc):
		d.pending = append([]byte(nil), src[nSrc:]...)
	default:
		// Drop what could not be decoded and start fresh.
		d.t.Reset()
	}
	return string(dst[:nDst])
}

func (d *decoder) reset() {
	d.t.Reset()
	d.pending = nil
}

// base holds the parsing and attachment state shared by implementations.
type base struct {
	parser  *vt100.Parser
	decoder *decoder
	keys    []key.KeyPress

	mu        sync.Mutex
	callbacks []func()
	typeahead []key.KeyPress
}

func newBase() *base {
	b := &base{decoder: newDecoder()}
	b.parser = vt100.NewParser(func(kp key.KeyPress) {
		b.keys = append(b.keys, kp)
	})
	return b
}

func (b *base) feed(data []byte) []key.KeyPress {
	b.parser.Feed(b.decoder.decode(data))
	return b.take()
}

func (b *base) FlushKeys() []key.KeyPress {
	b.parser.Flush()
	return b.take()
}

func (b *base) take() []key.KeyPress {
	keys := b.keys
	b.keys = nil
	return keys
}

func (b *base) attach(fd int, loop *eventloop.Loop, cb func()) func() {
	b.mu.Lock()
	b.callbacks = append(b.callbacks, cb)
	depth := len(b.callbacks)
	b.mu.Unlock()

	loop.RemoveReader(fd)
	loop.AddReader(fd, cb)

	return func() {
		b.mu.Lock()
		if len(b.callbacks) >= depth {
			b.callbacks = b.callbacks[:depth-1]
		}
		var prev func()
		if n := len(b.callbacks); n > 0 {
			prev = b.callbacks[n-1]
		}
		b.mu.Unlock()

		loop.RemoveReader(fd)
		if prev != nil {
			loop.AddReader(fd, prev)
		}
	}
}

func (b *base) detach(fd int, loop *eventloop.Loop) func() {
	loop.RemoveReader(fd)
	return func() {
		b.mu.Lock()
		var cur func()
		if n := len(b.callbacks); n > 0 {
			cur = b.callbacks[n-1]
		}
		b.mu.Unlock()
		if cur != nil {
			loop.AddReader(fd, cur)
		}
	}
}

func (b *base) StoreTypeahead(keys []key.KeyPress) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.typeahead = append(b.typeahead, keys...)
}

func (b *base) TakeTypeahead() []key.KeyPress {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := b.typeahead
	b.typeahead = nil
	return keys
}
