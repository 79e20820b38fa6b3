package keymap

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dshills/pgline/internal/buffer"
	"github.com/dshills/pgline/internal/input/key"
	"github.com/dshills/pgline/internal/input/macro"
	"github.com/dshills/pgline/internal/logging"
)

// DefaultTimeout is how long an incomplete sequence waits before it is
// flushed.
const DefaultTimeout = time.Second

// flushKey is queued to force a decision on the pending keys.
var flushKey = key.KeyPress{Key: key.KeyNone}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithTimeout sets the flush timeout. Zero disables it.
func WithTimeout(d time.Duration) ProcessorOption {
	return func(p *Processor) { p.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) ProcessorOption {
	return func(p *Processor) { p.log = l.WithComponent("keymap") }
}

// WithRecorder sets the macro recorder.
func WithRecorder(r *macro.Recorder) ProcessorOption {
	return func(p *Processor) { p.macros = r }
}

// Processor dispatches key presses to bindings. It must only be used from
// the event loop goroutine.
type Processor struct {
	bindings Bindings
	app      App
	log      *logging.Logger
	timeout  time.Duration
	macros   *macro.Recorder

	queue []key.KeyPress
	buf   []key.KeyPress
	arg   string

	prevBinding *Binding
	prevKeys    []key.KeyPress

	cancelFlush func()

	before hooks
	after  hooks
}

// NewProcessor creates a processor dispatching to bindings on behalf of app.
func NewProcessor(bindings Bindings, app App, opts ...ProcessorOption) *Processor {
	p := &Processor{
		bindings: bindings,
		app:      app,
		log:      logging.Nop(),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.macros == nil {
		p.macros = macro.NewRecorder()
	}
	if p.bindings == nil {
		p.bindings = NewRegistry()
	}
	return p
}

// Bindings returns the bindings in use.
func (p *Processor) Bindings() Bindings { return p.bindings }

// SetBindings replaces the bindings.
func (p *Processor) SetBindings(b Bindings) { p.bindings = b }

// Macros returns the macro recorder.
func (p *Processor) Macros() *macro.Recorder { return p.macros }

// Arg returns the numeric argument typed so far, or "".
func (p *Processor) Arg() string { return p.arg }

// Pending returns the keys waiting for a longer match.
func (p *Processor) Pending() []key.KeyPress { return slices.Clone(p.buf) }

// OnBeforeKeyPress registers fn to run before each key press is processed.
func (p *Processor) OnBeforeKeyPress(fn func()) func() { return p.before.add(fn) }

// OnAfterKeyPress registers fn to run after each key press is processed.
func (p *Processor) OnAfterKeyPress(fn func()) func() { return p.after.add(fn) }

// Feed queues a key press. Call ProcessKeys to handle it.
func (p *Processor) Feed(kp key.KeyPress) {
	p.queue = append(p.queue, kp)
}

// FeedMultiple queues key presses, at the front of the queue when first
// is set.
func (p *Processor) FeedMultiple(kps []key.KeyPress, first bool) {
	if first {
		p.queue = append(slices.Clone(kps), p.queue...)
		return
	}
	p.queue = append(p.queue, kps...)
}

// Reset drops all pending state.
func (p *Processor) Reset() {
	p.prevBinding = nil
	p.prevKeys = nil
	p.queue = nil
	p.buf = nil
	p.arg = ""
	if p.cancelFlush != nil {
		p.cancelFlush()
		p.cancelFlush = nil
	}
}

// EmptyQueue removes and returns the keys not processed yet, leaving out
// cursor position responses.
func (p *Processor) EmptyQueue() []key.KeyPress {
	out := make([]key.KeyPress, 0, len(p.queue))
	for _, kp := range p.queue {
		if kp.Key != key.KeyCPRResponse && kp.Key != key.KeyNone {
			out = append(out, kp)
		}
	}
	p.queue = nil
	return out
}

// Flush forces a decision on keys waiting for a longer match.
func (p *Processor) Flush() {
	if p.cancelFlush != nil {
		p.cancelFlush()
		p.cancelFlush = nil
	}
	p.Feed(flushKey)
	p.ProcessKeys()
}

// next pops the next key to process. Once the application is done only
// cursor position responses are taken.
func (p *Processor) next() (key.KeyPress, bool) {
	if p.app.IsDone() {
		i := slices.IndexFunc(p.queue, func(kp key.KeyPress) bool {
			return kp.Key == key.KeyCPRResponse
		})
		if i < 0 {
			return key.KeyPress{}, false
		}
		kp := p.queue[i]
		p.queue = slices.Delete(p.queue, i, i+1)
		return kp, true
	}
	if len(p.queue) == 0 {
		return key.KeyPress{}, false
	}
	kp := p.queue[0]
	p.queue = p.queue[1:]
	return kp, true
}

// ProcessKeys handles every queued key press.
func (p *Processor) ProcessKeys() {
	defer func() {
		if r := recover(); r != nil {
			p.Reset()
			panic(r)
		}
	}()

	isFlush := false
	for {
		kp, ok := p.next()
		if !ok {
			break
		}
		isFlush = kp.Key == key.KeyNone
		notify := !isFlush && kp.Key != key.KeyCPRResponse
		if notify {
			p.before.fire()
		}
		p.step(kp, isFlush)
		if notify {
			p.after.fire()
		}
	}

	if !isFlush {
		p.startTimeout()
	}
}

// step adds kp to the pending keys and fires every binding that can be
// decided.
func (p *Processor) step(kp key.KeyPress, flush bool) {
	if !flush {
		p.buf = append(p.buf, kp)
	}
	for len(p.buf) > 0 {
		matches := p.matches(p.buf)
		longer := !flush && p.isPrefixOfLongerMatch(p.buf)

		if eager := p.eager(matches); len(eager) > 0 {
			matches = eager
			longer = false
		}
		if longer {
			return
		}
		if len(matches) > 0 {
			keys := p.buf
			p.buf = nil
			p.call(matches[len(matches)-1], keys)
			return
		}

		found := false
		for i := len(p.buf) - 1; i > 0; i-- {
			if m := p.matches(p.buf[:i]); len(m) > 0 {
				keys := slices.Clone(p.buf[:i])
				p.buf = slices.Clone(p.buf[i:])
				p.call(m[len(m)-1], keys)
				found = true
				break
			}
		}
		if !found {
			p.buf = p.buf[1:]
		}
		flush = false
	}
}

func (p *Processor) matches(kps []key.KeyPress) []*Binding {
	var out []*Binding
	for _, b := range p.bindings.ForKeys(key.Keys(kps)) {
		if enabled(b.Filter, p.app, true) {
			out = append(out, b)
		}
	}
	return out
}

func (p *Processor) isPrefixOfLongerMatch(kps []key.KeyPress) bool {
	for _, b := range p.bindings.StartingWith(key.Keys(kps)) {
		if enabled(b.Filter, p.app, true) {
			return true
		}
	}
	return false
}

func (p *Processor) eager(matches []*Binding) []*Binding {
	var out []*Binding
	for _, b := range matches {
		if enabled(b.Eager, p.app, false) {
			out = append(out, b)
		}
	}
	return out
}

func (p *Processor) call(b *Binding, keys []key.KeyPress) {
	wasRecording := p.macros.IsRecording()
	arg := p.arg
	p.arg = ""

	e := &Event{
		p:        p,
		arg:      arg,
		keys:     keys,
		prevKeys: p.prevKeys,
		isRepeat: b == p.prevBinding,
	}

	if buf := p.app.CurrentBuffer(); buf != nil && (b.SaveBefore == nil || b.SaveBefore(e)) {
		buf.SaveToUndoStack(true)
	}

	p.log.Debug("dispatch %s", b)
	if err := b.call(e); err != nil {
		if errors.Is(err, buffer.ErrReadOnly) {
			p.app.Bell()
		} else {
			p.log.Error("key binding %s failed: %v", b, err)
			p.app.Loop().HandleException(fmt.Errorf("key binding %s: %w", b, err))
		}
	}

	p.prevKeys = keys
	p.prevBinding = b

	if enabled(b.RecordInMacro, p.app, true) && wasRecording && p.macros.IsRecording() {
		p.macros.Record(keys)
	}
}

// startTimeout schedules a flush of incomplete sequences.
func (p *Processor) startTimeout() {
	if p.timeout <= 0 {
		return
	}
	if p.cancelFlush != nil {
		p.cancelFlush()
	}
	p.cancelFlush = p.app.Loop().CallLater(p.timeout, func() {
		p.cancelFlush = nil
		if len(p.buf) == 0 {
			return
		}
		p.Feed(flushKey)
		p.ProcessKeys()
		p.app.Invalidate()
	})
}

// hooks is a list of callbacks with removal handles.
type hooks struct {
	next int
	fns  []hook
}

type hook struct {
	id int
	fn func()
}

func (h *hooks) add(fn func()) func() {
	h.next++
	id := h.next
	h.fns = append(h.fns, hook{id, fn})
	return func() {
		h.fns = slices.DeleteFunc(h.fns, func(x hook) bool { return x.id == id })
	}
}

func (h *hooks) fire() {
	for _, x := range slices.Clone(h.fns) {
		x.fn()
	}
}
