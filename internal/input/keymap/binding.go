package keymap

import (
	"github.com/dshills/pgline/internal/input/key"
)

// Handler handles a matched key sequence.
type Handler interface {
	Handle(e *Event) error
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(e *Event) error

// Handle implements Handler.
func (f HandlerFunc) Handle(e *Event) error { return f(e) }

// Binding maps a key sequence to a handler.
type Binding struct {
	// Keys is the sequence to match. The last key may be key.KeyAny.
	Keys key.Sequence

	// Handler is called when the sequence matches.
	Handler Handler

	// Name describes the binding, usually the command name.
	Name string

	// Filter enables the binding. Nil means always.
	Filter Filter

	// Eager bindings fire as soon as they match, even when a longer
	// binding shares the prefix. Nil means never.
	Eager Filter

	// SaveBefore decides whether an undo snapshot is taken before the
	// handler runs. Nil means always.
	SaveBefore func(e *Event) bool

	// RecordInMacro decides whether the keys are recorded into a macro
	// being recorded. Nil means always.
	RecordInMacro Filter
}

// BindingOption configures a Binding.
type BindingOption func(*Binding)

// WithFilter sets the binding filter. Multiple filters are combined with And.
func WithFilter(f Filter) BindingOption {
	return func(b *Binding) { b.Filter = And(b.Filter, f) }
}

// WithEager makes the binding eager when f is active.
func WithEager(f Filter) BindingOption {
	return func(b *Binding) { b.Eager = f }
}

// Eager makes the binding always eager.
func Eager() BindingOption { return WithEager(Always) }

// WithSaveBefore sets the undo snapshot predicate.
func WithSaveBefore(fn func(e *Event) bool) BindingOption {
	return func(b *Binding) { b.SaveBefore = fn }
}

// NoSaveBefore disables the undo snapshot.
func NoSaveBefore() BindingOption {
	return WithSaveBefore(func(*Event) bool { return false })
}

// WithRecordInMacro sets the macro recording filter.
func WithRecordInMacro(f Filter) BindingOption {
	return func(b *Binding) { b.RecordInMacro = f }
}

// Named sets the binding name.
func Named(name string) BindingOption {
	return func(b *Binding) { b.Name = name }
}

// NewBinding creates a binding.
func NewBinding(keys key.Sequence, h Handler, opts ...BindingOption) *Binding {
	b := &Binding{Keys: keys.Clone(), Handler: h}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Validate checks the binding has keys and a handler.
func (b *Binding) Validate() error {
	if len(b.Keys) == 0 {
		return ErrEmptySequence
	}
	if b.Handler == nil {
		return ErrNilHandler
	}
	return nil
}

// String returns the sequence and name for debugging.
func (b *Binding) String() string {
	if b.Name == "" {
		return b.Keys.String()
	}
	return b.Keys.String() + " -> " + b.Name
}

func (b *Binding) call(e *Event) error { return b.Handler.Handle(e) }
