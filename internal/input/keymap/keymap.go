package keymap

import (
	"errors"
	"fmt"

	"github.com/dshills/pgline/internal/input/key"
)

// Keymap is a declarative set of bindings, typically loaded from a file.
type Keymap struct {
	// Name identifies the keymap in messages.
	Name string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`

	// Bindings map key sequences to command names.
	Bindings []BindingConfig `json:"bindings" yaml:"bindings" toml:"bindings"`

	// Source is the file the keymap was loaded from.
	Source string `json:"-" yaml:"-" toml:"-"`
}

// BindingConfig maps one key sequence to a command.
type BindingConfig struct {
	// Keys is a sequence such as "c-x c-e" or "Alt+b".
	Keys string `json:"keys" yaml:"keys" toml:"keys"`

	// Command is a named command, or "lua:<code>" for a script snippet.
	Command string `json:"command" yaml:"command" toml:"command"`

	// Eager makes the binding fire even when a longer binding shares its
	// prefix.
	Eager bool `json:"eager,omitempty" yaml:"eager,omitempty" toml:"eager,omitempty"`

	// Description is shown in help output.
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
}

// NewKeymap creates an empty keymap.
func NewKeymap(name string) *Keymap {
	return &Keymap{Name: name}
}

// Add appends a binding.
func (k *Keymap) Add(keys, command string) *Keymap {
	k.Bindings = append(k.Bindings, BindingConfig{Keys: keys, Command: command})
	return k
}

// Validate checks every sequence parses and every command is set.
func (k *Keymap) Validate() error {
	var errs []error
	for i, bc := range k.Bindings {
		if _, err := key.ParseSequence(bc.Keys); err != nil {
			errs = append(errs, fmt.Errorf("binding %d (%q): %w", i, bc.Keys, err))
			continue
		}
		if bc.Command == "" {
			errs = append(errs, fmt.Errorf("binding %d (%q): missing command", i, bc.Keys))
		}
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy.
func (k *Keymap) Clone() *Keymap {
	out := *k
	out.Bindings = append([]BindingConfig(nil), k.Bindings...)
	return &out
}

// Resolver turns a command name into a handler.
type Resolver interface {
	Resolve(command string) (Handler, error)
}

// ResolverFunc adapts a function to a Resolver.
type ResolverFunc func(command string) (Handler, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(command string) (Handler, error) { return f(command) }

// Compile resolves every binding and returns them in a new registry.
// All resolution errors are reported together.
func (k *Keymap) Compile(res Resolver) (*Registry, error) {
	if err := k.Validate(); err != nil {
		return nil, fmt.Errorf("keymap %s: %w", k.label(), err)
	}
	reg := NewRegistry()
	var errs []error
	for _, bc := range k.Bindings {
		h, err := res.Resolve(bc.Command)
		if err != nil {
			errs = append(errs, fmt.Errorf("%q: %w", bc.Keys, err))
			continue
		}
		opts := []BindingOption{Named(bc.Command)}
		if bc.Eager {
			opts = append(opts, Eager())
		}
		if _, err := reg.Add(key.MustParseSequence(bc.Keys), h, opts...); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("keymap %s: %w", k.label(), errors.Join(errs...))
	}
	return reg, nil
}

func (k *Keymap) label() string {
	switch {
	case k.Source != "":
		return k.Source
	case k.Name != "":
		return k.Name
	}
	return "(unnamed)"
}
