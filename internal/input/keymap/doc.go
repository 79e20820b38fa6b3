// Package keymap maps key sequences to handlers and dispatches key presses.
//
// # Key Concepts
//
// Binding: a key sequence, a Handler and options (filter, eager,
// save-before, record-in-macro).
//
// Bindings: a read-only view over a set of bindings. A Registry is the
// mutable implementation; Merge and Dynamic compose views.
//
// Processor: receives KeyPress values, accumulates them until they match a
// binding and calls its handler with an Event.
//
// Keymap: a declarative list of sequences and command names loaded from a
// YAML, TOML or JSON file and compiled into a Registry.
//
// # Matching
//
// For the keys accumulated so far the processor computes the exact
// matches and whether the keys are a strict prefix of a longer binding:
//
//  1. An exact match flagged eager wins immediately.
//  2. A prefix of a longer binding waits for more input (or a flush).
//  3. Otherwise the best exact match is called: fewest <any> wildcards,
//     then the most recently added.
//  4. With no match the longest matching prefix is called and the rest is
//     re-processed; if even a single key does not match it is dropped.
//
// Sequences are written as space separated key names:
//
//	"c-x c-c"   - Ctrl+X followed by Ctrl+C
//	"escape b"  - Meta-b
//	"<any>"     - any single key
//	"<C-x>"     - Ctrl+X (angle bracket notation)
//	"Alt+b"     - Escape followed by b
package keymap
