// Package key defines the key vocabulary shared by the input parser and the
// key-binding processor.
//
// The package provides:
//
//   - Key: a logical key. Character keys are stored as their rune value,
//     named keys (control characters, arrows, function keys and the parser's
//     pseudo keys) live above the Unicode range.
//   - KeyPress: one decoded terminal event, the logical key plus the raw text
//     that produced it.
//   - Sequence: an ordered list of keys as used by key bindings.
//
// # Key Specifications
//
// Binding specifications can be written in several notations:
//
//   - Names: "c-x", "s-left", "c-s-home", "escape", "f5", "<any>", "a", "space"
//   - Vim-style: "<C-x>", "<M-b>", "<CR>", "<Esc>", "<BS>"
//   - Modifier-style: "Ctrl+X", "Alt+B", "Shift+Tab", "Ctrl+Shift+Left"
//
// Meta/Alt is not a key of its own on a VT100 terminal; it is sent as an
// Escape prefix, so "M-b" parses to the two-key sequence "escape b".
package key
