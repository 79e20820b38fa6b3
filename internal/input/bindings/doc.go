// Package bindings provides the readline style commands and the default
// key bindings of a prompt.
//
// Commands is a registry of named handlers ("beginning-of-line",
// "kill-word", "accept-line", ...). It resolves the command names used in
// user keymap files, with pluggable resolvers for prefixed commands such
// as "lua:".
//
// Basic, Emacs and System build registries that bind keys to those
// commands; Defaults merges them in precedence order.
package bindings
