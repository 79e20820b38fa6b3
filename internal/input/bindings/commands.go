package bindings

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/pgline/internal/input/keymap"
)

// Command names.
const (
	CmdBeginningOfLine    = "beginning-of-line"
	CmdEndOfLine          = "end-of-line"
	CmdForwardChar        = "forward-char"
	CmdBackwardChar       = "backward-char"
	CmdForwardWord        = "forward-word"
	CmdBackwardWord       = "backward-word"
	CmdPreviousLine       = "previous-line"
	CmdNextLine           = "next-line"
	CmdPreviousHistory    = "previous-history"
	CmdNextHistory        = "next-history"
	CmdAcceptLine         = "accept-line"
	CmdNewline            = "newline"
	CmdClearScreen        = "clear-screen"
	CmdDeleteChar         = "delete-char"
	CmdBackwardDeleteChar = "backward-delete-char"
	CmdKillLine           = "kill-line"
	CmdUnixLineDiscard    = "unix-line-discard"
	CmdUnixWordRubout     = "unix-word-rubout"
	CmdKillWord           = "kill-word"
	CmdBackwardKillWord   = "backward-kill-word"
	CmdYank               = "yank"
	CmdTransposeChars     = "transpose-chars"
	CmdUppercaseWord      = "uppercase-word"
	CmdDowncaseWord       = "downcase-word"
	CmdCapitalizeWord     = "capitalize-word"
	CmdUndo               = "undo"
	CmdStartKbdMacro      = "start-kbd-macro"
	CmdEndKbdMacro        = "end-kbd-macro"
	CmdCallLastKbdMacro   = "call-last-kbd-macro"
	CmdSelfInsert         = "self-insert"
	CmdQuotedInsert       = "quoted-insert"
	CmdIgnore             = "ignore"
)

// PrefixResolver resolves the part of a command after its prefix.
type PrefixResolver func(rest string) (keymap.Handler, error)

// Commands maps command names to handlers.
type Commands struct {
	mu       sync.RWMutex
	handlers map[string]keymap.Handler
	prefixes map[string]PrefixResolver

	// quoted is set by quoted-insert until the next key is inserted.
	quoted bool
}

// NewCommands creates an empty registry.
func NewCommands() *Commands {
	return &Commands{
		handlers: make(map[string]keymap.Handler),
		prefixes: make(map[string]PrefixResolver),
	}
}

// DefaultCommands creates a registry holding every built-in command.
func DefaultCommands() *Commands {
	c := NewCommands()
	c.registerBuiltins()
	return c
}

// Register binds name to h, replacing any previous handler.
func (c *Commands) Register(name string, h keymap.Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[name] = h
}

// RegisterPrefix resolves every command starting with prefix through fn.
func (c *Commands) RegisterPrefix(prefix string, fn PrefixResolver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefixes[prefix] = fn
}

// Get returns the handler for name.
func (c *Commands) Get(name string) (keymap.Handler, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return h, nil
}

// Must returns the handler for name and panics if it is missing.
func (c *Commands) Must(name string) keymap.Handler {
	h, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return h
}

// Has reports whether name is registered.
func (c *Commands) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.handlers[name]
	return ok
}

// Names returns the registered command names, sorted.
func (c *Commands) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.handlers))
	for name := range c.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve implements keymap.Resolver. Prefixed commands go to their
// prefix resolver; everything else must be a registered name.
func (c *Commands) Resolve(command string) (keymap.Handler, error) {
	c.mu.RLock()
	var fn PrefixResolver
	var rest string
	for prefix, r := range c.prefixes {
		if after, ok := strings.CutPrefix(command, prefix); ok {
			fn, rest = r, after
			break
		}
	}
	c.mu.RUnlock()
	if fn != nil {
		return fn(rest)
	}
	return c.Get(command)
}

func (c *Commands) registerBuiltins() {
	builtins := map[string]keymap.HandlerFunc{
		CmdBeginningOfLine:    beginningOfLine,
		CmdEndOfLine:          endOfLine,
		CmdForwardChar:        forwardChar,
		CmdBackwardChar:       backwardChar,
		CmdForwardWord:        forwardWord,
		CmdBackwardWord:       backwardWord,
		CmdPreviousLine:       previousLine,
		CmdNextLine:           nextLine,
		CmdPreviousHistory:    previousHistory,
		CmdNextHistory:        nextHistory,
		CmdAcceptLine:         acceptLine,
		CmdNewline:            newline,
		CmdClearScreen:        clearScreen,
		CmdDeleteChar:         deleteChar,
		CmdBackwardDeleteChar: backwardDeleteChar,
		CmdKillLine:           killLine,
		CmdUnixLineDiscard:    unixLineDiscard,
		CmdUnixWordRubout:     unixWordRubout,
		CmdKillWord:           killWord,
		CmdBackwardKillWord:   backwardKillWord,
		CmdYank:               yank,
		CmdTransposeChars:     transposeChars,
		CmdUppercaseWord:      caseWord(strings.ToUpper),
		CmdDowncaseWord:       caseWord(strings.ToLower),
		CmdCapitalizeWord:     caseWord(capitalize),
		CmdUndo:               undo,
		CmdStartKbdMacro:      startKbdMacro,
		CmdEndKbdMacro:        endKbdMacro,
		CmdCallLastKbdMacro:   callLastKbdMacro,
		CmdSelfInsert:         selfInsert,
		CmdQuotedInsert:       c.quotedInsert,
		CmdIgnore:             ignore,
	}
	for name, h := range builtins {
		c.Register(name, h)
	}
}
