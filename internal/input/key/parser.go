package key

import (
	"errors"
	"fmt"
	"strings"
)

// Parse errors
var (
	ErrEmptySpec        = errors.New("empty key specification")
	ErrInvalidSpec      = errors.New("invalid key specification")
	ErrUnmatchedBracket = errors.New("unmatched bracket in key specification")
)

// vimNames maps Vim's <...> key names to keys.
var vimNames = map[string]Key{
	"cr":       KeyEnter,
	"enter":    KeyEnter,
	"return":   KeyEnter,
	"esc":      KeyEscape,
	"escape":   KeyEscape,
	"bs":       KeyBackspace,
	"tab":      KeyTab,
	"space":    ' ',
	"lt":       '<',
	"bslash":   '\\',
	"bar":      '|',
	"del":      KeyDelete,
	"insert":   KeyInsert,
	"home":     KeyHome,
	"end":      KeyEnd,
	"pageup":   KeyPageUp,
	"pagedown": KeyPageDown,
	"up":       KeyUp,
	"down":     KeyDown,
	"left":     KeyLeft,
	"right":    KeyRight,
}

// ParseSequence parses a whitespace separated list of key specifications
// into one sequence. "c-x c-c" yields two keys, "M-b" yields "escape b".
func ParseSequence(spec string) (Sequence, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return nil, ErrEmptySpec
	}
	var seq Sequence
	for _, f := range fields {
		part, err := Parse(f)
		if err != nil {
			return nil, err
		}
		seq = append(seq, part...)
	}
	return seq, nil
}

// MustParseSequence is like ParseSequence but panics on error.
// Use only for bindings defined at compile time.
func MustParseSequence(spec string) Sequence {
	seq, err := ParseSequence(spec)
	if err != nil {
		panic(fmt.Sprintf("key: %q: %v", spec, err))
	}
	return seq
}

// Parse parses a single key specification. The result has more than one key
// only when Meta/Alt is involved.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@"
//   - Names: "escape", "c-a", "s-left", "c-s-home", "f5", "<any>", "space"
//   - Vim-style: "<C-s>", "<M-b>", "<C-S-Left>", "<CR>", "<Esc>"
//   - With modifiers: "Ctrl+S", "Alt+B", "Shift+Tab", "Ctrl+Shift+Left"
func Parse(spec string) (Sequence, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, ErrEmptySpec
	}

	// Canonical names first, so "<any>" and "c-\" are not mistaken for the
	// other notations.
	if k := FromName(spec); k != KeyNone {
		return Sequence{k}, nil
	}

	if strings.HasPrefix(spec, "<") {
		if !strings.HasSuffix(spec, ">") {
			return nil, ErrUnmatchedBracket
		}
		return parseVimStyle(spec[1 : len(spec)-1])
	}

	if strings.Contains(spec, "+") && len(spec) > 1 {
		return parseModifierStyle(spec)
	}

	// Emacs-style meta prefix, "M-b".
	if len(spec) > 2 && (spec[:2] == "M-" || spec[:2] == "m-") {
		rest, err := Parse(spec[2:])
		if err != nil {
			return nil, err
		}
		return append(Sequence{KeyEscape}, rest...), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
}

// parseVimStyle parses the inside of Vim notation like "C-s", "M-b", "CR".
func parseVimStyle(inner string) (Sequence, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return nil, ErrInvalidSpec
	}

	parts := strings.Split(inner, "-")
	keyPart := parts[len(parts)-1]
	if keyPart == "" && len(parts) > 1 {
		// "<C-->": the key itself is a hyphen.
		keyPart = "-"
		parts = parts[:len(parts)-1]
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(strings.TrimSpace(p))
		if mod == ModNone {
			return nil, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	k, err := parseKeyName(keyPart)
	if err != nil {
		return nil, err
	}
	return applyModifiers(k, mods)
}

// parseModifierStyle parses "Ctrl+S" style notation.
func parseModifierStyle(spec string) (Sequence, error) {
	parts := strings.Split(spec, "+")
	keyPart := strings.TrimSpace(parts[len(parts)-1])
	if keyPart == "" {
		// "Ctrl++"
		keyPart = "+"
		parts = parts[:len(parts)-1]
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		mod := ModifierFromName(p)
		if mod == ModNone {
			return nil, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	k, err := parseKeyName(keyPart)
	if err != nil {
		return nil, err
	}
	return applyModifiers(k, mods)
}

func parseKeyName(name string) (Key, error) {
	if r := []rune(name); len(r) == 1 {
		return RuneKey(r[0]), nil
	}
	if k, ok := vimNames[strings.ToLower(name)]; ok {
		return k, nil
	}
	if k := FromName(name); k != KeyNone {
		return k, nil
	}
	return KeyNone, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, name)
}

func applyModifiers(k Key, mods Modifier) (Sequence, error) {
	seq, ok := mods.Apply(k)
	if !ok {
		return nil, fmt.Errorf("%w: %s-%s has no terminal encoding", ErrInvalidSpec, mods, k)
	}
	return seq, nil
}
