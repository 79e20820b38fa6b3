package key

import (
	"fmt"
	"unicode"
)

// Key identifies a logical key.
// Character keys carry their rune value; named keys are allocated above
// unicode.MaxRune so the two ranges never collide.
type Key int32

const namedBase = Key(unicode.MaxRune + 1)

// KeyNone represents no key.
const KeyNone Key = 0

// Named keys.
const (
	KeyEscape Key = namedBase + iota

	// Control characters.
	KeyCtrlAt
	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlH
	KeyCtrlI
	KeyCtrlJ
	KeyCtrlK
	KeyCtrlL
	KeyCtrlM
	KeyCtrlN
	KeyCtrlO
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlS
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ
	KeyCtrlBackslash
	KeyCtrlSquareClose
	KeyCtrlCircumflex
	KeyCtrlUnderscore

	// Navigation.
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyPageUp
	KeyPageDown

	KeyCtrlLeft
	KeyCtrlRight
	KeyCtrlUp
	KeyCtrlDown
	KeyCtrlHome
	KeyCtrlEnd
	KeyCtrlInsert
	KeyCtrlDelete
	KeyCtrlPageUp
	KeyCtrlPageDown

	KeyShiftLeft
	KeyShiftRight
	KeyShiftUp
	KeyShiftDown
	KeyShiftHome
	KeyShiftEnd
	KeyShiftInsert
	KeyShiftDelete
	KeyShiftPageUp
	KeyShiftPageDown

	KeyCtrlShiftLeft
	KeyCtrlShiftRight
	KeyCtrlShiftHome
	KeyCtrlShiftEnd

	KeyBackTab

	// Function keys.
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
	KeyF21
	KeyF22
	KeyF23
	KeyF24

	KeyScrollUp
	KeyScrollDown

	// Pseudo keys produced by the input parser.
	KeyCPRResponse
	KeyVt100MouseEvent
	KeyWindowsMouseEvent
	KeyBracketedPaste

	// KeyIgnore is produced for sequences that should do nothing.
	KeyIgnore

	// KeyAny is a wildcard used in binding sequences only.
	KeyAny

	keyEnd
)

// Aliases for control characters with a conventional name.
const (
	KeyTab       = KeyCtrlI
	KeyEnter     = KeyCtrlM
	KeyBackspace = KeyCtrlH
	KeyCtrlSpace = KeyCtrlAt
)

// RuneKey returns the key for a literal character.
func RuneKey(r rune) Key {
	return Key(r)
}

// IsRune returns true if k is a literal character key.
func (k Key) IsRune() bool {
	return k > KeyNone && k < namedBase
}

// IsNamed returns true if k is one of the named keys.
func (k Key) IsNamed() bool {
	return k >= namedBase && k < keyEnd
}

// Rune returns the character of a rune key, or 0 for named keys.
func (k Key) Rune() rune {
	if !k.IsRune() {
		return 0
	}
	return rune(k)
}

// IsFunctionKey returns true for F1 through F24.
func (k Key) IsFunctionKey() bool {
	return k >= KeyF1 && k <= KeyF24
}

// IsControl returns true for the control-character keys c-@ through c-_.
func (k Key) IsControl() bool {
	return k >= KeyCtrlAt && k <= KeyCtrlUnderscore
}

// String returns the canonical binding name of the key.
func (k Key) String() string {
	if k == KeyNone {
		return "none"
	}
	if k.IsRune() {
		if k == ' ' {
			return "space"
		}
		return string(rune(k))
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", int32(k))
}

// CtrlKey returns the control key for a letter or one of @ \ ] ^ _.
// ok is false when r has no control form.
func CtrlKey(r rune) (k Key, ok bool) {
	r = unicode.ToLower(r)
	switch {
	case r >= 'a' && r <= 'z':
		return KeyCtrlA + Key(r-'a'), true
	case r == '@' || r == ' ':
		return KeyCtrlAt, true
	case r == '\\':
		return KeyCtrlBackslash, true
	case r == ']':
		return KeyCtrlSquareClose, true
	case r == '^':
		return KeyCtrlCircumflex, true
	case r == '_':
		return KeyCtrlUnderscore, true
	}
	return KeyNone, false
}
