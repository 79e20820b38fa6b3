package key

import (
	"fmt"
	"strings"
)

// keyNames maps named keys to their canonical binding name.
var keyNames = map[Key]string{
	KeyEscape:          "escape",
	KeyCtrlAt:          "c-@",
	KeyCtrlBackslash:   `c-\`,
	KeyCtrlSquareClose: "c-]",
	KeyCtrlCircumflex:  "c-^",
	KeyCtrlUnderscore:  "c-_",

	KeyLeft:     "left",
	KeyRight:    "right",
	KeyUp:       "up",
	KeyDown:     "down",
	KeyHome:     "home",
	KeyEnd:      "end",
	KeyInsert:   "insert",
	KeyDelete:   "delete",
	KeyPageUp:   "pageup",
	KeyPageDown: "pagedown",

	KeyCtrlLeft:     "c-left",
	KeyCtrlRight:    "c-right",
	KeyCtrlUp:       "c-up",
	KeyCtrlDown:     "c-down",
	KeyCtrlHome:     "c-home",
	KeyCtrlEnd:      "c-end",
	KeyCtrlInsert:   "c-insert",
	KeyCtrlDelete:   "c-delete",
	KeyCtrlPageUp:   "c-pageup",
	KeyCtrlPageDown: "c-pagedown",

	KeyShiftLeft:     "s-left",
	KeyShiftRight:    "s-right",
	KeyShiftUp:       "s-up",
	KeyShiftDown:     "s-down",
	KeyShiftHome:     "s-home",
	KeyShiftEnd:      "s-end",
	KeyShiftInsert:   "s-insert",
	KeyShiftDelete:   "s-delete",
	KeyShiftPageUp:   "s-pageup",
	KeyShiftPageDown: "s-pagedown",

	KeyCtrlShiftLeft:  "c-s-left",
	KeyCtrlShiftRight: "c-s-right",
	KeyCtrlShiftHome:  "c-s-home",
	KeyCtrlShiftEnd:   "c-s-end",

	KeyBackTab: "s-tab",

	KeyScrollUp:          "<scroll-up>",
	KeyScrollDown:        "<scroll-down>",
	KeyCPRResponse:       "<cursor-position-response>",
	KeyVt100MouseEvent:   "<vt100-mouse-event>",
	KeyWindowsMouseEvent: "<windows-mouse-event>",
	KeyBracketedPaste:    "<bracketed-paste>",
	KeyIgnore:            "<ignore>",
	KeyAny:               "<any>",
}

// keyAliases are accepted by FromName but never produced by String.
var keyAliases = map[string]Key{
	"tab":       KeyTab,
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"backspace": KeyBackspace,
	"c-space":   KeyCtrlAt,
	"esc":       KeyEscape,
	"del":       KeyDelete,
	"space":     ' ',
	"any":       KeyAny,
}

var nameToKey map[string]Key

func init() {
	for k := KeyCtrlA; k <= KeyCtrlZ; k++ {
		keyNames[k] = "c-" + string(rune('a'+(k-KeyCtrlA)))
	}
	for k := KeyF1; k <= KeyF24; k++ {
		keyNames[k] = fmt.Sprintf("f%d", int(k-KeyF1)+1)
	}

	nameToKey = make(map[string]Key, len(keyNames)+len(keyAliases))
	for k, name := range keyNames {
		nameToKey[name] = k
	}
	for name, k := range keyAliases {
		nameToKey[name] = k
	}
}

// FromName returns the key for a binding name such as "c-a", "left" or
// "<any>". A single character names itself. Lookup is case-insensitive for
// names longer than one character.
func FromName(name string) Key {
	if r := []rune(name); len(r) == 1 {
		return RuneKey(r[0])
	}
	if k, ok := nameToKey[strings.ToLower(name)]; ok {
		return k
	}
	return KeyNone
}

// Names returns the canonical names of all named keys.
func Names() []string {
	names := make([]string, 0, len(keyNames))
	for k := namedBase; k < keyEnd; k++ {
		if name, ok := keyNames[k]; ok {
			names = append(names, name)
		}
	}
	return names
}
