package key

import "strings"

// Modifier represents modifier keys in a binding specification.
// Terminals have no modifier state of their own; modifiers are folded into
// the named key (c-a, s-left) or into an Escape prefix (Alt/Meta).
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModMeta indicates Alt or Meta. Both are sent as an Escape prefix.
	ModMeta
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// String returns a "C-S-M" style representation.
func (m Modifier) String() string {
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "C")
	}
	if m.Has(ModShift) {
		parts = append(parts, "S")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "M")
	}
	return strings.Join(parts, "-")
}

// ModifierFromName parses a modifier name.
func ModifierFromName(name string) Modifier {
	switch strings.ToLower(name) {
	case "shift", "s":
		return ModShift
	case "ctrl", "control", "c":
		return ModCtrl
	case "alt", "meta", "option", "opt", "a", "m":
		return ModMeta
	default:
		return ModNone
	}
}

var ctrlNavigation = map[Key]Key{
	KeyLeft:     KeyCtrlLeft,
	KeyRight:    KeyCtrlRight,
	KeyUp:       KeyCtrlUp,
	KeyDown:     KeyCtrlDown,
	KeyHome:     KeyCtrlHome,
	KeyEnd:      KeyCtrlEnd,
	KeyInsert:   KeyCtrlInsert,
	KeyDelete:   KeyCtrlDelete,
	KeyPageUp:   KeyCtrlPageUp,
	KeyPageDown: KeyCtrlPageDown,
}

var shiftNavigation = map[Key]Key{
	KeyLeft:     KeyShiftLeft,
	KeyRight:    KeyShiftRight,
	KeyUp:       KeyShiftUp,
	KeyDown:     KeyShiftDown,
	KeyHome:     KeyShiftHome,
	KeyEnd:      KeyShiftEnd,
	KeyInsert:   KeyShiftInsert,
	KeyDelete:   KeyShiftDelete,
	KeyPageUp:   KeyShiftPageUp,
	KeyPageDown: KeyShiftPageDown,
	KeyTab:      KeyBackTab,
}

var ctrlShiftNavigation = map[Key]Key{
	KeyLeft:  KeyCtrlShiftLeft,
	KeyRight: KeyCtrlShiftRight,
	KeyHome:  KeyCtrlShiftHome,
	KeyEnd:   KeyCtrlShiftEnd,
}

// Apply folds modifiers into k and returns the resulting key sequence.
// Meta produces an Escape prefix. ok is false when the terminal has no
// encoding for the combination (for example Ctrl+F5).
func (m Modifier) Apply(k Key) (seq Sequence, ok bool) {
	base := m.Without(ModMeta)
	switch {
	case base == ModNone:
		ok = true
	case base == ModCtrl:
		if k.IsRune() {
			k, ok = CtrlKey(k.Rune())
		} else {
			k, ok = ctrlNavigation[k]
		}
	case base == ModShift:
		if k.IsRune() {
			// Shift on a character is the upper-case character itself.
			k, ok = RuneKey([]rune(strings.ToUpper(string(k.Rune())))[0]), true
		} else {
			k, ok = shiftNavigation[k]
		}
	case base == ModCtrl|ModShift:
		k, ok = ctrlShiftNavigation[k]
	}
	if !ok {
		return nil, false
	}
	if m.Has(ModMeta) {
		return Sequence{KeyEscape, k}, true
	}
	return Sequence{k}, true
}
