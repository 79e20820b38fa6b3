package core

import (
	"fmt"
	"strings"
	"sync"
)

// maxClassDepth bounds class rules that reference other classes.
const maxClassDepth = 8

// StyleSheet resolves style strings such as "class:prompt bold fg:#ff0000"
// into Attrs. Class rules map a class name to another style string.
// Resolved strings are memoized; changing a rule clears the memo and bumps
// Version so renderers know to repaint.
type StyleSheet struct {
	mu      sync.Mutex
	rules   map[string]string
	cache   map[string]Attrs
	version uint64
}

// NewStyleSheet creates a style sheet from class rules.
func NewStyleSheet(rules map[string]string) *StyleSheet {
	s := &StyleSheet{
		rules: make(map[string]string, len(rules)),
		cache: make(map[string]Attrs),
	}
	for class, style := range rules {
		s.rules[class] = style
	}
	return s
}

// SetRule adds or replaces the rule for class.
func (s *StyleSheet) SetRule(class, style string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[class] = style
	s.cache = make(map[string]Attrs)
	s.version++
}

// Version changes whenever the rules change.
func (s *StyleSheet) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Resolve returns the attributes for a style string. Unknown words are
// ignored so rendering never fails on a bad style.
func (s *StyleSheet) Resolve(style string) Attrs {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.cache[style]; ok {
		return a
	}
	a, _ := s.apply(DefaultAttrs, style, 0)
	s.cache[style] = a
	return a
}

// Validate reports the first problem in a style string.
func (s *StyleSheet) Validate(style string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.apply(DefaultAttrs, style, 0)
	return err
}

func (s *StyleSheet) apply(a Attrs, style string, depth int) (Attrs, error) {
	var firstErr error
	note := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, word := range strings.Fields(style) {
		if classes, ok := strings.CutPrefix(word, "class:"); ok {
			if depth >= maxClassDepth {
				note(fmt.Errorf("class nesting too deep at %q", word))
				continue
			}
			for _, class := range strings.Split(classes, ",") {
				rule, ok := s.rules[class]
				if !ok {
					continue
				}
				var err error
				if a, err = s.apply(a, rule, depth+1); err != nil {
					note(err)
				}
			}
			continue
		}
		var err error
		if a, err = applyWord(a, word); err != nil {
			note(err)
		}
	}
	return a, firstErr
}

// ParseAttrs applies a style string without class rules to base.
func ParseAttrs(base Attrs, style string) (Attrs, error) {
	for _, word := range strings.Fields(style) {
		var err error
		if base, err = applyWord(base, word); err != nil {
			return base, err
		}
	}
	return base, nil
}

func applyWord(a Attrs, word string) (Attrs, error) {
	lower := strings.ToLower(word)

	if lower == "noinherit" {
		return DefaultAttrs, nil
	}
	if v, ok := strings.CutPrefix(lower, "fg:"); ok {
		c, err := ParseColor(v)
		if err != nil {
			return a, err
		}
		a.Foreground = c
		return a, nil
	}
	if v, ok := strings.CutPrefix(lower, "bg:"); ok {
		c, err := ParseColor(v)
		if err != nil {
			return a, err
		}
		a.Background = c
		return a, nil
	}

	for _, f := range attrFlags {
		switch lower {
		case f.name:
			a.Attributes = a.Attributes.With(f.attr)
			return a, nil
		case "no" + f.name:
			a.Attributes = a.Attributes.Without(f.attr)
			return a, nil
		}
	}
	if lower == "underlined" {
		a.Attributes = a.Attributes.With(AttrUnderline)
		return a, nil
	}

	// A bare color is a foreground color.
	if c, err := ParseColor(lower); err == nil {
		a.Foreground = c
		return a, nil
	}
	return a, fmt.Errorf("unknown style word %q", word)
}
