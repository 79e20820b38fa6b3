package layout

import (
	"github.com/dshills/pgline/internal/renderer"
	"github.com/dshills/pgline/internal/renderer/screen"
)

// Container is a node of the layout tree.
type Container interface {
	renderer.Container
	Children() []Container
}

// extender is implemented by containers that can grow past their
// preferred height.
type extender interface {
	extendable() bool
}

func isExtendable(c Container) bool {
	e, ok := c.(extender)
	return ok && e.extendable()
}

// HSplit stacks its children top to bottom.
type HSplit struct {
	children []Container
}

// NewHSplit creates a vertical stack.
func NewHSplit(children ...Container) *HSplit {
	return &HSplit{children: children}
}

// Children implements Container.
func (s *HSplit) Children() []Container { return s.children }

func (s *HSplit) extendable() bool {
	for _, c := range s.children {
		if isExtendable(c) {
			return true
		}
	}
	return false
}

// PreferredHeight implements renderer.Container.
func (s *HSplit) PreferredHeight(width, maxAvailable int) int {
	total := 0
	for _, c := range s.children {
		total += c.PreferredHeight(width, max(maxAvailable-total, 0))
	}
	return min(total, maxAvailable)
}

// heights divides rows among the children: each gets its preferred height
// in order, and spare rows go to the first child that can extend.
func (s *HSplit) heights(width, rows int) []int {
	out := make([]int, len(s.children))
	used := 0
	for i, c := range s.children {
		out[i] = c.PreferredHeight(width, max(rows-used, 0))
		used += out[i]
	}
	if spare := rows - used; spare > 0 {
		for i, c := range s.children {
			if isExtendable(c) {
				out[i] += spare
				break
			}
		}
	}
	return out
}

// WriteToScreen implements renderer.Container.
func (s *HSplit) WriteToScreen(scr *screen.Screen, wp screen.WritePosition) {
	row := wp.Row
	for i, h := range s.heights(wp.Width, wp.Height) {
		if h > 0 {
			s.children[i].WriteToScreen(scr, screen.WritePosition{
				Col:    wp.Col,
				Row:    row,
				Width:  wp.Width,
				Height: h,
			})
		}
		row += h
	}
}

// ConditionalContainer shows its content only while filter returns true.
type ConditionalContainer struct {
	content Container
	filter  func() bool
}

// NewConditionalContainer wraps content.
func NewConditionalContainer(content Container, filter func() bool) *ConditionalContainer {
	return &ConditionalContainer{content: content, filter: filter}
}

// Visible reports whether the content is shown.
func (c *ConditionalContainer) Visible() bool {
	return c.filter == nil || c.filter()
}

// Children implements Container.
func (c *ConditionalContainer) Children() []Container { return []Container{c.content} }

func (c *ConditionalContainer) extendable() bool {
	return c.Visible() && isExtendable(c.content)
}

// PreferredHeight implements renderer.Container.
func (c *ConditionalContainer) PreferredHeight(width, maxAvailable int) int {
	if !c.Visible() {
		return 0
	}
	return c.content.PreferredHeight(width, maxAvailable)
}

// WriteToScreen implements renderer.Container.
func (c *ConditionalContainer) WriteToScreen(scr *screen.Screen, wp screen.WritePosition) {
	if c.Visible() {
		c.content.WriteToScreen(scr, wp)
	}
}

// Walk calls fn for c and every container below it, depth first, until fn
// returns false.
func Walk(c Container, fn func(Container) bool) bool {
	if c == nil {
		return true
	}
	if !fn(c) {
		return false
	}
	for _, child := range c.Children() {
		if !Walk(child, fn) {
			return false
		}
	}
	return true
}
