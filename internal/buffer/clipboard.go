package buffer

import "sync"

const defaultKillRingSize = 60

// Clipboard is a kill ring. The most recent entry is yanked first and
// Rotate cycles through older ones.
type Clipboard struct {
	mu   sync.Mutex
	ring []string
	max  int
}

// NewClipboard creates a clipboard keeping at most size entries.
func NewClipboard(size int) *Clipboard {
	if size <= 0 {
		size = defaultKillRingSize
	}
	return &Clipboard{max: size}
}

// Set pushes text onto the ring. Empty text is ignored.
func (c *Clipboard) Set(text string) {
	if text == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ring = append(c.ring, text)
	if len(c.ring) > c.max {
		c.ring = c.ring[len(c.ring)-c.max:]
	}
}

// Get returns the most recent entry.
func (c *Clipboard) Get() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.ring) == 0 {
		return ""
	}
	return c.ring[len(c.ring)-1]
}

// Rotate moves the most recent entry to the back of the ring.
func (c *Clipboard) Rotate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n := len(c.ring); n > 1 {
		last := c.ring[n-1]
		copy(c.ring[1:], c.ring[:n-1])
		c.ring[0] = last
	}
}

// Extend adds text to the most recent entry, in front of it when before is
// set. Consecutive kills accumulate this way.
func (c *Clipboard) Extend(text string, before bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.ring)
	if n == 0 {
		if text != "" {
			c.ring = append(c.ring, text)
		}
		return
	}
	if before {
		c.ring[n-1] = text + c.ring[n-1]
	} else {
		c.ring[n-1] += text
	}
}
