package keymap

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/dshills/pgline/internal/input/key"
)

// lookupCacheSize bounds the per-view memo of lookups.
const lookupCacheSize = 10000

// Bindings is a read-only view over a set of key bindings.
type Bindings interface {
	// Version changes whenever the set of bindings changes.
	Version() uint64

	// All returns every binding in registration order.
	All() []*Binding

	// ForKeys returns the bindings whose sequence matches keys exactly.
	// The best match is last: bindings using fewer wildcards sort later
	// and among equals the most recently added is last.
	ForKeys(keys key.Sequence) []*Binding

	// StartingWith returns the bindings for which keys is a strict prefix.
	StartingWith(keys key.Sequence) []*Binding
}

// lookupCache memoizes ForKeys and StartingWith for one version of a view.
type lookupCache struct {
	mu       sync.Mutex
	version  uint64
	forKeys  *lru.Cache
	starting *lru.Cache
}

func newLookupCache() *lookupCache {
	forKeys, err := lru.New(lookupCacheSize)
	if err != nil {
		panic(err)
	}
	starting, err := lru.New(lookupCacheSize)
	if err != nil {
		panic(err)
	}
	return &lookupCache{forKeys: forKeys, starting: starting}
}

func cacheKey(keys key.Sequence) string {
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(int64(k), 36))
	}
	return b.String()
}

func (c *lookupCache) get(cache *lru.Cache, version uint64, keys key.Sequence, compute func() []*Binding) []*Binding {
	c.mu.Lock()
	if c.version != version {
		c.forKeys.Purge()
		c.starting.Purge()
		c.version = version
	}
	c.mu.Unlock()

	k := cacheKey(keys)
	if v, ok := cache.Get(k); ok {
		return v.([]*Binding)
	}
	result := compute()
	cache.Add(k, result)
	return result
}

func matchExact(all []*Binding, keys key.Sequence) []*Binding {
	type match struct {
		b        *Binding
		anyCount int
	}
	var matches []match
	for _, b := range all {
		if ok, n := b.Keys.Matches(keys); ok {
			matches = append(matches, match{b, n})
		}
	}
	slices.SortStableFunc(matches, func(a, b match) int { return b.anyCount - a.anyCount })
	out := make([]*Binding, len(matches))
	for i, m := range matches {
		out[i] = m.b
	}
	return out
}

func matchLonger(all []*Binding, keys key.Sequence) []*Binding {
	var out []*Binding
	for _, b := range all {
		if b.Keys.MatchesPrefix(keys) {
			out = append(out, b)
		}
	}
	return out
}

// Registry is a mutable set of key bindings.
type Registry struct {
	mu       sync.RWMutex
	bindings []*Binding
	version  uint64
	cache    *lookupCache
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{cache: newLookupCache()}
}

// Add registers a binding built from keys, h and opts.
func (r *Registry) Add(keys key.Sequence, h Handler, opts ...BindingOption) (*Binding, error) {
	b := NewBinding(keys, h, opts...)
	if err := r.AddBinding(b); err != nil {
		return nil, err
	}
	return b, nil
}

// AddBinding registers b. Later bindings shadow earlier ones with the
// same sequence.
func (r *Registry) AddBinding(b *Binding) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("add binding %q: %w", b.Keys, err)
	}
	r.mu.Lock()
	r.bindings = append(r.bindings, b)
	r.version++
	r.mu.Unlock()
	return nil
}

// MustAdd parses spec and registers a binding, panicking on an invalid
// spec. It is meant for static tables.
func (r *Registry) MustAdd(spec string, h Handler, opts ...BindingOption) *Binding {
	b, err := r.Add(key.MustParseSequence(spec), h, opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// Remove unregisters b and reports whether it was present.
func (r *Registry) Remove(b *Binding) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := slices.Index(r.bindings, b)
	if i < 0 {
		return false
	}
	r.bindings = slices.Delete(r.bindings, i, i+1)
	r.version++
	return true
}

// RemoveKeys unregisters every binding with exactly keys and returns how
// many were removed.
func (r *Registry) RemoveKeys(keys key.Sequence) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.bindings)
	r.bindings = slices.DeleteFunc(r.bindings, func(b *Binding) bool {
		return b.Keys.Equal(keys)
	})
	removed := before - len(r.bindings)
	if removed > 0 {
		r.version++
	}
	return removed
}

// Len returns the number of bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}

// Version implements Bindings.
func (r *Registry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// All implements Bindings.
func (r *Registry) All() []*Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.bindings)
}

// ForKeys implements Bindings.
func (r *Registry) ForKeys(keys key.Sequence) []*Binding {
	return r.cache.get(r.cache.forKeys, r.Version(), keys, func() []*Binding {
		return matchExact(r.All(), keys)
	})
}

// StartingWith implements Bindings.
func (r *Registry) StartingWith(keys key.Sequence) []*Binding {
	return r.cache.get(r.cache.starting, r.Version(), keys, func() []*Binding {
		return matchLonger(r.All(), keys)
	})
}

// merged combines several views; later views shadow earlier ones.
type merged struct {
	parts []Bindings
	cache *lookupCache
}

// Merge combines views into one. Bindings of later views take precedence
// over earlier ones for the same sequence. Nil views are skipped.
func Merge(parts ...Bindings) Bindings {
	m := &merged{cache: newLookupCache()}
	for _, p := range parts {
		if p != nil {
			m.parts = append(m.parts, p)
		}
	}
	return m
}

// Version implements Bindings. Child versions only grow, so their sum
// changes whenever any child does.
func (m *merged) Version() uint64 {
	var v uint64
	for _, p := range m.parts {
		v += p.Version()
	}
	return v
}

func (m *merged) All() []*Binding {
	var out []*Binding
	for _, p := range m.parts {
		out = append(out, p.All()...)
	}
	return out
}

func (m *merged) ForKeys(keys key.Sequence) []*Binding {
	return m.cache.get(m.cache.forKeys, m.Version(), keys, func() []*Binding {
		return matchExact(m.All(), keys)
	})
}

func (m *merged) StartingWith(keys key.Sequence) []*Binding {
	return m.cache.get(m.cache.starting, m.Version(), keys, func() []*Binding {
		return matchLonger(m.All(), keys)
	})
}

// dynamic resolves its view on every lookup.
type dynamic struct {
	fn func() Bindings

	mu      sync.Mutex
	last    Bindings
	lastVer uint64
	version uint64
}

var emptyRegistry = NewRegistry()

// Dynamic returns a view that delegates to whatever fn returns at lookup
// time. A nil result behaves like an empty registry.
func Dynamic(fn func() Bindings) Bindings {
	return &dynamic{fn: fn}
}

func (d *dynamic) current() Bindings {
	b := d.fn()
	if b == nil {
		b = emptyRegistry
	}
	return b
}

// Version implements Bindings. It changes when the delegate is replaced
// or changes itself.
func (d *dynamic) Version() uint64 {
	b := d.current()
	v := b.Version()
	d.mu.Lock()
	defer d.mu.Unlock()
	if b != d.last || v != d.lastVer {
		d.last, d.lastVer = b, v
		d.version++
	}
	return d.version
}

func (d *dynamic) All() []*Binding { return d.current().All() }
func (d *dynamic) ForKeys(keys key.Sequence) []*Binding { return d.current().ForKeys(keys) }
func (d *dynamic) StartingWith(keys key.Sequence) []*Binding { return d.current().StartingWith(keys) }
