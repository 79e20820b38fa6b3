package keymap

import (
	"errors"
	"testing"

	"github.com/dshills/pgline/internal/input/key"
)

func nop() Handler { return HandlerFunc(func(*Event) error { return nil }) }

func names(bs []*Binding) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.Name
	}
	return out
}

func TestRegistryForKeysOrdering(t *testing.T) {
	r := NewRegistry()
	r.MustAdd("a", nop(), Named("a1"))
	r.MustAdd("<any>", nop(), Named("any"))
	a3 := r.MustAdd("a", nop(), Named("a3"))

	got := names(r.ForKeys(key.Sequence{'a'}))
	want := []string{"any", "a1", "a3"}
	if len(got) != len(want) {
		t.Fatalf("ForKeys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ForKeys = %v, want %v", got, want)
		}
	}

	v := r.Version()
	if !r.Remove(a3) {
		t.Fatal("Remove() = false")
	}
	if r.Version() == v {
		t.Error("version unchanged after Remove")
	}
	if got := names(r.ForKeys(key.Sequence{'a'})); got[len(got)-1] != "a1" {
		t.Errorf("after remove ForKeys = %v", got)
	}
	if r.Remove(a3) {
		t.Error("second Remove() = true")
	}
}

func TestRegistryStartingWith(t *testing.T) {
	r := NewRegistry()
	r.MustAdd("c-x c-c", nop(), Named("quit"))
	r.MustAdd("c-x <any>", nop(), Named("cx-any"))
	r.MustAdd("c-x", nop(), Named("cx"))

	got := names(r.StartingWith(key.Sequence{key.KeyCtrlX}))
	if len(got) != 2 || got[0] != "quit" || got[1] != "cx-any" {
		t.Errorf("StartingWith(c-x) = %v", got)
	}
	if got := r.StartingWith(key.Sequence{key.KeyCtrlX, key.KeyCtrlC}); len(got) != 0 {
		t.Errorf("full sequence reported as prefix: %v", names(got))
	}
}

func TestRegistryRemoveKeys(t *testing.T) {
	r := NewRegistry()
	r.MustAdd("a", nop())
	r.MustAdd("a", nop())
	r.MustAdd("b", nop())
	if n := r.RemoveKeys(key.Sequence{'a'}); n != 2 {
		t.Errorf("RemoveKeys = %d, want 2", n)
	}
	if r.Len() != 1 || len(r.ForKeys(key.Sequence{'a'})) != 0 {
		t.Error("bindings for a still present")
	}
}

func TestRegistryRejectsInvalidBindings(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Add(nil, nop()); !errors.Is(err, ErrEmptySequence) {
		t.Errorf("Add(nil keys) = %v", err)
	}
	if _, err := r.Add(key.Sequence{'a'}, nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("Add(nil handler) = %v", err)
	}
}

func TestMergeLaterShadowsEarlier(t *testing.T) {
	base := NewRegistry()
	user := NewRegistry()
	base.MustAdd("a", nop(), Named("base"))
	user.MustAdd("a", nop(), Named("user"))
	m := Merge(base, nil, user)

	got := names(m.ForKeys(key.Sequence{'a'}))
	if got[len(got)-1] != "user" {
		t.Errorf("ForKeys = %v", got)
	}

	v := m.Version()
	base.MustAdd("b", nop(), Named("b"))
	if m.Version() == v {
		t.Error("merged version unchanged")
	}
	if got := names(m.ForKeys(key.Sequence{'b'})); len(got) != 1 {
		t.Errorf("merged view missed new binding: %v", got)
	}
	if n := len(m.All()); n != 3 {
		t.Errorf("All() has %d bindings, want 3", n)
	}
}

func TestDynamicFollowsDelegate(t *testing.T) {
	first := NewRegistry()
	second := NewRegistry()
	first.MustAdd("a", nop(), Named("first"))
	second.MustAdd("a", nop(), Named("second"))

	var current Bindings
	d := Dynamic(func() Bindings { return current })
	if got := d.ForKeys(key.Sequence{'a'}); len(got) != 0 {
		t.Errorf("nil delegate returned %v", names(got))
	}

	current = first
	v1 := d.Version()
	if got := names(d.ForKeys(key.Sequence{'a'})); got[0] != "first" {
		t.Errorf("ForKeys = %v", got)
	}
	current = second
	if d.Version() == v1 {
		t.Error("version unchanged after switching delegate")
	}
	if got := names(d.ForKeys(key.Sequence{'a'})); got[0] != "second" {
		t.Errorf("ForKeys = %v", got)
	}
}

func TestFilters(t *testing.T) {
	on := Condition(func(App) bool { return true })
	off := Condition(func(App) bool { return false })

	tests := []struct {
		name string
		f    Filter
		want bool
	}{
		{"always", Always, true},
		{"never", Never, false},
		{"and empty", And(), true},
		{"and nil", And(nil, on), true},
		{"and off", And(on, off), false},
		{"and never", And(on, Never), false},
		{"or empty", Or(), false},
		{"or on", Or(off, on), true},
		{"or off", Or(off, off), false},
		{"or nil", Or(off, nil), true},
		{"not on", Not(on), false},
		{"not not", Not(Not(off)), false},
		{"not never", Not(Never), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Enabled(nil); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithFilterCombines(t *testing.T) {
	b := NewBinding(key.Sequence{'a'}, nop(), WithFilter(Always), WithFilter(Never))
	if b.Filter.Enabled(nil) {
		t.Error("combined filter should be disabled")
	}
}
