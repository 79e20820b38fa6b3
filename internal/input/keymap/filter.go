package keymap

// Filter decides whether a binding is active.
type Filter interface {
	Enabled(app App) bool
}

// Condition adapts a function to a Filter.
type Condition func(app App) bool

// Enabled implements Filter.
func (c Condition) Enabled(app App) bool { return c(app) }

type constant bool

func (c constant) Enabled(App) bool { return bool(c) }

// Constant filters.
var (
	Always Filter = constant(true)
	Never  Filter = constant(false)
)

// Built-in filters.
var (
	// HasArg is active while a numeric argument is being typed.
	HasArg Filter = Condition(func(app App) bool {
		return app.KeyProcessor().Arg() != ""
	})

	// IsDone is active once the application has finished.
	IsDone Filter = Condition(func(app App) bool { return app.IsDone() })

	// IsReadOnly is active when the current buffer refuses edits.
	IsReadOnly Filter = Condition(func(app App) bool {
		b := app.CurrentBuffer()
		return b != nil && b.ReadOnly()
	})

	// IsRecording is active while a keyboard macro is recorded.
	IsRecording Filter = Condition(func(app App) bool {
		return app.KeyProcessor().Macros().IsRecording()
	})
)

type and []Filter

func (fs and) Enabled(app App) bool {
	for _, f := range fs {
		if !f.Enabled(app) {
			return false
		}
	}
	return true
}

type or []Filter

func (fs or) Enabled(app App) bool {
	for _, f := range fs {
		if f.Enabled(app) {
			return true
		}
	}
	return false
}

type not struct{ f Filter }

func (n not) Enabled(app App) bool { return !n.f.Enabled(app) }

// And is active when every filter is. Nil filters count as Always.
func And(filters ...Filter) Filter {
	out := make(and, 0, len(filters))
	for _, f := range filters {
		switch f {
		case nil, Always:
			continue
		case Never:
			return Never
		}
		out = append(out, f)
	}
	switch len(out) {
	case 0:
		return Always
	case 1:
		return out[0]
	}
	return out
}

// Or is active when any filter is. Nil filters count as Always.
func Or(filters ...Filter) Filter {
	out := make(or, 0, len(filters))
	for _, f := range filters {
		switch f {
		case nil, Always:
			return Always
		case Never:
			continue
		}
		out = append(out, f)
	}
	switch len(out) {
	case 0:
		return Never
	case 1:
		return out[0]
	}
	return out
}

// Not inverts a filter.
func Not(f Filter) Filter {
	switch f {
	case nil, Always:
		return Never
	case Never:
		return Always
	}
	if n, ok := f.(not); ok {
		return n.f
	}
	return not{f}
}

func enabled(f Filter, app App, def bool) bool {
	if f == nil {
		return def
	}
	return f.Enabled(app)
}
