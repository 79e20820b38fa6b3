package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/pgline/internal/input/key"
	"github.com/dshills/pgline/internal/input/keymap"
)

const eventTypeName = "pgline.event"

// luaEvent is the key event a Lua handler receives. The first Go error
// raised through it is kept so that the processor sees the real cause,
// such as a read-only buffer.
type luaEvent struct {
	e   *keymap.Event
	err error
}

func (s *State) installModule() {
	l := s.l
	mod := l.SetFuncs(l.NewTable(), map[string]lua.LGFunction{
		"bind": s.luaBind,
		"log":  s.luaLog,
	})
	l.SetGlobal("pgline", mod)

	mt := l.NewTypeMetatable(eventTypeName)
	l.SetField(mt, "__index", l.SetFuncs(l.NewTable(), eventMethods))
}

// luaBind implements pgline.bind(keys, fn [, name]).
func (s *State) luaBind(l *lua.LState) int {
	spec := l.CheckString(1)
	fn := l.CheckFunction(2)
	name := l.OptString(3, "lua")

	seq, err := key.ParseSequence(spec)
	if err != nil {
		l.ArgError(1, err.Error())
		return 0
	}
	if _, err := s.bindings.Add(seq, s.handler(fn, name), keymap.Named(name)); err != nil {
		l.RaiseError("bind %s: %s", spec, err.Error())
	}
	return 0
}

func (s *State) luaLog(l *lua.LState) int {
	s.log.Info("%s", l.CheckString(1))
	return 0
}

var eventMethods = map[string]lua.LGFunction{
	"text": func(l *lua.LState) int {
		ev := checkEvent(l)
		l.Push(lua.LString(ev.e.CurrentBuffer().Text()))
		return 1
	},
	"cursor": func(l *lua.LState) int {
		ev := checkEvent(l)
		l.Push(lua.LNumber(ev.e.CurrentBuffer().CursorPosition()))
		return 1
	},
	"data": func(l *lua.LState) int {
		l.Push(lua.LString(checkEvent(l).e.Data()))
		return 1
	},
	"arg": func(l *lua.LState) int {
		l.Push(lua.LNumber(checkEvent(l).e.Arg()))
		return 1
	},
	"keys": func(l *lua.LState) int {
		l.Push(lua.LString(key.Keys(checkEvent(l).e.KeySequence()).String()))
		return 1
	},
	"set_text": func(l *lua.LState) int {
		ev := checkEvent(l)
		ev.raise(l, ev.e.CurrentBuffer().SetText(l.CheckString(2)))
		return 0
	},
	"set_cursor": func(l *lua.LState) int {
		ev := checkEvent(l)
		ev.e.CurrentBuffer().SetCursorPosition(l.CheckInt(2))
		return 0
	},
	"insert": func(l *lua.LState) int {
		ev := checkEvent(l)
		ev.raise(l, ev.e.CurrentBuffer().InsertText(l.CheckString(2), false, true))
		return 0
	},
	"delete_before": func(l *lua.LState) int {
		ev := checkEvent(l)
		deleted, err := ev.e.CurrentBuffer().DeleteBeforeCursor(l.OptInt(2, 1))
		ev.raise(l, err)
		l.Push(lua.LString(deleted))
		return 1
	},
	"feed": func(l *lua.LState) int {
		ev := checkEvent(l)
		seq, err := key.ParseSequence(l.CheckString(2))
		if err != nil {
			l.ArgError(2, err.Error())
			return 0
		}
		kps := make([]key.KeyPress, len(seq))
		for i, k := range seq {
			kps[i] = key.NewKeyPress(k, "")
		}
		ev.e.Processor().FeedMultiple(kps, true)
		return 0
	},
	"accept": func(l *lua.LState) int {
		ev := checkEvent(l)
		ev.raise(l, ev.e.CurrentBuffer().Accept())
		return 0
	},
	"bell": func(l *lua.LState) int {
		checkEvent(l).e.App().Bell()
		return 0
	},
}

func checkEvent(l *lua.LState) *luaEvent {
	ud := l.CheckUserData(1)
	ev, ok := ud.Value.(*luaEvent)
	if !ok || ev.e == nil {
		l.ArgError(1, "key event expected")
	}
	return ev
}

// raise records err and turns it into a Lua error.
func (ev *luaEvent) raise(l *lua.LState, err error) {
	if err == nil {
		return
	}
	if ev.err == nil {
		ev.err = err
	}
	l.RaiseError("%s", err.Error())
}

func (s *State) newEvent(e *keymap.Event) (*lua.LUserData, *luaEvent) {
	ev := &luaEvent{e: e}
	ud := s.l.NewUserData()
	ud.Value = ev
	s.l.SetMetatable(ud, s.l.GetTypeMetatable(eventTypeName))
	return ud, ev
}

// handler wraps a Lua function as a key binding handler.
func (s *State) handler(fn *lua.LFunction, name string) keymap.Handler {
	return keymap.HandlerFunc(func(e *keymap.Event) error {
		var ev *luaEvent
		err := s.run(name, func() error {
			var ud *lua.LUserData
			ud, ev = s.newEvent(e)
			callErr := s.l.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, ud)
			// The event must not outlive the call.
			ev.e = nil
			return callErr
		})
		if ev != nil && ev.err != nil {
			return &LuaError{Source: name, Err: ev.err}
		}
		return err
	})
}
