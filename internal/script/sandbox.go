package script

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// removedGlobals can load code from disk or strings and escape the
// sandbox.
var removedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
}

// openSafeLibraries opens the libraries that cannot touch the system:
// no io, os, debug or package.
func openSafeLibraries(l *lua.LState) {
	lua.OpenBase(l)
	lua.OpenTable(l)
	lua.OpenString(l)
	lua.OpenMath(l)
}

func (s *State) installSandbox() {
	for _, name := range removedGlobals {
		s.l.SetGlobal(name, lua.LNil)
	}
	// The terminal belongs to the UI, so print goes to the log.
	s.l.SetGlobal("print", s.l.NewFunction(func(l *lua.LState) int {
		parts := make([]string, 0, l.GetTop())
		for i := 1; i <= l.GetTop(); i++ {
			parts = append(parts, l.ToStringMeta(l.Get(i)).String())
		}
		s.log.Info("%s", strings.Join(parts, "\t"))
		return 0
	}))
}
