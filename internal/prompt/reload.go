package prompt

import (
	"errors"
	"io/fs"
	"os"

	"github.com/dshills/pgline/internal/config"
	"github.com/dshills/pgline/internal/input/keymap"
	"github.com/dshills/pgline/internal/script"
)

// reload loads the Lua file and then the keymap, which may call functions
// the Lua file defines, and installs their bindings over the defaults. A
// missing file is skipped. On error the previous bindings stay.
func (s *Session) reload() error {
	state := script.NewState(script.WithLogger(s.log))
	if path := config.ExpandPath(s.cfg.Editing.LuaFile); exists(path) {
		if err := state.DoFile(path); err != nil {
			state.Close()
			return err
		}
	}
	script.Register(s.commands, state)

	var user keymap.Bindings = keymap.NewRegistry()
	if path := config.ExpandPath(s.cfg.Editing.KeymapFile); exists(path) {
		km, err := keymap.LoadFile(path)
		if err != nil {
			s.restoreScript(state)
			return err
		}
		reg, err := km.Compile(s.commands)
		if err != nil {
			s.restoreScript(state)
			return err
		}
		user = reg
	}

	if s.script != nil {
		s.script.Close()
	}
	s.script = state
	s.app.SetExtraBindings(keymap.Merge(state.Bindings(), user))
	s.log.Info("user bindings loaded")
	return nil
}

// restoreScript drops a state that failed to load and resolves "lua:"
// commands through the previous one again.
func (s *Session) restoreScript(failed *script.State) {
	failed.Close()
	if s.script != nil {
		script.Register(s.commands, s.script)
	}
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// startWatcher reloads the user files when they change.
func (s *Session) startWatcher() {
	var paths []string
	for _, p := range []string{s.cfg.Editing.KeymapFile, s.cfg.Editing.LuaFile} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return
	}

	w, err := config.NewWatcher(config.WithWatcherLogger(s.log))
	if err != nil {
		s.log.Warn("not watching user files: %v", err)
		return
	}
	watched := 0
	for _, p := range paths {
		if err := w.Watch(p); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				s.log.Warn("not watching %s: %v", p, err)
			}
			continue
		}
		watched++
	}
	if watched == 0 {
		_ = w.Close()
		return
	}
	s.watcher = w
	s.app.Watch(w, func(config.Event) {
		if err := s.reload(); err != nil {
			s.log.Error("reloading user bindings: %v", err)
		}
	})
}
