package app

import "github.com/dshills/pgline/internal/config"

// Watch calls fn on the loop thread for every event of w, then redraws.
// It returns when w is closed.
func (a *Application) Watch(w *config.Watcher, fn func(ev config.Event)) {
	go func() {
		for ev := range w.Events() {
			a.loop.CallFromExecutor(func() {
				a.log.Info("%s changed (%s)", ev.Path, ev.Op)
				fn(ev)
				a.Invalidate()
			})
		}
	}()
}
