//go:build unix

package app

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// watchResize redraws on SIGWINCH until the returned function is called.
func (a *Application) watchResize() func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGWINCH)
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			case <-ch:
				a.loop.CallFromExecutor(a.onResize)
			}
		}
	}()
	return func() {
		signal.Stop(ch)
		close(stop)
	}
}
