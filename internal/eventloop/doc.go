// Package eventloop implements the single-threaded event loop the terminal
// UI runs on, and the Future and coroutine primitives built on it.
//
// The goroutine that calls RunUntilComplete becomes the loop thread. Only
// that goroutine touches rendering and key-processing state. Other
// goroutines hand work back to it with CallFromExecutor, which queues the
// function and wakes the loop through a self-pipe. RunInExecutor runs
// blocking work on a fresh goroutine and returns a Future.
//
// Future callbacks always run on the loop thread, dispatched through the
// call-from-executor queue, even when the future was resolved by another
// goroutine or was already resolved when the callback was added.
//
// Spawn runs a function as a coroutine: the body runs on its own goroutine
// but only while the loop thread waits for it, so it observes loop state as
// if it ran on the loop. Task.Await suspends the body until a Future
// resolves and hands back its value or error.
package eventloop
