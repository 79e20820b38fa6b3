//go:build unix

package eventloop

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

// newWakePipe creates the non-blocking self-pipe used to wake the loop.
func newWakePipe() (r, w int, err error) {
	var p [2]int
	if err := unix.Pipe(p[:]); err != nil {
		return -1, -1, err
	}
	for _, fd := range p {
		unix.CloseOnExec(fd)
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(p[0])
			unix.Close(p[1])
			return -1, -1, err
		}
	}
	return p[0], p[1], nil
}

// wake writes one byte to the pipe. A full pipe already guarantees a wakeup.
func wake(fd int) {
	for {
		_, err := unix.Write(fd, []byte{0})
		if !errors.Is(err, unix.EINTR) {
			return
		}
	}
}

// drain empties the pipe.
func drain(fd int) {
	var buf [128]byte
	for {
		n, err := unix.Read(fd, buf[:])
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil || n < len(buf) {
			return
		}
	}
}

func closeFd(fd int) error {
	return unix.Close(fd)
}

// pollReadable waits until one of fds is readable or timeout elapses.
// A negative timeout blocks indefinitely. Calls interrupted by a signal
// (SIGWINCH in particular) are retried with the remaining time.
func pollReadable(fds []int, timeout time.Duration) ([]int, error) {
	pfds := make([]unix.PollFd, len(fds))
	for i, fd := range fds {
		pfds[i] = unix.PollFd{Fd: int32(fd), Events: unix.POLLIN}
	}

	deadline := time.Now().Add(timeout)
	for {
		ms := -1
		if timeout >= 0 {
			remaining := time.Until(deadline)
			if remaining < 0 {
				remaining = 0
			}
			// Round up so a 300µs timer does not spin with a 0ms poll.
			ms = int((remaining + time.Millisecond - 1) / time.Millisecond)
		}

		n, err := unix.Poll(pfds, ms)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, nil
		}

		ready := make([]int, 0, n)
		for _, p := range pfds {
			if p.Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
				ready = append(ready, int(p.Fd))
			}
		}
		return ready, nil
	}
}
