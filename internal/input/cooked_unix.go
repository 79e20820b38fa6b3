//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package input

import "golang.org/x/sys/unix"

func setCooked(fd int) error {
	t, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return err
	}
	t.Lflag |= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	t.Iflag |= unix.ICRNL
	t.Oflag |= unix.OPOST
	return unix.IoctlSetTermios(fd, ioctlSetTermios, t)
}
