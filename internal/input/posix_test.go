//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package input

import (
	"os"
	"testing"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/dshills/pgline/internal/input/key"
)

func openPty(t *testing.T) (ptmx, tty *os.File) {
	t.Helper()
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = tty.Close()
		_ = ptmx.Close()
	})
	return ptmx, tty
}

func TestNewPosixRejectsNonTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	_, err = NewPosix(r)
	assert.ErrorIs(t, err, ErrNotTerminal)
}

func TestPosixRawModeRestores(t *testing.T) {
	_, tty := openPty(t)
	in, err := NewPosix(tty)
	require.NoError(t, err)

	before, err := unix.IoctlGetTermios(in.Fd(), ioctlGetTermios)
	require.NoError(t, err)

	restore, err := in.RawMode()
	require.NoError(t, err)
	raw, err := unix.IoctlGetTermios(in.Fd(), ioctlGetTermios)
	require.NoError(t, err)
	assert.Zero(t, raw.Lflag&(unix.ECHO|unix.ICANON|unix.ISIG))

	restoreCooked, err := in.CookedMode()
	require.NoError(t, err)
	cooked, err := unix.IoctlGetTermios(in.Fd(), ioctlGetTermios)
	require.NoError(t, err)
	assert.NotZero(t, cooked.Lflag&unix.ICANON)
	assert.NotZero(t, cooked.Lflag&unix.ECHO)
	restoreCooked()

	restore()
	after, err := unix.IoctlGetTermios(in.Fd(), ioctlGetTermios)
	require.NoError(t, err)
	assert.Equal(t, before.Lflag, after.Lflag)
	assert.Equal(t, before.Iflag, after.Iflag)
}

func TestPosixReadKeys(t *testing.T) {
	ptmx, tty := openPty(t)
	in, err := NewPosix(tty)
	require.NoError(t, err)

	restore, err := in.RawMode()
	require.NoError(t, err)
	defer restore()

	_, err = ptmx.Write([]byte("x\x1b[A"))
	require.NoError(t, err)

	var got []key.KeyPress
	for len(got) < 2 {
		got = append(got, in.ReadKeys()...)
	}
	assert.Equal(t, []key.Key{key.RuneKey('x'), key.KeyUp}, keysOf(got))
}
