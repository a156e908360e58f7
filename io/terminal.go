//go:build linux || darwin || freebsd || netbsd || openbsd

package io

import (
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Terminal is a Keyboard reading single keys from a terminal in cbreak mode:
// no echo and no line buffering, with signals and output processing kept.
type Terminal struct {
	In *os.File

	fd      int
	restore *term.State
}

var _ Keyboard = (*Terminal)(nil)

// NewTerminal switches in to cbreak mode. Close restores the prior mode.
func NewTerminal(in *os.File) (tm *Terminal, err error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		err = ErrNotTerminal
		return
	}

	restore, err := term.GetState(fd)
	if err != nil {
		return
	}

	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return
	}

	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	termios.Cc[unix.VMIN] = 0
	termios.Cc[unix.VTIME] = 0

	err = unix.IoctlSetTermios(fd, ioctlSetTermios, termios)
	if err != nil {
		return
	}

	tm = &Terminal{
		In:      in,
		fd:      fd,
		restore: restore,
	}

	return
}

// Rewind is not possible on a terminal.
func (tm *Terminal) Rewind() {
}

// Poll returns true if a key is waiting, without blocking.
func (tm *Terminal) Poll() bool {
	fds := []unix.PollFd{{Fd: int32(tm.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	if err != nil || n == 0 {
		return false
	}

	return (fds[0].Revents & unix.POLLIN) != 0
}

// ReadKey reads the waiting key.
func (tm *Terminal) ReadKey() (key byte, ok bool) {
	var one [1]byte
	n, err := tm.In.Read(one[:])
	if err != nil || n == 0 {
		return
	}

	key = one[0]
	ok = true
	return
}

// Close restores the terminal mode saved by NewTerminal.
func (tm *Terminal) Close() (err error) {
	if tm.restore == nil {
		return
	}

	err = term.Restore(tm.fd, tm.restore)
	tm.restore = nil
	return
}
