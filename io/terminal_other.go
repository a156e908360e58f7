//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package io

import (
	"os"
)

// Terminal is unavailable on this platform.
type Terminal struct{}

var _ Keyboard = (*Terminal)(nil)

// NewTerminal always fails on this platform.
func NewTerminal(in *os.File) (tm *Terminal, err error) {
	err = ErrNotTerminal
	return
}

func (tm *Terminal) Rewind()                      {}
func (tm *Terminal) Poll() bool                   { return false }
func (tm *Terminal) ReadKey() (key byte, ok bool) { return }
func (tm *Terminal) Close() error                 { return nil }
