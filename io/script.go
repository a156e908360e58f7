package io

import (
	"slices"
)

// Key is a scripted keypress.
type Key struct {
	Delay int  // Polls to wait before the key is pending.
	Code  byte // Key code.
}

// Script is a Keyboard that replays a fixed sequence of keys.
type Script struct {
	Keys []Key

	index  int
	waited int
}

var _ Keyboard = (*Script)(nil)

// Rewind restarts the script from the first key.
func (sc *Script) Rewind() {
	sc.index = 0
	sc.waited = 0
}

// Poll returns true once the next key's delay has passed.
func (sc *Script) Poll() bool {
	if sc.index >= len(sc.Keys) {
		return false
	}

	if sc.waited < sc.Keys[sc.index].Delay {
		sc.waited++
		return false
	}

	return true
}

// ReadKey consumes the next key if it is pending.
func (sc *Script) ReadKey() (key byte, ok bool) {
	if sc.index >= len(sc.Keys) || sc.waited < sc.Keys[sc.index].Delay {
		return
	}

	key = sc.Keys[sc.index].Code
	ok = true
	sc.index++
	sc.waited = 0
	return
}

// Done returns true once every key has been read.
func (sc *Script) Done() bool {
	return sc.index >= len(sc.Keys)
}

// Ticker is a Poller that fires on the listed poll counts, starting at 0.
type Ticker struct {
	Fire []int

	polls int
}

var _ Poller = (*Ticker)(nil)

// Rewind restarts the poll count.
func (tk *Ticker) Rewind() {
	tk.polls = 0
}

// Poll returns true if this poll's count is listed in Fire.
func (tk *Ticker) Poll() bool {
	n := tk.polls
	tk.polls++
	return slices.Contains(tk.Fire, n)
}

// Polls returns the number of polls since the last rewind.
func (tk *Ticker) Polls() int {
	return tk.polls
}
