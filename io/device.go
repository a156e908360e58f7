// Package io provides the polled devices attached to the LS-8 CPU: the
// interval timer, scripted devices for tests, and the terminal keyboard.
package io

// Poller is a device that can be checked for an event without waiting.
type Poller interface {
	// Rewind restarts the device.
	Rewind()
	// Poll returns true if the device event has occurred.
	Poll() bool
}

// Keyboard is a Poller whose event is a pending keypress.
type Keyboard interface {
	Poller
	// ReadKey consumes the pending key, if any.
	ReadKey() (key byte, ok bool)
}
