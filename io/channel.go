// Package io provides output channel implementations for the LS-8 emulator.
// The Tape channel records every value printed by the CPU and writes it as
// a line of text.
package io

import (
	"iter"
)

// Channel defines the interface for all output channels in the LS-8 system.
// Channels operate at the byte level.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive returns an iterator that yields the values sent so far.
	Receive() iter.Seq[byte]
	// Send writes a single value to the channel.
	Send(value byte) error
}
