package io

import (
	"io"
	"iter"
	"slices"
)

// Tape records printed values, and writes each one as a line of text to
// Output when it is set.
type Tape struct {
	Output   io.Writer
	Capacity int // Maximum values recorded, zero for no limit.

	data []byte
}

var _ Channel = (*Tape)(nil)

// Rewind discards the recorded values.
func (tc *Tape) Rewind() {
	tc.data = tc.data[:0]
}

// Receive returns an iterator over the recorded values.
func (tc *Tape) Receive() iter.Seq[byte] {
	return slices.Values(tc.data)
}

// Send records value and writes it to the output.
func (tc *Tape) Send(value byte) (err error) {
	if tc.Capacity > 0 && len(tc.data) >= tc.Capacity {
		err = ErrChannelFull
		return
	}

	tc.data = append(tc.data, value)

	if tc.Output != nil {
		_, err = io.WriteString(tc.Output, f("%d\n", value))
	}

	return
}
