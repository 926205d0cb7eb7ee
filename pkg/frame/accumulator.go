// Package frame assembles a raw byte stream into delimiter-terminated
// command frames using a fixed-capacity buffer.
package frame

// Capacity is the fixed size of the frame buffer. A frame longer than
// Capacity-1 bytes (excluding the terminator) overflows and is discarded.
const Capacity = 64

// Terminator marks the end of a command frame on the wire.
const Terminator byte = '\n'

// Status is the outcome of pushing one byte into the Accumulator.
type Status int

const (
	// Incomplete means more bytes are needed to complete the frame.
	Incomplete Status = iota
	// Complete means the terminator arrived and Frame holds a full frame.
	Complete
	// Overflow means the buffer filled up before a terminator arrived.
	// The partial frame is discarded and the buffer is reset.
	Overflow
)

// Accumulator collects bytes into frames. The internal buffer is
// allocated once and overwritten in place for every frame.
//
// The zero value is ready to use.
type Accumulator struct {
	buf      [Capacity]byte
	n        int
	complete bool
}

// Push feeds one received byte. On Complete the accumulated frame is
// available via Frame until the next Push, which starts a new frame.
func (a *Accumulator) Push(b byte) Status {
	if a.complete {
		a.Reset()
	}
	if b == Terminator {
		a.complete = true
		return Complete
	}
	a.buf[a.n] = b
	a.n++
	if a.n == Capacity {
		a.Reset()
		return Overflow
	}
	return Incomplete
}

// Frame returns the accumulated frame excluding the terminator. The
// returned slice aliases the internal buffer and is only valid until
// the next Push.
func (a *Accumulator) Frame() []byte {
	return a.buf[:a.n]
}

// Len returns the number of bytes accumulated so far.
func (a *Accumulator) Len() int {
	return a.n
}

// Reset discards any accumulated bytes.
func (a *Accumulator) Reset() {
	a.n = 0
	a.complete = false
}
