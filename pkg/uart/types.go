// Package uart adapts byte-stream transports to the non-blocking
// poll contract the control loop is built on.
package uart

// ByteSource yields received bytes one at a time. Poll returns the next
// byte if one is buffered, otherwise false immediately; it never
// suspends the caller. Transport errors (framing, overrun) surface as
// "no byte this cycle" so the loop simply retries.
type ByteSource interface {
	Poll() (byte, bool)
}
