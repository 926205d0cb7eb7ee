package uart

import "github.com/golang/glog"

// Pipe is an in-memory byte transport. The device side polls bytes and
// writes responses; the host side feeds bytes and drains responses. It
// backs tests and the websocket bridge.
type Pipe struct {
	rx chan byte
	tx chan []byte
}

// NewPipe creates a Pipe.
func NewPipe() *Pipe {
	return &Pipe{
		rx: make(chan byte, 1024),
		tx: make(chan []byte, 64),
	}
}

// Poll implements ByteSource.
func (p *Pipe) Poll() (byte, bool) {
	select {
	case b := <-p.rx:
		return b, true
	default:
		return 0, false
	}
}

// Write sends device output to the host side without blocking. Output
// is dropped when the host stops draining; the command stream must not
// stall on a slow reader.
func (p *Pipe) Write(b []byte) (int, error) {
	out := make([]byte, len(b))
	copy(out, b)
	select {
	case p.tx <- out:
	default:
		glog.Warningf("pipe: host not draining, dropped %d bytes", len(b))
	}
	return len(b), nil
}

// Feed queues bytes for the device side to poll.
func (p *Pipe) Feed(b []byte) {
	for _, c := range b {
		p.rx <- c
	}
}

// FeedString queues a string for the device side to poll.
func (p *Pipe) FeedString(s string) {
	p.Feed([]byte(s))
}

// Host returns the channel carrying device output.
func (p *Pipe) Host() <-chan []byte {
	return p.tx
}
