package uart

import (
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"
)

// PortConfig configures a serial port transport.
type PortConfig struct {
	Device      string
	Baud        int
	PollTimeout time.Duration
}

// DefaultBaud matches the reference firmware's serial rate.
const DefaultBaud = 57600

// Port adapts a serial device to ByteSource and the transmit side.
// Poll bounds each read by PollTimeout so the control loop keeps
// making progress when the line is idle.
type Port struct {
	port serial.Port
	buf  [1]byte
}

// OpenPort opens the serial device.
func OpenPort(conf PortConfig) (*Port, error) {
	if conf.Baud == 0 {
		conf.Baud = DefaultBaud
	}
	if conf.PollTimeout == 0 {
		conf.PollTimeout = 10 * time.Millisecond
	}
	port, err := serial.Open(conf.Device, &serial.Mode{BaudRate: conf.Baud})
	if err != nil {
		return nil, err
	}
	if err := port.SetReadTimeout(conf.PollTimeout); err != nil {
		port.Close()
		return nil, err
	}
	return &Port{port: port}, nil
}

// Poll implements ByteSource. Read errors are logged and reported as
// no byte available, never as fatal.
func (p *Port) Poll() (byte, bool) {
	n, err := p.port.Read(p.buf[:])
	if err != nil {
		glog.V(2).Infof("serial read: %v", err)
		return 0, false
	}
	if n == 0 {
		return 0, false
	}
	return p.buf[0], true
}

// Write sends response bytes back to the host.
func (p *Port) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close closes the serial device.
func (p *Port) Close() error {
	return p.port.Close()
}
