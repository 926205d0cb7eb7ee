package board

import "github.com/golang/glog"

// SimBoard is an in-memory board. It mirrors pin levels, servo angles
// and the PWM duty so the daemon can run without hardware attached, and
// tests can assert on applied state.
type SimBoard struct {
	topo *Topology

	pins   [maxPins]bool
	servos [maxServos]servoState
	duty   uint8

	// FailNext, when set, makes the next Apply return a Fault. Used to
	// exercise per-action fault recovery.
	FailNext bool
}

type servoState struct {
	angle  uint8
	moving bool
}

const (
	maxPins   = 100
	maxServos = 10
)

// NewSimBoard creates a SimBoard over the topology.
func NewSimBoard(topo *Topology) *SimBoard {
	return &SimBoard{topo: topo}
}

// Apply implements Board.
func (b *SimBoard) Apply(a Action) error {
	if b.FailNext {
		b.FailNext = false
		return &Fault{Action: a, Reason: "injected"}
	}
	switch a.Kind {
	case SetPosition:
		b.servos[a.Channel] = servoState{angle: uint8(a.Value), moving: true}
	case StopChannel:
		b.servos[a.Channel].moving = false
	case SetLevel:
		b.pins[a.Channel] = a.Value != 0
	case SetDuty:
		b.duty = uint8(a.Value)
	default:
		return &Fault{Action: a, Reason: "unsupported action"}
	}
	glog.V(4).Infof("sim: applied %s", a)
	return nil
}

// ReadPin implements Board.
func (b *SimBoard) ReadPin(pin uint8) (bool, error) {
	return b.pins[pin], nil
}

// ReadAnalog implements Board. The simulated value is derived from the
// pin number so distinct pins are distinguishable in responses.
func (b *SimBoard) ReadAnalog(pin uint8) (uint16, error) {
	return uint16(pin) * 128, nil
}

// ReadTemperature implements Board.
func (b *SimBoard) ReadTemperature() uint16 {
	return 0x0123
}

// ServoAngle returns the mirrored position of a servo channel.
func (b *SimBoard) ServoAngle(ch uint8) uint8 {
	return b.servos[ch].angle
}

// ServoMoving reports whether a servo channel has an uncancelled move.
func (b *SimBoard) ServoMoving(ch uint8) bool {
	return b.servos[ch].moving
}

// PinLevel returns the mirrored level of a digital pin.
func (b *SimBoard) PinLevel(pin uint8) bool {
	return b.pins[pin]
}

// Duty returns the mirrored PWM duty cycle.
func (b *SimBoard) Duty() uint8 {
	return b.duty
}
