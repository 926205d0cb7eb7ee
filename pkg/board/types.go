// Package board models the actuator side of the device: the hardware
// topology, the actions applied to it, and the non-blocking actuator
// interface consumed by the dispatcher.
package board

import "fmt"

// ActionKind identifies a hardware effect.
type ActionKind int

const (
	// SetPosition moves a servo channel to an angle in degrees.
	SetPosition ActionKind = iota
	// StopChannel halts a servo channel.
	StopChannel
	// SetLevel drives a digital pin high (1) or low (0).
	SetLevel
	// SetDuty sets the PWM output duty cycle.
	SetDuty
)

var actionNames = [...]string{"set-position", "stop", "set-level", "set-duty"}

func (k ActionKind) String() string {
	if int(k) < len(actionNames) {
		return actionNames[k]
	}
	return "unknown"
}

// Action is a single hardware effect addressed to one channel. Actions
// are only ever constructed by the dispatcher from a validated command.
type Action struct {
	Kind    ActionKind
	Channel uint8
	Value   uint16
}

func (a Action) String() string {
	return fmt.Sprintf("%s ch=%d value=%d", a.Kind, a.Channel, a.Value)
}

// Fault reports a hardware failure applying one action. It is fatal for
// that action only; the control loop keeps serving commands.
type Fault struct {
	Action Action
	Reason string
}

// Error implements error.
func (f *Fault) Error() string {
	return fmt.Sprintf("hardware fault on %s: %s", f.Action, f.Reason)
}

// Board is the actuator interface consumed by the dispatcher. Apply and
// the reads return immediately; Apply does not wait for physical
// completion.
type Board interface {
	// Apply performs one hardware effect. A returned error is a *Fault.
	Apply(Action) error
	// ReadPin samples a digital pin.
	ReadPin(pin uint8) (high bool, err error)
	// ReadAnalog samples an analog pin, 10-bit.
	ReadAnalog(pin uint8) (uint16, error)
	// ReadTemperature samples the on-chip temperature sensor (raw ADC).
	ReadTemperature() uint16
}
