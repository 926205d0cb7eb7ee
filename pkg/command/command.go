package command

import "strconv"

// Kind identifies a command variant.
type Kind int

const (
	// Ping requests a liveness reply.
	Ping Kind = iota
	// Help requests the command summary.
	Help
	// Led switches the built-in LED.
	Led
	// Get reads a digital pin.
	Get
	// Set drives a digital pin.
	Set
	// Pwm sets the PWM output duty cycle.
	Pwm
	// Adc reads an analog pin.
	Adc
	// Temp reads the temperature sensor.
	Temp
	// Move positions one or more servo channels.
	Move
	// Stop halts a servo channel.
	Stop
)

// Argument bounds enforced at parse time.
const (
	// MaxPin bounds the digital pin grammar. Which pins actually exist
	// is a board topology question, checked at dispatch time.
	MaxPin = 99
	// MaxAdcPin bounds the analog pin argument.
	MaxAdcPin = 5
	// MaxDuty bounds the PWM duty cycle argument.
	MaxDuty = 255
	// MaxAngle bounds a servo position in degrees.
	MaxAngle = 180
	// MaxChannel bounds the servo channel grammar.
	MaxChannel = 9
	// MaxMoveTargets is the most channel,angle pairs one MOVE may carry.
	MaxMoveTargets = 4
)

// MoveTarget is one channel,angle pair of a MOVE command.
type MoveTarget struct {
	Channel uint8
	Angle   uint8
}

// Command is a parsed, validated command. It only exists if every field
// passed range validation; all fields are fixed-size.
type Command struct {
	Kind Kind

	On      bool // Led
	Pin     uint8
	Level   bool // Set: true is HIGH
	Duty    uint8
	Channel uint8 // Stop

	Targets    [MaxMoveTargets]MoveTarget
	NumTargets int
}

// HelpText summarizes the protocol, returned in response to HELP.
const HelpText = "commands: PING, HELP, LED ON|OFF, GET <pin>, SET <pin>,HIGH|LOW, " +
	"PWM <0-255>, ADC <0-5>, TEMP, MOVE <ch>,<0-180>[,...], STOP <ch>"

// AppendText appends the canonical textual form of the command, without
// the frame terminator. Parsing the result yields an equal Command.
func (c *Command) AppendText(dst []byte) []byte {
	switch c.Kind {
	case Ping:
		dst = append(dst, "PING"...)
	case Help:
		dst = append(dst, "HELP"...)
	case Led:
		dst = append(dst, "LED "...)
		if c.On {
			dst = append(dst, "ON"...)
		} else {
			dst = append(dst, "OFF"...)
		}
	case Get:
		dst = append(dst, "GET "...)
		dst = strconv.AppendUint(dst, uint64(c.Pin), 10)
	case Set:
		dst = append(dst, "SET "...)
		dst = strconv.AppendUint(dst, uint64(c.Pin), 10)
		if c.Level {
			dst = append(dst, ",HIGH"...)
		} else {
			dst = append(dst, ",LOW"...)
		}
	case Pwm:
		dst = append(dst, "PWM "...)
		dst = strconv.AppendUint(dst, uint64(c.Duty), 10)
	case Adc:
		dst = append(dst, "ADC "...)
		dst = strconv.AppendUint(dst, uint64(c.Pin), 10)
	case Temp:
		dst = append(dst, "TEMP"...)
	case Move:
		dst = append(dst, "MOVE "...)
		for i := 0; i < c.NumTargets; i++ {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = strconv.AppendUint(dst, uint64(c.Targets[i].Channel), 10)
			dst = append(dst, ',')
			dst = strconv.AppendUint(dst, uint64(c.Targets[i].Angle), 10)
		}
	case Stop:
		dst = append(dst, "STOP "...)
		dst = strconv.AppendUint(dst, uint64(c.Channel), 10)
	}
	return dst
}

// String returns the canonical textual form.
func (c *Command) String() string {
	return string(c.AppendText(nil))
}
