// Package dispatch turns parsed commands into actuator actions and
// writes protocol responses back to the host.
package dispatch

import (
	"fmt"
	"io"

	"github.com/golang/glog"

	"github.com/sulami/mechanical-crab/pkg/board"
	"github.com/sulami/mechanical-crab/pkg/command"
)

// Diagnostic codes for failures past the parse stage.
const (
	// CodeTarget marks a grammar-valid command addressed to a channel
	// this board does not have.
	CodeTarget = "TARGET"
	// CodeFault marks a hardware failure applying an action.
	CodeFault = "FAULT"
)

// Outcome reports how one command was handled.
type Outcome struct {
	Applied bool
	// Code is the diagnostic code when the command was not applied.
	Code string
}

func applied() Outcome             { return Outcome{Applied: true} }
func rejected(code string) Outcome { return Outcome{Code: code} }

// Dispatcher maps commands to ordered actuator actions and applies them
// through the board interface. It is the sole producer of actions.
// Query commands produce a response on the transmit side instead.
type Dispatcher struct {
	board board.Board
	topo  *board.Topology
	out   io.Writer
}

// New creates a Dispatcher writing responses to out.
func New(b board.Board, topo *board.Topology, out io.Writer) *Dispatcher {
	return &Dispatcher{board: b, topo: topo, out: out}
}

// Dispatch handles one parsed command. Target validation happens before
// any action is applied, so a rejected command has no hardware effect.
// A hardware fault is fatal for that action only.
func (d *Dispatcher) Dispatch(cmd *command.Command) Outcome {
	switch cmd.Kind {
	case command.Ping:
		d.respond("PONG")
		return applied()
	case command.Help:
		d.respond(command.HelpText)
		return applied()
	case command.Temp:
		d.respond(fmt.Sprintf("TEMP 0x%04X", d.board.ReadTemperature()))
		return applied()
	case command.Led:
		return d.apply(board.Action{Kind: board.SetLevel, Channel: d.topo.LedPin, Value: level(cmd.On)})
	case command.Get:
		if !d.topo.HasDigital(cmd.Pin) {
			return d.reject(CodeTarget)
		}
		high, err := d.board.ReadPin(cmd.Pin)
		if err != nil {
			return d.fault(err)
		}
		d.respond(fmt.Sprintf("D%d %s", cmd.Pin, levelName(high)))
		return applied()
	case command.Set:
		if !d.topo.HasDigital(cmd.Pin) {
			return d.reject(CodeTarget)
		}
		return d.apply(board.Action{Kind: board.SetLevel, Channel: cmd.Pin, Value: level(cmd.Level)})
	case command.Pwm:
		return d.apply(board.Action{Kind: board.SetDuty, Channel: d.topo.PwmPin, Value: uint16(cmd.Duty)})
	case command.Adc:
		if !d.topo.HasAnalog(cmd.Pin) {
			return d.reject(CodeTarget)
		}
		v, err := d.board.ReadAnalog(cmd.Pin)
		if err != nil {
			return d.fault(err)
		}
		d.respond(fmt.Sprintf("A%d %d", cmd.Pin, v))
		return applied()
	case command.Move:
		for i := 0; i < cmd.NumTargets; i++ {
			if !d.topo.HasServo(cmd.Targets[i].Channel) {
				return d.reject(CodeTarget)
			}
		}
		var faulted bool
		for i := 0; i < cmd.NumTargets; i++ {
			t := cmd.Targets[i]
			a := board.Action{Kind: board.SetPosition, Channel: t.Channel, Value: uint16(t.Angle)}
			if err := d.board.Apply(a); err != nil {
				glog.Errorf("apply %s: %v", a, err)
				faulted = true
			}
		}
		if faulted {
			d.respond("ERR " + CodeFault)
			return rejected(CodeFault)
		}
		d.respond("OK")
		return applied()
	case command.Stop:
		if !d.topo.HasServo(cmd.Channel) {
			return d.reject(CodeTarget)
		}
		return d.apply(board.Action{Kind: board.StopChannel, Channel: cmd.Channel})
	}
	return d.reject(CodeTarget)
}

func (d *Dispatcher) apply(a board.Action) Outcome {
	if err := d.board.Apply(a); err != nil {
		return d.fault(err)
	}
	d.respond("OK")
	return applied()
}

func (d *Dispatcher) reject(code string) Outcome {
	d.respond("ERR " + code)
	return rejected(code)
}

func (d *Dispatcher) fault(err error) Outcome {
	glog.Errorf("hardware fault: %v", err)
	d.respond("ERR " + CodeFault)
	return rejected(CodeFault)
}

func (d *Dispatcher) respond(line string) {
	WriteLine(d.out, line)
}

// WriteLine writes one terminated response line. Transmit failures are
// logged, not propagated; the command stream keeps flowing.
func WriteLine(w io.Writer, line string) {
	if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
		glog.Errorf("transmit %q: %v", line, err)
	}
}

func level(high bool) uint16 {
	if high {
		return 1
	}
	return 0
}

func levelName(high bool) string {
	if high {
		return "HIGH"
	}
	return "LOW"
}
