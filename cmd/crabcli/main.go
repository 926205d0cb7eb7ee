package main

//go-build: CGO_ENABLED=0

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/sulami/mechanical-crab/pkg/command"
	"github.com/sulami/mechanical-crab/pkg/frame"
	"github.com/sulami/mechanical-crab/pkg/uart"
)

var (
	serialDev    string
	serialBaud   = uart.DefaultBaud
	replyTimeout = time.Second
)

func init() {
	flag.StringVar(&serialDev, "serial", serialDev, "Serial device of the board (e.g. /dev/ttyUSB0).")
	flag.IntVar(&serialBaud, "baud", serialBaud, "Serial baud rate.")
	flag.DurationVar(&replyTimeout, "timeout", replyTimeout, "Time to wait for a reply line.")
}

// session holds the open port and performs line transactions.
type session struct {
	port *uart.Port
}

// transact sends one command line and waits for the reply line.
func (s *session) transact(line []byte) (string, error) {
	if _, err := s.port.Write(append(line, frame.Terminator)); err != nil {
		return "", err
	}
	var reply []byte
	deadline := time.Now().Add(replyTimeout)
	for time.Now().Before(deadline) {
		b, ok := s.port.Poll()
		if !ok {
			continue
		}
		if b == frame.Terminator {
			return string(reply), nil
		}
		reply = append(reply, b)
	}
	return "", errors.New("timed out waiting for reply")
}

func (s *session) send(c *ishell.Context, cmd *command.Command) {
	reply, err := s.transact(cmd.AppendText(nil))
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(reply)
}

func arg(c *ishell.Context, i, max int) (uint8, bool) {
	if i >= len(c.Args) {
		c.Err(fmt.Errorf("missing argument %d", i+1))
		return 0, false
	}
	v, err := strconv.Atoi(c.Args[i])
	if err != nil || v < 0 || v > max {
		c.Err(fmt.Errorf("argument %q out of range 0-%d", c.Args[i], max))
		return 0, false
	}
	return uint8(v), true
}

func main() {
	flag.Parse()
	if serialDev == "" {
		log.Fatalln("-serial is required")
	}
	port, err := uart.OpenPort(uart.PortConfig{Device: serialDev, Baud: serialBaud})
	if err != nil {
		log.Fatalln(err)
	}
	defer port.Close()
	s := &session{port: port}

	shell := ishell.New()
	shell.Println("mechanical-crab console, type help for commands")
	shell.SetPrompt(serialDev + " > ")

	shell.AddCmd(&ishell.Cmd{
		Name: "ping",
		Help: "check the board is alive",
		Func: func(c *ishell.Context) {
			s.send(c, &command.Command{Kind: command.Ping})
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "led",
		Help: "led on|off",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 || (c.Args[0] != "on" && c.Args[0] != "off") {
				c.Err(errors.New("usage: led on|off"))
				return
			}
			s.send(c, &command.Command{Kind: command.Led, On: c.Args[0] == "on"})
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "get",
		Help: "get <pin>: read a digital pin",
		Func: func(c *ishell.Context) {
			pin, ok := arg(c, 0, command.MaxPin)
			if !ok {
				return
			}
			s.send(c, &command.Command{Kind: command.Get, Pin: pin})
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "set",
		Help: "set <pin> high|low: drive a digital pin",
		Func: func(c *ishell.Context) {
			pin, ok := arg(c, 0, command.MaxPin)
			if !ok {
				return
			}
			if len(c.Args) != 2 || (c.Args[1] != "high" && c.Args[1] != "low") {
				c.Err(errors.New("usage: set <pin> high|low"))
				return
			}
			s.send(c, &command.Command{Kind: command.Set, Pin: pin, Level: c.Args[1] == "high"})
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "pwm",
		Help: "pwm <0-255>: set the PWM duty cycle",
		Func: func(c *ishell.Context) {
			duty, ok := arg(c, 0, command.MaxDuty)
			if !ok {
				return
			}
			s.send(c, &command.Command{Kind: command.Pwm, Duty: duty})
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "adc",
		Help: "adc <0-5>: read an analog pin",
		Func: func(c *ishell.Context) {
			pin, ok := arg(c, 0, command.MaxAdcPin)
			if !ok {
				return
			}
			s.send(c, &command.Command{Kind: command.Adc, Pin: pin})
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "temp",
		Help: "read the temperature sensor",
		Func: func(c *ishell.Context) {
			s.send(c, &command.Command{Kind: command.Temp})
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "move",
		Help: "move <ch> <angle> [<ch> <angle>...]: position servos",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 || len(c.Args)%2 != 0 || len(c.Args)/2 > command.MaxMoveTargets {
				c.Err(fmt.Errorf("usage: move <ch> <angle>, up to %d pairs", command.MaxMoveTargets))
				return
			}
			cmd := command.Command{Kind: command.Move}
			for i := 0; i < len(c.Args); i += 2 {
				ch, ok := arg(c, i, command.MaxChannel)
				if !ok {
					return
				}
				angle, ok := arg(c, i+1, command.MaxAngle)
				if !ok {
					return
				}
				cmd.Targets[cmd.NumTargets] = command.MoveTarget{Channel: ch, Angle: angle}
				cmd.NumTargets++
			}
			s.send(c, &cmd)
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "stop",
		Help: "stop <ch>: halt a servo channel",
		Func: func(c *ishell.Context) {
			ch, ok := arg(c, 0, command.MaxChannel)
			if !ok {
				return
			}
			s.send(c, &command.Command{Kind: command.Stop, Channel: ch})
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "raw",
		Help: "raw <line>: send a raw protocol line",
		Func: func(c *ishell.Context) {
			reply, err := s.transact([]byte(strings.Join(c.Args, " ")))
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(reply)
		},
	})

	shell.Run()
}
