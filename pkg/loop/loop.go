// Package loop drives the device core: poll one byte, accumulate it
// into a frame, parse on frame completion, dispatch, forever.
package loop

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/sulami/mechanical-crab/pkg/command"
	"github.com/sulami/mechanical-crab/pkg/dispatch"
	"github.com/sulami/mechanical-crab/pkg/frame"
	"github.com/sulami/mechanical-crab/pkg/uart"
)

// CodeOverflow is the diagnostic code for an overlong frame.
const CodeOverflow = "OVERFLOW"

// State identifies where the loop is within one command cycle.
type State int

const (
	// StateAwaitByte means the loop is collecting frame bytes.
	StateAwaitByte State = iota
	// StateFrameComplete means a full frame is being parsed.
	StateFrameComplete
	// StateDispatched means a parsed command is being applied.
	StateDispatched
)

// EventSink observes loop outcomes. Implementations must not block.
type EventSink interface {
	Event(kind, detail string)
}

// Loop is the single execution context of the device. All state it
// touches (the frame buffer, the actuator mirror behind the dispatcher)
// is owned by it exclusively; there is no concurrent mutation and no
// locking. Every step runs to completion without blocking: waiting for
// input is expressed as returning to the top of the loop.
type Loop struct {
	// PollInterval is slept after an idle poll so a source without its
	// own read timeout does not spin the CPU.
	PollInterval time.Duration
	// Sink, when set, receives dispatch outcomes and recoverable errors.
	Sink EventSink

	source     uart.ByteSource
	out        io.Writer
	dispatcher *dispatch.Dispatcher
	acc        frame.Accumulator
	state      State
}

// New creates a Loop reading from source, dispatching through d, and
// writing diagnostics to out (the transmit side of the same interface).
func New(source uart.ByteSource, out io.Writer, d *dispatch.Dispatcher) *Loop {
	return &Loop{
		PollInterval: time.Millisecond,
		source:       source,
		out:          out,
		dispatcher:   d,
	}
}

// State returns the loop state. Steps run to completion, so between
// steps this is always StateAwaitByte; the intermediate states exist
// within one Step.
func (l *Loop) State() State {
	return l.state
}

// Step makes one unit of forward progress: it consumes at most one byte
// and, when that byte completes a frame, parses and dispatches the
// whole command before returning. It reports false when no byte was
// available this cycle.
func (l *Loop) Step() bool {
	b, ok := l.source.Poll()
	if !ok {
		return false
	}
	switch l.acc.Push(b) {
	case frame.Incomplete:
	case frame.Overflow:
		glog.V(2).Info("frame overflow, discarded")
		dispatch.WriteLine(l.out, "ERR "+CodeOverflow)
		l.emit("error", CodeOverflow)
	case frame.Complete:
		l.state = StateFrameComplete
		l.finishFrame()
		l.state = StateAwaitByte
	}
	return true
}

func (l *Loop) finishFrame() {
	raw := l.acc.Frame()
	cmd, perr := command.Parse(raw)
	if perr != nil {
		glog.V(2).Infof("parse %q: %v", raw, perr)
		dispatch.WriteLine(l.out, "ERR "+perr.Code.String())
		l.emit("error", perr.Code.String())
		return
	}
	l.state = StateDispatched
	oc := l.dispatcher.Dispatch(&cmd)
	if oc.Applied {
		glog.V(3).Infof("applied %s", &cmd)
		l.emit("applied", cmd.String())
	} else {
		glog.V(2).Infof("rejected %s: %s", &cmd, oc.Code)
		l.emit("rejected", oc.Code)
	}
}

func (l *Loop) emit(kind, detail string) {
	if l.Sink != nil {
		l.Sink.Event(kind, detail)
	}
}

// Run implements Runnable, stepping until the context is canceled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !l.Step() && l.PollInterval > 0 {
			time.Sleep(l.PollInterval)
		}
	}
}
