package loop

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sulami/mechanical-crab/pkg/board"
	"github.com/sulami/mechanical-crab/pkg/dispatch"
	"github.com/sulami/mechanical-crab/pkg/frame"
	"github.com/sulami/mechanical-crab/pkg/uart"
)

type event struct {
	kind   string
	detail string
}

type sinkRecorder struct {
	events []event
}

func (s *sinkRecorder) Event(kind, detail string) {
	s.events = append(s.events, event{kind, detail})
}

// syncBuffer guards the output buffer so TestLoopRunCancel can read it
// while the loop goroutine writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

type fixture struct {
	pipe  *uart.Pipe
	board *board.SimBoard
	out   syncBuffer
	sink  sinkRecorder
	loop  *Loop
}

func newFixture() *fixture {
	f := &fixture{pipe: uart.NewPipe()}
	topo := board.DefaultTopology()
	f.board = board.NewSimBoard(topo)
	f.loop = New(f.pipe, &f.out, dispatch.New(f.board, topo, &f.out))
	f.loop.Sink = &f.sink
	return f
}

// feed queues input and steps the loop until it drains.
func (f *fixture) feed(in string) {
	f.pipe.FeedString(in)
	for f.loop.Step() {
	}
}

func TestLoopIdlePoll(t *testing.T) {
	f := newFixture()
	require.False(t, f.loop.Step(), "nothing buffered, no progress")
	require.Equal(t, StateAwaitByte, f.loop.State())
	require.Empty(t, f.out.String())
}

func TestLoopPing(t *testing.T) {
	f := newFixture()
	f.feed("PING\n")
	require.Equal(t, "PONG\n", f.out.String())
	require.Equal(t, []event{{"applied", "PING"}}, f.sink.events)
}

func TestLoopMove(t *testing.T) {
	f := newFixture()
	f.feed("MOVE 1,90\n")
	require.Equal(t, "OK\n", f.out.String())
	require.Equal(t, uint8(90), f.board.ServoAngle(1))
	require.Equal(t, []event{{"applied", "MOVE 1,90"}}, f.sink.events)
}

func TestLoopAngleOutOfRange(t *testing.T) {
	f := newFixture()
	f.feed("MOVE 1,999\n")
	require.Equal(t, "ERR RANGE\n", f.out.String())
	require.Zero(t, f.board.ServoAngle(1), "no actuator effect")
	require.Equal(t, []event{{"error", "RANGE"}}, f.sink.events)
}

func TestLoopUnknownVerb(t *testing.T) {
	f := newFixture()
	f.feed("FOO\n")
	require.Equal(t, "ERR VERB\n", f.out.String())
}

func TestLoopRejectedTarget(t *testing.T) {
	f := newFixture()
	f.feed("STOP 9\n")
	require.Equal(t, "ERR TARGET\n", f.out.String())
	require.Equal(t, []event{{"rejected", "TARGET"}}, f.sink.events)
}

func TestLoopOverflowRecovery(t *testing.T) {
	f := newFixture()

	// 100 bytes with no terminator: overflow fires once at capacity
	f.feed(strings.Repeat("x", 100))
	require.Equal(t, "ERR OVERFLOW\n", f.out.String())

	// the tail of the burst is garbage in the next frame; terminate it,
	// then a valid frame still parses correctly
	f.out.Reset()
	f.feed("\n")
	require.Equal(t, "ERR VERB\n", f.out.String())

	f.out.Reset()
	f.feed("PING\n")
	require.Equal(t, "PONG\n", f.out.String())
}

func TestLoopBackToBackFrames(t *testing.T) {
	f := newFixture()
	// a command is fully dispatched before the next frame's bytes are
	// accepted, so responses come out in arrival order
	f.feed("PING\nMOVE 0,10\nGET 7\n")
	require.Equal(t, "PONG\nOK\nD7 LOW\n", f.out.String())
	require.Equal(t, uint8(10), f.board.ServoAngle(0))
}

func TestLoopBoundaryFrame(t *testing.T) {
	f := newFixture()
	// capacity-1 bytes plus terminator parses normally
	line := "PING" + strings.Repeat(" ", frame.Capacity-1-len("PING"))
	f.feed(line + "\n")
	// the padding is trailing garbage, but the frame itself was accepted
	require.Equal(t, "ERR TRAIL\n", f.out.String())
}

func TestLoopRunCancel(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.loop.Run(ctx) }()
	f.pipe.FeedString("PING\n")

	require.Eventually(t, func() bool {
		return f.out.Len() > 0
	}, time.Second, time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	require.Equal(t, "PONG\n", f.out.String())
}
