package frame

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func push(t *testing.T, a *Accumulator, in []byte, expect ...Status) {
	t.Helper()
	for i, b := range in {
		st := a.Push(b)
		if i < len(expect) {
			require.Equal(t, expect[i], st, "byte %d (%q)", i, b)
		} else {
			require.Equal(t, Incomplete, st, "byte %d (%q)", i, b)
		}
	}
}

func TestAccumulator(t *testing.T) {
	var a Accumulator

	push(t, &a, []byte("PING"))
	require.Equal(t, Complete, a.Push(Terminator))
	require.Equal(t, []byte("PING"), a.Frame())

	// next push starts a fresh frame
	push(t, &a, []byte("STOP 1"))
	require.Equal(t, Complete, a.Push(Terminator))
	require.Equal(t, []byte("STOP 1"), a.Frame())
}

func TestAccumulatorEmptyFrame(t *testing.T) {
	var a Accumulator
	require.Equal(t, Complete, a.Push(Terminator))
	require.Empty(t, a.Frame())
}

func TestAccumulatorOverflow(t *testing.T) {
	var a Accumulator

	// exactly Capacity bytes without a terminator overflows on the last one
	in := bytes.Repeat([]byte{'x'}, Capacity)
	for i, b := range in[:Capacity-1] {
		require.Equal(t, Incomplete, a.Push(b), "byte %d", i)
	}
	require.Equal(t, Overflow, a.Push(in[Capacity-1]))
	require.Zero(t, a.Len())

	// the accumulator recovers: a subsequent valid frame assembles normally
	push(t, &a, []byte("PING"))
	require.Equal(t, Complete, a.Push(Terminator))
	require.Equal(t, []byte("PING"), a.Frame())
}

func TestAccumulatorCapacityBoundary(t *testing.T) {
	var a Accumulator

	// Capacity-1 bytes plus terminator is the longest valid frame
	in := bytes.Repeat([]byte{'y'}, Capacity-1)
	push(t, &a, in)
	require.Equal(t, Complete, a.Push(Terminator))
	require.Equal(t, in, a.Frame())
}

func TestAccumulatorLongStream(t *testing.T) {
	var a Accumulator

	// 100 bytes with no terminator: overflow at byte Capacity, remainder of
	// the burst starts filling the next (doomed or valid) frame
	overflowed := 0
	for i := 0; i < 100; i++ {
		if a.Push('z') == Overflow {
			overflowed++
		}
	}
	require.Equal(t, 1, overflowed)
	require.Equal(t, 100-Capacity, a.Len())
}
