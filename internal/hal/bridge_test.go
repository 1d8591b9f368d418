//go:build !tinygo

package hal

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newEmulatedBridge connects a SerialBoard to ServeBridge running over a simulator.
func newEmulatedBridge(t *testing.T) (*SerialBoard, *Simulator, *VirtualClock) {
	t.Helper()

	clock := NewVirtualClock()
	sim := NewSimulator(clock)

	hostSide, bridgeSide := net.Pipe()
	served := make(chan error, 1)

	go func() {
		served <- ServeBridge(bridgeSide, sim)
	}()

	board := NewSerialBoard(hostSide)

	t.Cleanup(func() {
		require.NoError(t, board.Close())
		require.NoError(t, <-served)
		_ = bridgeSide.Close()
	})

	return board, sim, clock
}

// TestServeBridge_ForwardsToBoard verifies every command reaches the board behind the bridge.
func TestServeBridge_ForwardsToBoard(t *testing.T) {
	t.Parallel()

	board, sim, clock := newEmulatedBridge(t)

	require.NoError(t, board.ConfigureDirection(PC(0), Input))
	require.NoError(t, board.EnablePullup(PC(0)))
	require.NoError(t, board.ConfigureDirection(PC(5), Output))
	require.NoError(t, board.SetOutput(PC(5), High))
	require.NoError(t, board.EnableInterrupts())

	dir, ok := sim.Direction(PC(0))
	require.True(t, ok)
	require.Equal(t, Input, dir)
	require.True(t, sim.PullupEnabled(PC(0)))
	require.Equal(t, High, sim.Output(PC(5)))
	require.True(t, sim.InterruptsEnabled())

	level, err := board.ReadInput(PC(0))
	require.NoError(t, err)
	require.Equal(t, High, level)

	sim.Press(PC(0), 10*time.Millisecond)

	level, err = board.ReadInput(PC(0))
	require.NoError(t, err)
	require.Equal(t, Low, level)

	clock.Sleep(10 * time.Millisecond)

	level, err = board.ReadInput(PC(0))
	require.NoError(t, err)
	require.Equal(t, High, level)
}

// TestServeBridge_BoardErrors verifies board failures travel back as ERR replies.
func TestServeBridge_BoardErrors(t *testing.T) {
	t.Parallel()

	board, _, _ := newEmulatedBridge(t)

	_, err := board.ReadInput(PB(1))
	require.ErrorIs(t, err, ErrBridge)
	require.Contains(t, err.Error(), ErrNotConfigured.Error())

	require.NoError(t, board.ConfigureDirection(PB(1), Input))
	require.ErrorIs(t, board.SetOutput(PB(1), High), ErrBridge)
}

// TestServeBridge_MalformedLines verifies garbage gets an ERR reply and the session continues.
func TestServeBridge_MalformedLines(t *testing.T) {
	t.Parallel()

	sim := NewSimulator(NewVirtualClock())
	hostSide, bridgeSide := net.Pipe()

	go func() {
		_ = ServeBridge(bridgeSide, sim)
	}()

	t.Cleanup(func() {
		_ = hostSide.Close()
		_ = bridgeSide.Close()
	})

	replies := bufio.NewReader(hostSide)

	for _, line := range []string{"X", "D PZ9 IN", "D PB0 SIDEWAYS", "W PB0 2", "R"} {
		_, err := hostSide.Write([]byte(line + "\n"))
		require.NoError(t, err)

		reply, err := replies.ReadString('\n')
		require.NoError(t, err)
		require.Regexp(t, "^ERR ", reply, line)
	}

	_, err := hostSide.Write([]byte("I\n"))
	require.NoError(t, err)

	reply, err := replies.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "OK\n", reply)
}
