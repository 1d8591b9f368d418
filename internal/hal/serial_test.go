//go:build !tinygo

package hal

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeBridge answers bridge protocol lines on the far end of a pipe.
type fakeBridge struct {
	// conn is the bridge side of the pipe.
	conn net.Conn
	// inputs holds the levels returned for R commands.
	inputs map[string]string
	// reject makes every command fail with ERR.
	reject bool
	// received collects every command line.
	received []string
	// mu protects received.
	mu sync.Mutex
}

// serve reads command lines until the pipe closes.
func (f *fakeBridge) serve() {
	scanner := bufio.NewScanner(f.conn)
	for scanner.Scan() {
		line := scanner.Text()

		f.mu.Lock()
		f.received = append(f.received, line)
		f.mu.Unlock()

		reply := "OK"

		switch {
		case f.reject:
			reply = "ERR busy"
		case strings.HasPrefix(line, "R "):
			reply = f.inputs[strings.TrimPrefix(line, "R ")]
		}

		if _, err := f.conn.Write([]byte(reply + "\n")); err != nil {
			return
		}
	}
}

// commands returns a copy of the received command lines.
func (f *fakeBridge) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.received...)
}

// newBridgePair connects a SerialBoard to a fake bridge.
func newBridgePair(t *testing.T, bridge *fakeBridge) *SerialBoard {
	t.Helper()

	hostSide, bridgeSide := net.Pipe()
	bridge.conn = bridgeSide

	go bridge.serve()

	board := NewSerialBoard(hostSide)

	t.Cleanup(func() {
		_ = board.Close()
		_ = bridgeSide.Close()
	})

	return board
}

// TestSerialBoard_Commands verifies the line protocol spoken to the bridge.
func TestSerialBoard_Commands(t *testing.T) {
	t.Parallel()

	bridge := &fakeBridge{inputs: map[string]string{"PC0": "0", "PC1": "1"}}
	board := newBridgePair(t, bridge)

	require.NoError(t, board.ConfigureDirection(PC(0), Input))
	require.NoError(t, board.EnablePullup(PC(0)))
	require.NoError(t, board.ConfigureDirection(PC(5), Output))
	require.NoError(t, board.SetOutput(PC(5), High))
	require.NoError(t, board.EnableInterrupts())

	level, err := board.ReadInput(PC(0))
	require.NoError(t, err)
	require.Equal(t, Low, level)

	level, err = board.ReadInput(PC(1))
	require.NoError(t, err)
	require.Equal(t, High, level)

	require.Equal(t, []string{
		"D PC0 IN",
		"U PC0",
		"D PC5 OUT",
		"W PC5 1",
		"I",
		"R PC0",
		"R PC1",
	}, bridge.commands())
}

// TestSerialBoard_Errors verifies ERR replies and malformed replies are surfaced.
func TestSerialBoard_Errors(t *testing.T) {
	t.Parallel()

	rejecting := newBridgePair(t, &fakeBridge{reject: true})
	require.ErrorIs(t, rejecting.SetOutput(PB(0), High), ErrBridge)

	garbled := newBridgePair(t, &fakeBridge{inputs: map[string]string{"PC0": "maybe"}})

	_, err := garbled.ReadInput(PC(0))
	require.ErrorIs(t, err, ErrUnexpectedReply)
}

// TestSerialBoard_Close verifies the board refuses work after Close.
func TestSerialBoard_Close(t *testing.T) {
	t.Parallel()

	board := newBridgePair(t, &fakeBridge{})

	require.NoError(t, board.Close())
	require.NoError(t, board.Close())
	require.ErrorIs(t, board.EnableInterrupts(), ErrBoardClosed)
}

// lateLine is a serial line whose replies arrive only when queued; an empty
// queue reads zero bytes, the way a port with a read timeout does.
type lateLine struct {
	// written collects every byte sent to the bridge.
	written strings.Builder
	// replies holds bytes the bridge has sent.
	replies strings.Builder
	// mu protects both buffers.
	mu sync.Mutex
}

// Read returns queued reply bytes, or nothing.
func (l *lateLine) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pending := l.replies.String()
	n := copy(p, pending)

	l.replies.Reset()
	l.replies.WriteString(pending[n:])

	return n, nil
}

// Write records the request.
func (l *lateLine) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.written.Write(p)
}

// Close does nothing.
func (l *lateLine) Close() error { return nil }

// reply queues a reply line.
func (l *lateLine) reply(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.replies.WriteString(line + "\n")
}

// sent returns everything written so far.
func (l *lateLine) sent() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.written.String()
}

// TestSerialBoard_TimeoutDesyncsTheBoard verifies a late reply can never be
// taken as the answer to the next request.
func TestSerialBoard_TimeoutDesyncsTheBoard(t *testing.T) {
	t.Parallel()

	line := new(lateLine)
	board := NewSerialBoard(line)

	_, err := board.ReadInput(PC(0))
	require.ErrorIs(t, err, ErrBridgeTimeout)

	// The answer to R PC0 shows up after the timeout.
	line.reply("0")

	_, err = board.ReadInput(PC(1))
	require.ErrorIs(t, err, ErrBridgeDesynced)
	require.ErrorIs(t, board.SetOutput(PC(5), High), ErrBridgeDesynced)
	require.Equal(t, "R PC0\n", line.sent())

	require.NoError(t, board.Close())
	require.ErrorIs(t, board.EnableInterrupts(), ErrBoardClosed)
}
