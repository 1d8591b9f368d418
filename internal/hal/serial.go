//go:build !tinygo

package hal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the line speed of the GPIO bridge firmware.
	DefaultBaudRate = 115200

	// replyOK acknowledges a command without payload.
	replyOK = "OK"
	// replyErrPrefix starts an error reply, followed by the reason.
	replyErrPrefix = "ERR"
)

var (
	// ErrBridge is returned when the bridge answers a command with ERR.
	ErrBridge = errors.New("bridge rejected command")
	// ErrUnexpectedReply is returned for replies that do not fit the command.
	ErrUnexpectedReply = errors.New("unexpected bridge reply")
	// ErrBridgeTimeout is returned when the bridge stays silent past the read timeout.
	ErrBridgeTimeout = errors.New("bridge did not reply")
	// ErrBoardClosed is returned when the board is used after Close.
	ErrBoardClosed = errors.New("board is closed")
	// ErrBridgeDesynced is returned for every request after a transport
	// failure, when a late reply could pair with the wrong request.
	ErrBridgeDesynced = errors.New("bridge replies out of step, reopen the port")
)

// PortInfo describes a serial port available on the host.
type PortInfo struct {
	// Name is the OS device name, e.g. /dev/ttyUSB0 or COM3.
	Name string
}

// Ports returns the serial ports present on the host.
func Ports() ([]PortInfo, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}

	result := make([]PortInfo, 0, len(names))
	for _, name := range names {
		result = append(result, PortInfo{Name: name})
	}

	return result, nil
}

// SerialBoard drives the panel pins through a GPIO bridge MCU.
//
// Every request is one text line and gets exactly one reply line:
//
//	D <pin> IN|OUT   -> OK
//	U <pin>          -> OK
//	W <pin> 0|1      -> OK
//	R <pin>          -> 0|1
//	I                -> OK
//
// Any command may be answered with "ERR <reason>".
type SerialBoard struct {
	// conn is the serial line (or any stream in tests).
	conn io.ReadWriteCloser
	// reader buffers reply lines from conn.
	reader *bufio.Reader
	// closed reports whether Close was called.
	closed bool
	// desynced reports whether a request failed mid round trip.
	desynced bool
	// mu serialises request/reply round trips.
	mu sync.Mutex
}

// Ensure SerialBoard implements Board.
var _ Board = (*SerialBoard)(nil)

// OpenSerial opens a serial port and wraps it as a board.
// A positive readTimeout bounds how long a reply may take.
func OpenSerial(portName string, baudRate int, readTimeout time.Duration) (*SerialBoard, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}

	port, err := serial.Open(portName, &serial.Mode{
		BaudRate: baudRate,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}

	if readTimeout > 0 {
		if err = port.SetReadTimeout(readTimeout); err != nil {
			_ = port.Close()

			return nil, fmt.Errorf("set read timeout on %s: %w", portName, err)
		}
	}

	return NewSerialBoard(port), nil
}

// NewSerialBoard wraps an already open stream.
func NewSerialBoard(conn io.ReadWriteCloser) *SerialBoard {
	return &SerialBoard{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}
}

// ConfigureDirection sets the pin direction on the bridge.
func (b *SerialBoard) ConfigureDirection(pin Pin, dir Direction) error {
	return b.expectOK(fmt.Sprintf("D %s %s", pin, dir))
}

// EnablePullup turns on the pull-up of an input pin on the bridge.
func (b *SerialBoard) EnablePullup(pin Pin) error {
	return b.expectOK("U " + pin.String())
}

// SetOutput drives an output pin on the bridge.
func (b *SerialBoard) SetOutput(pin Pin, level Level) error {
	return b.expectOK(fmt.Sprintf("W %s %s", pin, level))
}

// ReadInput samples an input pin on the bridge.
func (b *SerialBoard) ReadInput(pin Pin) (Level, error) {
	reply, err := b.roundTrip("R " + pin.String())
	if err != nil {
		return Low, err
	}

	switch reply {
	case "0":
		return Low, nil
	case "1":
		return High, nil
	default:
		return Low, fmt.Errorf("read %s: %w: %q", pin, ErrUnexpectedReply, reply)
	}
}

// EnableInterrupts asks the bridge to set its global interrupt flag.
func (b *SerialBoard) EnableInterrupts() error {
	return b.expectOK("I")
}

// Close releases the serial line.
func (b *SerialBoard) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}

	b.closed = true

	if err := b.conn.Close(); err != nil {
		return fmt.Errorf("close serial board: %w", err)
	}

	return nil
}

// expectOK sends a command whose only valid answer is OK.
func (b *SerialBoard) expectOK(command string) error {
	reply, err := b.roundTrip(command)
	if err != nil {
		return err
	}

	if reply != replyOK {
		return fmt.Errorf("%s: %w: %q", command, ErrUnexpectedReply, reply)
	}

	return nil
}

// roundTrip writes one command line and reads one reply line.
func (b *SerialBoard) roundTrip(command string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return "", ErrBoardClosed
	}

	if b.desynced {
		return "", fmt.Errorf("%s: %w", command, ErrBridgeDesynced)
	}

	if _, err := io.WriteString(b.conn, command+"\n"); err != nil {
		b.desynced = true

		return "", fmt.Errorf("send %q: %w", command, err)
	}

	line, err := b.reader.ReadString('\n')
	if err != nil {
		b.desynced = true

		// go.bug.st/serial reports a read timeout as a zero-byte read,
		// which bufio turns into io.ErrNoProgress.
		if errors.Is(err, io.ErrNoProgress) {
			return "", fmt.Errorf("%s: %w", command, ErrBridgeTimeout)
		}

		return "", fmt.Errorf("receive reply to %q: %w", command, err)
	}

	reply := strings.TrimSpace(line)

	if reason, ok := strings.CutPrefix(reply, replyErrPrefix); ok {
		return "", fmt.Errorf("%s: %w: %s", command, ErrBridge, strings.TrimSpace(reason))
	}

	return reply, nil
}
