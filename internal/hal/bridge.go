//go:build !tinygo

package hal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// errMalformedCommand is reported to the peer for lines it cannot parse.
var errMalformedCommand = errors.New("malformed command")

// ServeBridge answers the GPIO bridge line protocol on conn by forwarding
// each command to b. It is the far end of a SerialBoard and returns when
// conn reaches EOF.
//
// Board errors are sent back as "ERR <reason>"; only transport errors end
// the session.
func ServeBridge(conn io.ReadWriter, b Board) error {
	scanner := bufio.NewScanner(conn)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		reply, err := execBridgeCommand(b, line)
		if err != nil {
			reply = replyErrPrefix + " " + err.Error()
		}

		if _, err = io.WriteString(conn, reply+"\n"); err != nil {
			return fmt.Errorf("write bridge reply: %w", err)
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		return fmt.Errorf("read bridge command: %w", err)
	}

	return nil
}

// execBridgeCommand runs one command line against b.
func execBridgeCommand(b Board, line string) (string, error) {
	fields := strings.Fields(line)

	switch {
	case fields[0] == "I" && len(fields) == 1:
		return replyOK, b.EnableInterrupts()
	case len(fields) < 2:
		return "", fmt.Errorf("%w: %q", errMalformedCommand, line)
	}

	pin, err := ParsePin(fields[1])
	if err != nil {
		return "", err
	}

	switch {
	case fields[0] == "D" && len(fields) == 3:
		dir, dirErr := parseDirection(fields[2])
		if dirErr != nil {
			return "", dirErr
		}

		return replyOK, b.ConfigureDirection(pin, dir)
	case fields[0] == "U" && len(fields) == 2:
		return replyOK, b.EnablePullup(pin)
	case fields[0] == "W" && len(fields) == 3 && (fields[2] == "0" || fields[2] == "1"):
		return replyOK, b.SetOutput(pin, Level(fields[2] == "1"))
	case fields[0] == "R" && len(fields) == 2:
		level, readErr := b.ReadInput(pin)
		if readErr != nil {
			return "", readErr
		}

		return level.String(), nil
	default:
		return "", fmt.Errorf("%w: %q", errMalformedCommand, line)
	}
}

// parseDirection is the inverse of Direction.String.
func parseDirection(s string) (Direction, error) {
	switch s {
	case Input.String():
		return Input, nil
	case Output.String():
		return Output, nil
	default:
		return Input, fmt.Errorf("%w: direction %q", errMalformedCommand, s)
	}
}

// ParsePin parses a datasheet pin name such as "PD7".
func ParsePin(s string) (Pin, error) {
	if len(s) != 3 || s[0] != 'P' || s[2] < '0' || s[2] > '7' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPin, s)
	}

	bit := s[2] - '0'

	switch s[1] {
	case 'B':
		return PB(bit), nil
	case 'C':
		return PC(bit), nil
	case 'D':
		return PD(bit), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPin, s)
	}
}
