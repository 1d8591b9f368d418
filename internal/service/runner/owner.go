package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/thermostat-panel/internal/logger"
)

// ErrBoardBusy is returned when another thermostat process already drives the serial port.
var ErrBoardBusy = errors.New("serial port is owned by another thermostat process")

// claimFilePermissions is the permission of the port claim files.
const claimFilePermissions = 0o600

// portClaims records which process drives which serial port.
// A claim is a file holding the owner pid; it is honoured only while a
// process with that pid and our executable name is alive, so claims left
// by a crash are taken over.
type portClaims struct {
	// dir holds the claim files.
	dir string
	// name is our executable name.
	name string
	// self is our pid.
	self int
	// find looks a process up by pid; nil means it does not exist.
	find func(pid int) (ps.Process, error)
}

// newPortClaims returns claims stored in the OS temp directory for this process.
func newPortClaims() (*portClaims, error) {
	executable, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}

	return &portClaims{
		dir:  os.TempDir(),
		name: filepath.Base(executable),
		self: os.Getpid(),
		find: ps.FindProcess,
	}, nil
}

// claim makes this process the owner of port and returns the release func.
// Other thermostat processes (a simulator session, a port listing, a loop
// on another port) do not block it.
func (c *portClaims) claim(ctx context.Context, port string) (func(), error) {
	path := c.path(port)

	owner, err := c.owner(path)
	if err != nil {
		return nil, err
	}

	if owner != 0 {
		logger.ErrorKV(ctx, "Serial port already in use", "port", port, "pid", owner)

		return nil, fmt.Errorf("%w: %s by pid %d", ErrBoardBusy, port, owner)
	}

	if err = os.WriteFile(path, []byte(strconv.Itoa(c.self)), claimFilePermissions); err != nil {
		return nil, fmt.Errorf("write port claim: %w", err)
	}

	return func() {
		if current, _ := c.owner(path); current == 0 {
			_ = os.Remove(path)
		}
	}, nil
}

// owner returns the pid of another live thermostat process holding the
// claim at path, or 0.
func (c *portClaims) owner(path string) (int, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("read port claim: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(contents)))
	if err != nil || pid == c.self {
		return 0, nil //nolint:nilerr // A garbled claim is stale.
	}

	process, err := c.find(pid)
	if err != nil {
		return 0, fmt.Errorf("look up pid %d: %w", pid, err)
	}

	if process == nil || !sameExecutable(process.Executable(), c.name) {
		return 0, nil
	}

	return pid, nil
}

// path maps a port name to its claim file.
func (c *portClaims) path(port string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, port)

	return filepath.Join(c.dir, "thermostat-"+safe+".pid")
}

// sameExecutable compares process names ignoring the Windows extension and case.
func sameExecutable(a, b string) bool {
	trim := func(s string) string {
		return strings.TrimSuffix(strings.ToLower(s), ".exe")
	}

	return trim(a) == trim(b)
}
