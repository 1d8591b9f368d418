package hal

import (
	"errors"
	"time"
)

var (
	// ErrInvalidPin is returned for pin names or numbers the board does not have.
	ErrInvalidPin = errors.New("invalid pin")
	// ErrNotConfigured is returned when a pin is used before its direction was set.
	ErrNotConfigured = errors.New("pin direction not configured")
	// ErrWrongDirection is returned when writing an input or reading an output.
	ErrWrongDirection = errors.New("pin used against its direction")
)

// Board is the set of GPIO primitives the thermostat loop depends on.
type Board interface {
	// ConfigureDirection sets the pin as input or output.
	ConfigureDirection(pin Pin, dir Direction) error
	// EnablePullup turns on the internal pull-up of an input pin,
	// so an open button reads High.
	EnablePullup(pin Pin) error
	// SetOutput drives an output pin.
	SetOutput(pin Pin, level Level) error
	// ReadInput samples an input pin.
	ReadInput(pin Pin) (Level, error)
	// EnableInterrupts sets the global interrupt flag.
	EnableInterrupts() error
}

// Clock is the time source used for debounce and multiplex delays.
type Clock interface {
	// Now returns the time elapsed since the clock started.
	Now() time.Duration
	// Sleep blocks (or pretends to) for d.
	Sleep(d time.Duration)
}
