//go:build tinygo && avr

package hal

import (
	"device/avr"
	"machine"
	"time"
)

// MachineBoard drives the AVR pins directly through TinyGo's machine package.
type MachineBoard struct{}

// Ensure MachineBoard implements Board.
var _ Board = MachineBoard{}

// NewMachineBoard returns the on-chip board.
func NewMachineBoard() MachineBoard {
	return MachineBoard{}
}

// ConfigureDirection sets the pin direction.
func (MachineBoard) ConfigureDirection(pin Pin, dir Direction) error {
	mode := machine.PinInput
	if dir == Output {
		mode = machine.PinOutput
	}

	machinePin(pin).Configure(machine.PinConfig{Mode: mode})

	return nil
}

// EnablePullup reconfigures an input pin with its pull-up on.
func (MachineBoard) EnablePullup(pin Pin) error {
	machinePin(pin).Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	return nil
}

// SetOutput drives an output pin.
func (MachineBoard) SetOutput(pin Pin, level Level) error {
	machinePin(pin).Set(bool(level))

	return nil
}

// ReadInput samples an input pin.
func (MachineBoard) ReadInput(pin Pin) (Level, error) {
	return Level(machinePin(pin).Get()), nil
}

// EnableInterrupts sets the global interrupt flag.
func (MachineBoard) EnableInterrupts() error {
	avr.Asm("sei")

	return nil
}

// machinePin maps a port/bit pin onto the TinyGo pin numbering.
func machinePin(pin Pin) machine.Pin {
	var base machine.Pin

	switch pin.Port() {
	case PortB:
		base = machine.PB0
	case PortC:
		base = machine.PC0
	default:
		base = machine.PD0
	}

	return base + machine.Pin(pin.Bit())
}

// MachineClock uses the TinyGo runtime timer.
type MachineClock struct {
	// start is the reference point for Now.
	start time.Time
}

// Ensure MachineClock implements Clock.
var _ Clock = (*MachineClock)(nil)

// NewMachineClock returns a clock starting now.
func NewMachineClock() *MachineClock {
	return &MachineClock{start: time.Now()}
}

// Now returns the time elapsed since the clock was created.
func (c *MachineClock) Now() time.Duration {
	return time.Since(c.start)
}

// Sleep blocks for d.
func (c *MachineClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
