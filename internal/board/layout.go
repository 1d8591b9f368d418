package board

import (
	"errors"

	"github.com/oshokin/thermostat-panel/internal/domain/thermostat"
	"github.com/oshokin/thermostat-panel/internal/hal"
)

// SegmentCount is the number of segments of one display digit (A-G).
const SegmentCount = 7

// Button is one of the five panel pushbuttons.
type Button uint8

const (
	// ButtonIncrement raises the temperature.
	ButtonIncrement Button = iota
	// ButtonDecrement lowers the temperature.
	ButtonDecrement
	// ButtonToggleUnit switches Celsius and Fahrenheit.
	ButtonToggleUnit
	// ButtonChangeMode switches numeric display and range LEDs.
	ButtonChangeMode
	// ButtonStopAlarm silences the alarm until the next temperature change.
	ButtonStopAlarm

	// ButtonCount is the number of buttons.
	ButtonCount = 5
)

// String returns a human-readable button name.
func (b Button) String() string {
	switch b {
	case ButtonIncrement:
		return "increment"
	case ButtonDecrement:
		return "decrement"
	case ButtonToggleUnit:
		return "toggle-unit"
	case ButtonChangeMode:
		return "change-mode"
	case ButtonStopAlarm:
		return "stop-alarm"
	default:
		return "unknown"
	}
}

// Layout is the pin assignment of the panel.
type Layout struct {
	// Buttons holds the active-low button inputs, indexed by Button.
	Buttons [ButtonCount]hal.Pin
	// Alarm is the active-high alarm LED output.
	Alarm hal.Pin
	// Segments holds segment lines A to G.
	Segments [SegmentCount]hal.Pin
	// Digits holds the digit select lines: hundreds, tens, units.
	Digits [thermostat.DigitCount]hal.Pin
	// RangeLEDs holds LED1 to LED4.
	RangeLEDs [thermostat.RangeLEDCount]hal.Pin
}

// errDuplicatePin is returned when two functions share a pin.
var errDuplicatePin = errors.New("pin assigned twice")

// duplicatePinError names the pin that serves two functions.
type duplicatePinError struct {
	// pin is the shared pin.
	pin hal.Pin
}

// Error returns "PB0: pin assigned twice".
func (e *duplicatePinError) Error() string {
	return e.pin.String() + ": " + errDuplicatePin.Error()
}

// Unwrap returns errDuplicatePin.
func (e *duplicatePinError) Unwrap() error {
	return errDuplicatePin
}

// DefaultLayout returns the wiring of the reference board:
// buttons on PC0-PC4, alarm on PC5, segments on PD0-PD6,
// digit selects on PB0-PB2 and range LEDs on PB4, PB5, PD7, PB3.
func DefaultLayout() Layout {
	return Layout{
		Buttons: [ButtonCount]hal.Pin{
			ButtonIncrement:  hal.PC(0),
			ButtonDecrement:  hal.PC(1),
			ButtonToggleUnit: hal.PC(2),
			ButtonChangeMode: hal.PC(3),
			ButtonStopAlarm:  hal.PC(4),
		},
		Alarm: hal.PC(5),
		Segments: [SegmentCount]hal.Pin{
			hal.PD(0), hal.PD(1), hal.PD(2), hal.PD(3), hal.PD(4), hal.PD(5), hal.PD(6),
		},
		Digits: [thermostat.DigitCount]hal.Pin{
			hal.PB(0), hal.PB(1), hal.PB(2),
		},
		RangeLEDs: [thermostat.RangeLEDCount]hal.Pin{
			hal.PB(4), hal.PB(5), hal.PD(7), hal.PB(3),
		},
	}
}

// ButtonPin returns the input pin of a button.
func (l Layout) ButtonPin(b Button) hal.Pin {
	return l.Buttons[b]
}

// Outputs returns every output pin of the layout.
func (l Layout) Outputs() []hal.Pin {
	pins := make([]hal.Pin, 0, 1+SegmentCount+thermostat.DigitCount+thermostat.RangeLEDCount)

	pins = append(pins, l.Alarm)
	pins = append(pins, l.Segments[:]...)
	pins = append(pins, l.Digits[:]...)
	pins = append(pins, l.RangeLEDs[:]...)

	return pins
}

// Validate checks that no pin serves two functions.
func (l Layout) Validate() error {
	seen := make(map[hal.Pin]struct{}, ButtonCount+len(l.Outputs()))

	for _, pin := range append(l.Buttons[:], l.Outputs()...) {
		if _, ok := seen[pin]; ok {
			return &duplicatePinError{pin: pin}
		}

		seen[pin] = struct{}{}
	}

	return nil
}
