package controller

import (
	"time"

	"github.com/oshokin/thermostat-panel/internal/board"
)

// Timing holds every delay of the loop.
type Timing struct {
	// Debounce is the settle delay between the two reads of each button.
	Debounce [board.ButtonCount]time.Duration
	// DigitHold is how long each digit stays selected while multiplexing.
	DigitHold time.Duration
	// LoopDelay is the fixed wait at the end of every iteration.
	LoopDelay time.Duration
}

// DefaultTiming returns the tuned delays of the reference panel.
// Debounce delays differ per button on purpose.
func DefaultTiming() Timing {
	return Timing{
		Debounce: [board.ButtonCount]time.Duration{
			board.ButtonIncrement:  140 * time.Millisecond,
			board.ButtonDecrement:  130 * time.Millisecond,
			board.ButtonToggleUnit: 100 * time.Millisecond,
			board.ButtonChangeMode: 100 * time.Millisecond,
			board.ButtonStopAlarm:  50 * time.Millisecond,
		},
		DigitHold: 10 * time.Millisecond,
		LoopDelay: time.Millisecond,
	}
}
