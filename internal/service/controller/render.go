package controller

import (
	"context"

	"github.com/oshokin/thermostat-panel/internal/domain/thermostat"
	"github.com/oshokin/thermostat-panel/internal/hal"
)

// Render draws the current state with the path selected by the mode.
func (c *Controller) Render(ctx context.Context) error {
	state := c.State()

	if state.Mode == thermostat.ModeRangeIndicator {
		return c.renderRange(ctx, state)
	}

	return c.renderNumeric(ctx, state)
}

// renderNumeric multiplexes the display value over the three digits:
// hundreds, tens, then units, each selected alone for DigitHold.
// Range LEDs are kept dark while the display is in use.
func (c *Controller) renderNumeric(_ context.Context, state thermostat.State) error {
	if err := c.clearRangeLEDs(); err != nil {
		return err
	}

	digits := thermostat.Digits(state.DisplayValue())

	for position, digit := range digits {
		if err := c.selectDigit(position); err != nil {
			return err
		}

		if err := c.writeSegments(thermostat.Glyph(digit)); err != nil {
			return err
		}

		c.clock.Sleep(c.timing.DigitHold)

		if err := c.selectDigit(-1); err != nil {
			return err
		}
	}

	return nil
}

// renderRange lights the LED of the temperature band, or none above 40.
func (c *Controller) renderRange(_ context.Context, state thermostat.State) error {
	if err := c.clearRangeLEDs(); err != nil {
		return err
	}

	led, ok := thermostat.BandFor(state.Temperature).LED()
	if !ok {
		return nil
	}

	pin := c.layout.RangeLEDs[led]
	if err := c.board.SetOutput(pin, hal.High); err != nil {
		return wrap("light range LED "+pin.String(), err)
	}

	return nil
}

// selectDigit asserts one digit select line and deasserts the others.
// A negative position deasserts all of them.
func (c *Controller) selectDigit(position int) error {
	for i, pin := range c.layout.Digits {
		if i == position {
			continue
		}

		if err := c.board.SetOutput(pin, hal.Low); err != nil {
			return wrap("deselect digit "+pin.String(), err)
		}
	}

	if position < 0 {
		return nil
	}

	pin := c.layout.Digits[position]
	if err := c.board.SetOutput(pin, hal.High); err != nil {
		return wrap("select digit "+pin.String(), err)
	}

	return nil
}

// writeSegments puts a glyph on the segment bus.
func (c *Controller) writeSegments(glyph byte) error {
	for i, pin := range c.layout.Segments {
		if err := c.board.SetOutput(pin, hal.Level(glyph&(1<<i) != 0)); err != nil {
			return wrap("drive segment "+pin.String(), err)
		}
	}

	return nil
}

// clearRangeLEDs turns all four range LEDs off.
func (c *Controller) clearRangeLEDs() error {
	for _, pin := range c.layout.RangeLEDs {
		if err := c.board.SetOutput(pin, hal.Low); err != nil {
			return wrap("clear range LED "+pin.String(), err)
		}
	}

	return nil
}
