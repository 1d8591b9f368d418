package controller

import (
	"context"
	"sync"

	"github.com/oshokin/thermostat-panel/internal/board"
	"github.com/oshokin/thermostat-panel/internal/domain/thermostat"
	"github.com/oshokin/thermostat-panel/internal/hal"
	"github.com/oshokin/thermostat-panel/internal/logger"
)

// pollOrder is the order buttons are sampled in every iteration.
//
//nolint:gochecknoglobals // Immutable loop order.
var pollOrder = [board.ButtonCount]board.Button{
	board.ButtonIncrement,
	board.ButtonDecrement,
	board.ButtonToggleUnit,
	board.ButtonStopAlarm,
	board.ButtonChangeMode,
}

// Option configures a Controller.
type Option func(*Controller)

// WithLayout overrides the pin layout.
func WithLayout(layout board.Layout) Option {
	return func(c *Controller) {
		c.layout = layout
	}
}

// WithTiming overrides the loop delays.
func WithTiming(timing Timing) Option {
	return func(c *Controller) {
		c.timing = timing
	}
}

// Controller owns the thermostat state and drives the panel.
// Only the goroutine running the loop mutates the state; State may be
// called from others.
type Controller struct {
	// board is the GPIO backend.
	board hal.Board
	// clock provides every delay.
	clock hal.Clock
	// layout maps panel functions to pins.
	layout board.Layout
	// timing holds the loop delays.
	timing Timing
	// state is the thermostat state.
	state thermostat.State
	// mu protects state for readers outside the loop.
	mu sync.RWMutex
}

// New creates a controller over the board and clock with the reference
// layout and timing unless overridden.
func New(b hal.Board, clock hal.Clock, opts ...Option) *Controller {
	c := &Controller{
		board:  b,
		clock:  clock,
		layout: board.DefaultLayout(),
		timing: DefaultTiming(),
		state:  thermostat.NewState(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// State returns a copy of the current state.
func (c *Controller) State() thermostat.State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.state
}

// Layout returns the pin layout in use.
func (c *Controller) Layout() board.Layout {
	return c.layout
}

// Timing returns the delays in use.
func (c *Controller) Timing() Timing {
	return c.timing
}

// Init configures every pin, turns the alarm off and enables interrupts.
func (c *Controller) Init(ctx context.Context) error {
	if err := c.layout.Validate(); err != nil {
		return wrap("validate layout", err)
	}

	for _, pin := range c.layout.Buttons {
		if err := c.board.ConfigureDirection(pin, hal.Input); err != nil {
			return wrap("configure button "+pin.String(), err)
		}

		if err := c.board.EnablePullup(pin); err != nil {
			return wrap("enable pull-up on "+pin.String(), err)
		}
	}

	for _, pin := range c.layout.Outputs() {
		if err := c.board.ConfigureDirection(pin, hal.Output); err != nil {
			return wrap("configure output "+pin.String(), err)
		}
	}

	if err := c.board.SetOutput(c.layout.Alarm, hal.Low); err != nil {
		return wrap("clear alarm", err)
	}

	// No handlers are installed; only the global flag is set.
	if err := c.board.EnableInterrupts(); err != nil {
		return wrap("enable interrupts", err)
	}

	logger.InfoKV(ctx, "Panel initialised",
		"temperature", c.state.Temperature,
		"mode", c.state.Mode.String(),
		"unit", c.state.Unit.String())

	return nil
}

// Run initialises the panel and loops until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.Init(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Loop stopped")
			return nil
		default:
		}

		if err := c.Step(ctx); err != nil {
			return err
		}
	}
}

// Step runs one poll-act-render iteration.
func (c *Controller) Step(ctx context.Context) error {
	for _, button := range pollOrder {
		pressed, err := c.SampleButton(ctx, button)
		if err != nil {
			return err
		}

		if !pressed {
			continue
		}

		if err = c.dispatch(ctx, button); err != nil {
			return err
		}
	}

	if err := c.Render(ctx); err != nil {
		return err
	}

	c.clock.Sleep(c.timing.LoopDelay)

	return nil
}

// SampleButton reports whether a button is pressed. A Low read is
// confirmed by a second read after the button's settle delay; both must
// be Low. An open button costs no delay.
func (c *Controller) SampleButton(_ context.Context, button board.Button) (bool, error) {
	pin := c.layout.ButtonPin(button)

	first, err := c.board.ReadInput(pin)
	if err != nil {
		return false, wrap("read "+button.String()+" button", err)
	}

	if first != hal.Low {
		return false, nil
	}

	c.clock.Sleep(c.timing.Debounce[button])

	second, err := c.board.ReadInput(pin)
	if err != nil {
		return false, wrap("read "+button.String()+" button", err)
	}

	return second == hal.Low, nil
}

// dispatch applies the action of a confirmed button press.
func (c *Controller) dispatch(ctx context.Context, button board.Button) error {
	logger.DebugKV(ctx, "Button pressed", "button", button.String())

	switch button {
	case board.ButtonIncrement:
		return c.Increment(ctx)
	case board.ButtonDecrement:
		return c.Decrement(ctx)
	case board.ButtonToggleUnit:
		c.ToggleDisplayUnit(ctx)
	case board.ButtonChangeMode:
		c.ToggleMode(ctx)
	case board.ButtonStopAlarm:
		return c.StopAlarm(ctx)
	}

	return nil
}

// Increment raises the temperature by one, clamped at the maximum,
// and re-derives the alarm when the value changed.
func (c *Controller) Increment(ctx context.Context) error {
	c.mu.Lock()
	was := c.state.AlarmTriggered
	changed := c.state.Increment()
	c.mu.Unlock()

	if !changed {
		return nil
	}

	return c.driveAlarm(ctx, was)
}

// Decrement lowers the temperature by one, clamped at the minimum,
// and re-derives the alarm when the value changed.
func (c *Controller) Decrement(ctx context.Context) error {
	c.mu.Lock()
	was := c.state.AlarmTriggered
	changed := c.state.Decrement()
	c.mu.Unlock()

	if !changed {
		return nil
	}

	return c.driveAlarm(ctx, was)
}

// ToggleDisplayUnit switches the numeric display between Celsius and Fahrenheit.
func (c *Controller) ToggleDisplayUnit(ctx context.Context) {
	c.mu.Lock()
	c.state.ToggleUnit()
	unit := c.state.Unit
	c.mu.Unlock()

	logger.InfoKV(ctx, "Display unit changed", "unit", unit.String())
}

// ToggleMode switches between numeric display and range LEDs.
func (c *Controller) ToggleMode(ctx context.Context) {
	c.mu.Lock()
	c.state.ToggleMode()
	mode := c.state.Mode
	c.mu.Unlock()

	logger.InfoKV(ctx, "Display mode changed", "mode", mode.String())
}

// StopAlarm turns the alarm off until the next temperature change.
// Only the alarm pin is written.
func (c *Controller) StopAlarm(ctx context.Context) error {
	if err := c.board.SetOutput(c.layout.Alarm, hal.Low); err != nil {
		return wrap("stop alarm", err)
	}

	c.mu.Lock()
	c.state.StopAlarm()
	temperature := c.state.Temperature
	c.mu.Unlock()

	logger.InfoKV(ctx, "Alarm stopped", "temperature", temperature)

	return nil
}

// RecomputeAlarm derives the alarm from the threshold and drives the alarm pin.
func (c *Controller) RecomputeAlarm(ctx context.Context) error {
	c.mu.Lock()
	was := c.state.AlarmTriggered
	c.state.RecomputeAlarm()
	c.mu.Unlock()

	return c.driveAlarm(ctx, was)
}

// driveAlarm writes the alarm pin from the state and logs transitions.
func (c *Controller) driveAlarm(ctx context.Context, was bool) error {
	c.mu.RLock()
	triggered := c.state.AlarmTriggered
	temperature := c.state.Temperature
	c.mu.RUnlock()

	if err := c.board.SetOutput(c.layout.Alarm, hal.Level(triggered)); err != nil {
		return wrap("drive alarm", err)
	}

	logger.DebugKV(ctx, "Temperature changed", "temperature", temperature)

	switch {
	case triggered && !was:
		logger.WarnKV(ctx, "Alarm raised", "temperature", temperature, "threshold", thermostat.AlarmThreshold)
	case !triggered && was:
		logger.InfoKV(ctx, "Alarm cleared", "temperature", temperature)
	}

	return nil
}
