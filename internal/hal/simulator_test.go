//go:build !tinygo

package hal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestSimulator_PullupInputs verifies active-low buttons read High when open.
func TestSimulator_PullupInputs(t *testing.T) {
	t.Parallel()

	sim := NewSimulator(NewVirtualClock())
	pin := PC(0)

	require.NoError(t, sim.ConfigureDirection(pin, Input))

	level, err := sim.ReadInput(pin)
	require.NoError(t, err)
	require.Equal(t, Low, level)

	require.NoError(t, sim.EnablePullup(pin))

	level, err = sim.ReadInput(pin)
	require.NoError(t, err)
	require.Equal(t, High, level)
}

// TestSimulator_DirectionChecks verifies misuse of pins is reported.
func TestSimulator_DirectionChecks(t *testing.T) {
	t.Parallel()

	sim := NewSimulator(NewVirtualClock())

	_, err := sim.ReadInput(PC(0))
	require.ErrorIs(t, err, ErrNotConfigured)

	require.NoError(t, sim.ConfigureDirection(PC(0), Input))
	require.ErrorIs(t, sim.SetOutput(PC(0), High), ErrWrongDirection)

	require.NoError(t, sim.ConfigureDirection(PC(5), Output))
	require.ErrorIs(t, sim.EnablePullup(PC(5)), ErrWrongDirection)

	_, err = sim.ReadInput(PC(5))
	require.ErrorIs(t, err, ErrWrongDirection)
}

// TestSimulator_PressTimeline verifies scheduled presses follow the clock.
func TestSimulator_PressTimeline(t *testing.T) {
	t.Parallel()

	clock := NewVirtualClock()
	sim := NewSimulator(clock)
	pin := PC(1)

	require.NoError(t, sim.ConfigureDirection(pin, Input))
	require.NoError(t, sim.EnablePullup(pin))

	sim.Press(pin, 50*time.Millisecond)

	level, err := sim.ReadInput(pin)
	require.NoError(t, err)
	require.Equal(t, Low, level)

	clock.Sleep(49 * time.Millisecond)

	level, err = sim.ReadInput(pin)
	require.NoError(t, err)
	require.Equal(t, Low, level)

	clock.Sleep(time.Millisecond)

	level, err = sim.ReadInput(pin)
	require.NoError(t, err)
	require.Equal(t, High, level)
}

// TestSimulator_OverlappingPressesExtendTheHold verifies a press on a held
// button keeps it Low until the later release.
func TestSimulator_OverlappingPressesExtendTheHold(t *testing.T) {
	t.Parallel()

	clock := NewVirtualClock()
	sim := NewSimulator(clock)
	pin := PC(0)

	require.NoError(t, sim.ConfigureDirection(pin, Input))
	require.NoError(t, sim.EnablePullup(pin))

	sim.Press(pin, 180*time.Millisecond)
	clock.Sleep(30 * time.Millisecond)
	sim.Press(pin, 180*time.Millisecond)

	clock.Sleep(160 * time.Millisecond)

	level, err := sim.ReadInput(pin)
	require.NoError(t, err)
	require.Equal(t, Low, level, "the first release must not cut the second press short")

	clock.Sleep(20 * time.Millisecond)

	level, err = sim.ReadInput(pin)
	require.NoError(t, err)
	require.Equal(t, High, level)
}

// TestSimulator_ShortPressInsideLongHold verifies a shorter press inside a longer hold does not end it early.
func TestSimulator_ShortPressInsideLongHold(t *testing.T) {
	t.Parallel()

	clock := NewVirtualClock()
	sim := NewSimulator(clock)
	pin := PC(0)

	require.NoError(t, sim.ConfigureDirection(pin, Input))
	require.NoError(t, sim.EnablePullup(pin))

	sim.Press(pin, 200*time.Millisecond)
	clock.Sleep(10 * time.Millisecond)
	sim.Press(pin, 20*time.Millisecond)

	clock.Sleep(100 * time.Millisecond)

	level, err := sim.ReadInput(pin)
	require.NoError(t, err)
	require.Equal(t, Low, level)

	clock.Sleep(100 * time.Millisecond)

	level, err = sim.ReadInput(pin)
	require.NoError(t, err)
	require.Equal(t, High, level)
}

// TestSimulator_ScheduleOrdering verifies out-of-order scheduling is applied in time order.
func TestSimulator_ScheduleOrdering(t *testing.T) {
	t.Parallel()

	clock := NewVirtualClock()
	sim := NewSimulator(clock)
	pin := PC(2)

	require.NoError(t, sim.ConfigureDirection(pin, Input))
	require.NoError(t, sim.EnablePullup(pin))

	sim.ScheduleRelease(pin, 30*time.Millisecond)
	sim.ScheduleInput(pin, 10*time.Millisecond, Low)

	clock.Sleep(20 * time.Millisecond)

	level, err := sim.ReadInput(pin)
	require.NoError(t, err)
	require.Equal(t, Low, level)

	clock.Sleep(20 * time.Millisecond)

	level, err = sim.ReadInput(pin)
	require.NoError(t, err)
	require.Equal(t, High, level)
}

// TestSimulator_OutputLogAndObservers verifies writes are logged and observed.
func TestSimulator_OutputLogAndObservers(t *testing.T) {
	t.Parallel()

	clock := NewVirtualClock()
	sim := NewSimulator(clock)
	pin := PC(5)

	var observed []Event
	sim.Observe(func(e Event) {
		observed = append(observed, e)
	})

	require.NoError(t, sim.ConfigureDirection(pin, Output))
	require.Equal(t, Low, sim.Output(pin))

	require.NoError(t, sim.SetOutput(pin, High))
	clock.Sleep(10 * time.Millisecond)
	require.NoError(t, sim.SetOutput(pin, Low))

	want := []Event{
		{At: 0, Pin: pin, Level: High},
		{At: 10 * time.Millisecond, Pin: pin, Level: Low},
	}

	require.Equal(t, want, sim.Events())
	require.Equal(t, want, observed)

	sim.ResetEvents()
	require.Empty(t, sim.Events())
}

// TestSimulator_WithoutEventLog verifies the log can be turned off while observers still fire.
func TestSimulator_WithoutEventLog(t *testing.T) {
	t.Parallel()

	sim := NewSimulator(NewVirtualClock(), WithoutEventLog())

	calls := 0
	sim.Observe(func(Event) { calls++ })

	require.NoError(t, sim.ConfigureDirection(PB(0), Output))
	require.NoError(t, sim.SetOutput(PB(0), High))

	require.Empty(t, sim.Events())
	require.Equal(t, 1, calls)
}

// TestSimulator_Interrupts verifies the interrupt flag is recorded.
func TestSimulator_Interrupts(t *testing.T) {
	t.Parallel()

	sim := NewSimulator(NewVirtualClock())
	require.False(t, sim.InterruptsEnabled())
	require.NoError(t, sim.EnableInterrupts())
	require.True(t, sim.InterruptsEnabled())
}
