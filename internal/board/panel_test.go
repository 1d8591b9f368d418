package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/thermostat-panel/internal/domain/thermostat"
	"github.com/oshokin/thermostat-panel/internal/hal"
)

// showDigit replays the writes a multiplexed refresh of one digit produces.
func showDigit(p *Panel, l Layout, at time.Duration, position, digit int) {
	p.Apply(hal.Event{At: at, Pin: l.Digits[position], Level: hal.High})

	glyph := thermostat.Glyph(digit)
	for i, pin := range l.Segments {
		p.Apply(hal.Event{At: at, Pin: pin, Level: hal.Level(glyph&(1<<i) != 0)})
	}

	p.Apply(hal.Event{At: at + 10*time.Millisecond, Pin: l.Digits[position], Level: hal.Low})
}

// TestPanel_DecodesDigits verifies latched digits decode back into the shown number.
func TestPanel_DecodesDigits(t *testing.T) {
	t.Parallel()

	l := DefaultLayout()
	p := NewPanel(l)

	_, ok := p.Snapshot(0).Number()
	require.False(t, ok)

	showDigit(p, l, 0, 0, 2)
	showDigit(p, l, 10*time.Millisecond, 1, 1)
	showDigit(p, l, 20*time.Millisecond, 2, 0)

	view := p.Snapshot(30 * time.Millisecond)
	n, ok := view.Number()
	require.True(t, ok)
	require.Equal(t, 210, n)

	// Not refreshed for longer than the persistence: dark.
	view = p.Snapshot(time.Second)
	_, ok = view.Number()
	require.False(t, ok)
}

// TestPanel_LEDs verifies alarm and range LEDs are tracked.
func TestPanel_LEDs(t *testing.T) {
	t.Parallel()

	l := DefaultLayout()
	p := NewPanel(l)

	p.Apply(hal.Event{Pin: l.Alarm, Level: hal.High})
	p.Apply(hal.Event{Pin: l.RangeLEDs[2], Level: hal.High})

	view := p.Snapshot(0)
	require.True(t, view.Alarm)
	require.Equal(t, [4]bool{false, false, true, false}, view.RangeLEDs)

	p.Apply(hal.Event{Pin: l.RangeLEDs[2], Level: hal.Low})
	require.Equal(t, [4]bool{}, p.Snapshot(0).RangeLEDs)
}
