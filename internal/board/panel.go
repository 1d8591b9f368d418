package board

import (
	"sync"
	"time"

	"github.com/oshokin/thermostat-panel/internal/domain/thermostat"
	"github.com/oshokin/thermostat-panel/internal/hal"
)

// DefaultPersistence is how long a multiplexed digit keeps looking lit
// after it was last refreshed.
const DefaultPersistence = 100 * time.Millisecond

// DigitView is one display position as seen by an observer.
type DigitView struct {
	// Pattern is the segment pattern shown, bit 0 being segment A.
	Pattern byte
	// Lit reports whether the digit was refreshed recently enough to be visible.
	Lit bool
}

// PanelView is a snapshot of everything visible on the panel.
type PanelView struct {
	// Digits holds hundreds, tens and units.
	Digits [thermostat.DigitCount]DigitView
	// RangeLEDs holds LED1 to LED4.
	RangeLEDs [thermostat.RangeLEDCount]bool
	// Alarm is the alarm LED.
	Alarm bool
}

// Number decodes the lit digits into a value.
// It returns false when a digit is dark or shows no known glyph.
func (v PanelView) Number() (int, bool) {
	value := 0

	for _, digit := range v.Digits {
		if !digit.Lit {
			return 0, false
		}

		n, ok := thermostat.DecodeGlyph(digit.Pattern)
		if !ok {
			return 0, false
		}

		value = value*10 + n
	}

	return value, true
}

// Panel rebuilds the visible panel from output writes.
// A digit latches the segment bus when its select line is released.
type Panel struct {
	// layout maps pins to panel functions.
	layout Layout
	// persistence is how long a latched digit stays visible.
	persistence time.Duration
	// segments holds the current level of each segment line.
	segments [SegmentCount]bool
	// selected holds the current level of each digit select line.
	selected [thermostat.DigitCount]bool
	// latched holds the last pattern shown on each digit.
	latched [thermostat.DigitCount]byte
	// latchedAt holds when each digit was last released, -1 if never.
	latchedAt [thermostat.DigitCount]time.Duration
	// leds holds the range LED levels.
	leds [thermostat.RangeLEDCount]bool
	// alarm holds the alarm LED level.
	alarm bool
	// mu protects the fields above.
	mu sync.Mutex
}

// NewPanel creates a panel decoder for the layout.
func NewPanel(layout Layout) *Panel {
	p := &Panel{
		layout:      layout,
		persistence: DefaultPersistence,
	}

	for i := range p.latchedAt {
		p.latchedAt[i] = -1
	}

	return p
}

// Apply feeds one output write into the panel.
func (p *Panel) Apply(event hal.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	on := bool(event.Level)

	if event.Pin == p.layout.Alarm {
		p.alarm = on
		return
	}

	for i, pin := range p.layout.Segments {
		if pin == event.Pin {
			p.segments[i] = on
			return
		}
	}

	for i, pin := range p.layout.Digits {
		if pin != event.Pin {
			continue
		}

		if p.selected[i] && !on {
			p.latched[i] = p.pattern()
			p.latchedAt[i] = event.At
		}

		p.selected[i] = on

		return
	}

	for i, pin := range p.layout.RangeLEDs {
		if pin == event.Pin {
			p.leds[i] = on
			return
		}
	}
}

// Snapshot returns what the panel shows at time now.
func (p *Panel) Snapshot(now time.Duration) PanelView {
	p.mu.Lock()
	defer p.mu.Unlock()

	view := PanelView{
		RangeLEDs: p.leds,
		Alarm:     p.alarm,
	}

	for i := range view.Digits {
		view.Digits[i] = DigitView{
			Pattern: p.latched[i],
			Lit:     p.latchedAt[i] >= 0 && now-p.latchedAt[i] <= p.persistence,
		}
	}

	return view
}

// pattern packs the segment lines into a glyph byte.
func (p *Panel) pattern() byte {
	var result byte

	for i, on := range p.segments {
		if on {
			result |= 1 << i
		}
	}

	return result
}
