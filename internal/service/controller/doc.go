// Package controller runs the thermostat panel loop.
//
// One Controller owns the panel state and every pin. Each Step polls the five
// buttons (debounced, active-low), applies the matching state changes, then
// renders either the multiplexed 3-digit temperature or the range LEDs, and
// finally waits the loop tail delay. All waiting goes through hal.Clock, so
// the loop runs in zero wall time against hal.VirtualClock in tests.
package controller
