// Package thermostat contains the core domain types of the thermostat panel.
//
// It defines State (temperature, rendering mode, display unit and the alarm
// flag) together with the pure rules applied to it: clamped increments,
// the alarm threshold, Fahrenheit conversion, digit extraction, the
// 7-segment glyph table and the range-indicator bands. Nothing here touches
// hardware; the controller service drives pins from these values.
package thermostat
