// Package viewer implements the terminal simulator of the thermostat panel.
//
// The controller loop runs on a simulated board in real time; keys press the
// panel buttons and the view redraws the multiplexed display, the range LEDs
// and the alarm LED from the pins the loop drives.
package viewer
