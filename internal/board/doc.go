// Package board describes the thermostat panel wiring.
//
// Layout maps buttons, the alarm LED, the 7-segment bus, the digit selects
// and the range LEDs onto microcontroller pins. Panel replays output writes
// and reconstructs what the panel shows, which the terminal simulator and
// the loop tests use to look at the display like a person would.
package board
