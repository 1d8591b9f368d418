// Package runner hosts the thermostat loop in a desktop process.
//
// It loads settings, applies the log level, makes sure no other thermostat
// process already drives the same serial port, opens the selected backend and
// runs the controller until the context is cancelled.
package runner
