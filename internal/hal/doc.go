// Package hal is the hardware abstraction the thermostat loop talks to.
//
// Board exposes the four GPIO primitives the loop needs (direction, pull-up,
// write, read) plus the global interrupt enable, and Clock exposes time so
// that busy-wait delays can be replaced in tests. Three boards are provided:
//   - Simulator, an in-memory board with scripted inputs and an output log,
//   - SerialBoard, a host-side driver for a GPIO bridge on a serial line,
//   - MachineBoard, the TinyGo board for the AVR target (tinygo builds only).
//
// Simulator, SerialBoard and ServeBridge are host-only and excluded from
// TinyGo builds.
package hal
