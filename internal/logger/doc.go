// Package logger wraps zap for the thermostat binaries:
//   - a global sugared logger with a console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and an atomic level shared by every logger it builds,
//   - a sink override so the terminal simulator can keep stdout for itself.
//
// Services take a context and log through it, so scoped fields added by the
// caller (component name, backend, pin) follow every message.
//
// Under TinyGo the context helpers compile to no-ops and zap is not linked.
package logger
