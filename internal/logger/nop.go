//go:build tinygo

package logger

import "context"

// The firmware image has no console. Every helper below keeps the host
// signatures and discards its arguments; contexts pass through unchanged.

// WithName returns ctx unchanged.
func WithName(ctx context.Context, _ string) context.Context { return ctx }

// WithKV returns ctx unchanged.
func WithKV(ctx context.Context, _ ...any) context.Context { return ctx }

// Debug discards the message.
func Debug(context.Context, ...any) {}

// Debugf discards the message.
func Debugf(context.Context, string, ...any) {}

// DebugKV discards the message.
func DebugKV(context.Context, string, ...any) {}

// Info discards the message.
func Info(context.Context, ...any) {}

// Infof discards the message.
func Infof(context.Context, string, ...any) {}

// InfoKV discards the message.
func InfoKV(context.Context, string, ...any) {}

// WarnKV discards the message.
func WarnKV(context.Context, string, ...any) {}

// Errorf discards the message.
func Errorf(context.Context, string, ...any) {}

// ErrorKV discards the message.
func ErrorKV(context.Context, string, ...any) {}
