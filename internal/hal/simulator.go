//go:build !tinygo

package hal

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Event is a single output write observed by the Simulator.
type Event struct {
	// At is the clock time of the write.
	At time.Duration
	// Pin is the written pin.
	Pin Pin
	// Level is the written level.
	Level Level
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithoutEventLog disables the in-memory output log.
// Long running simulations use observers instead.
func WithoutEventLog() SimulatorOption {
	return func(s *Simulator) {
		s.logEvents = false
	}
}

// simPin is the simulated state of one pin.
type simPin struct {
	// dir is the configured direction.
	dir Direction
	// pullup reports whether the internal pull-up is on.
	pullup bool
	// level is the driven output level, or the externally forced input level.
	level Level
	// forced reports whether an external source drives the input.
	forced bool
}

// inputChange is a scheduled change of an input level.
type inputChange struct {
	// at is the clock time the change takes effect.
	at time.Duration
	// level is the new level.
	level Level
	// release returns the input to its pull-up (or floating) level.
	release bool
}

// Simulator is an in-memory Board. Inputs are scripted on the clock
// timeline, outputs are logged and fanned out to observers.
// It is safe for concurrent use.
type Simulator struct {
	// clock timestamps events and resolves scheduled inputs.
	clock Clock
	// pins holds every configured pin.
	pins map[Pin]*simPin
	// pending holds scheduled input changes per pin, sorted by time.
	pending map[Pin][]inputChange
	// events is the output log.
	events []Event
	// logEvents controls whether events are kept.
	logEvents bool
	// observers are notified of every output write.
	observers []func(Event)
	// interrupts reports whether EnableInterrupts was called.
	interrupts bool
	// mu protects all fields above.
	mu sync.Mutex
}

// Ensure Simulator implements Board.
var _ Board = (*Simulator)(nil)

// NewSimulator creates a simulator bound to the provided clock.
func NewSimulator(clock Clock, opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		clock:     clock,
		pins:      make(map[Pin]*simPin),
		pending:   make(map[Pin][]inputChange),
		logEvents: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ConfigureDirection sets the direction of a pin. Outputs start Low.
func (s *Simulator) ConfigureDirection(pin Pin, dir Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pins[pin]
	if !ok {
		p = new(simPin)
		s.pins[pin] = p
	}

	p.dir = dir

	return nil
}

// EnablePullup turns on the pull-up of an input pin.
func (s *Simulator) EnablePullup(pin Pin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.pinWithDirection(pin, Input)
	if err != nil {
		return err
	}

	p.pullup = true

	return nil
}

// SetOutput drives an output pin and records the write.
func (s *Simulator) SetOutput(pin Pin, level Level) error {
	s.mu.Lock()

	p, err := s.pinWithDirection(pin, Output)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	p.level = level

	event := Event{
		At:    s.clock.Now(),
		Pin:   pin,
		Level: level,
	}

	if s.logEvents {
		s.events = append(s.events, event)
	}

	observers := s.observers

	s.mu.Unlock()

	for _, observe := range observers {
		observe(event)
	}

	return nil
}

// ReadInput samples an input pin at the current clock time.
// An input that nothing drives reads High with pull-up and Low without.
func (s *Simulator) ReadInput(pin Pin) (Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.pinWithDirection(pin, Input)
	if err != nil {
		return Low, err
	}

	s.applyPending(pin, p)

	if p.forced {
		return p.level, nil
	}

	return Level(p.pullup), nil
}

// EnableInterrupts records that the global interrupt flag was set.
func (s *Simulator) EnableInterrupts() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.interrupts = true

	return nil
}

// ScheduleInput forces an input to level at the given clock time.
func (s *Simulator) ScheduleInput(pin Pin, at time.Duration, level Level) {
	s.schedule(pin, inputChange{at: at, level: level})
}

// ScheduleRelease stops forcing an input at the given clock time.
func (s *Simulator) ScheduleRelease(pin Pin, at time.Duration) {
	s.schedule(pin, inputChange{at: at, release: true})
}

// SetInput forces an input to level right now.
func (s *Simulator) SetInput(pin Pin, level Level) {
	s.ScheduleInput(pin, s.clock.Now(), level)
}

// Press holds an active-low button down for the given duration, starting now.
// Pressing a button that is still held never shortens the hold: releases
// queued before the new release time are dropped, and a later one wins.
func (s *Simulator) Press(pin Pin, hold time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	release := now + hold

	queue := s.pending[pin][:0:0]
	heldLonger := false

	for _, change := range s.pending[pin] {
		if change.release && change.at < release {
			continue
		}

		heldLonger = heldLonger || change.release
		queue = append(queue, change)
	}

	s.pending[pin] = queue

	s.scheduleLocked(pin, inputChange{at: now, level: Low})

	if !heldLonger {
		s.scheduleLocked(pin, inputChange{at: release, release: true})
	}
}

// Output returns the last level written to a pin.
func (s *Simulator) Output(pin Pin) Level {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pins[pin]; ok && p.dir == Output {
		return p.level
	}

	return Low
}

// Direction returns the configured direction of a pin.
func (s *Simulator) Direction(pin Pin) (Direction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pins[pin]
	if !ok {
		return Input, false
	}

	return p.dir, true
}

// PullupEnabled reports whether the pull-up of a pin is on.
func (s *Simulator) PullupEnabled(pin Pin) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pins[pin]

	return ok && p.pullup
}

// InterruptsEnabled reports whether EnableInterrupts was called.
func (s *Simulator) InterruptsEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.interrupts
}

// Events returns a copy of the output log.
func (s *Simulator) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]Event, len(s.events))
	copy(result, s.events)

	return result
}

// ResetEvents clears the output log.
func (s *Simulator) ResetEvents() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = nil
}

// Observe registers fn to be called after every output write.
// fn runs on the writing goroutine without the simulator lock held.
func (s *Simulator) Observe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	observers := make([]func(Event), len(s.observers), len(s.observers)+1)
	copy(observers, s.observers)
	s.observers = append(observers, fn)
}

// schedule inserts a change keeping the per-pin queue ordered by time.
func (s *Simulator) schedule(pin Pin, change inputChange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scheduleLocked(pin, change)
}

// scheduleLocked is schedule for callers holding mu.
func (s *Simulator) scheduleLocked(pin Pin, change inputChange) {
	queue := s.pending[pin]
	i := sort.Search(len(queue), func(i int) bool {
		return queue[i].at > change.at
	})

	queue = append(queue, inputChange{})
	copy(queue[i+1:], queue[i:])
	queue[i] = change

	s.pending[pin] = queue
}

// applyPending folds every change that is due into the pin state.
func (s *Simulator) applyPending(pin Pin, p *simPin) {
	queue := s.pending[pin]
	now := s.clock.Now()

	applied := 0

	for _, change := range queue {
		if change.at > now {
			break
		}

		p.forced = !change.release
		p.level = change.level
		applied++
	}

	if applied > 0 {
		s.pending[pin] = queue[applied:]
	}
}

// pinWithDirection returns a configured pin, checking its direction.
func (s *Simulator) pinWithDirection(pin Pin, dir Direction) (*simPin, error) {
	p, ok := s.pins[pin]
	if !ok {
		return nil, fmt.Errorf("%s: %w", pin, ErrNotConfigured)
	}

	if p.dir != dir {
		return nil, fmt.Errorf("%s is %s: %w", pin, p.dir, ErrWrongDirection)
	}

	return p, nil
}
