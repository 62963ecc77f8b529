// Package debounce holds a value that follows a rapidly changing source
// but only settles once the source has stopped changing for a quiet
// period.
//
// A Value owns exactly one cancellable timer. Every change of the source
// stops the pending timer and schedules a new one; Stop releases the
// timer when the holder is discarded.
package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Option configures a Value.
type Option func(*options)

type options struct {
	clock clockwork.Clock
}

// WithClock sets the clock used for the debounce timer. The default is
// the real clock; tests inject a fake one.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// Value is a debounced value holder. It is safe for concurrent use.
type Value[T comparable] struct {
	clock clockwork.Clock
	delay time.Duration

	mu      sync.Mutex
	source  T
	current T
	timer   clockwork.Timer
	// generation is bumped on every Set and on Stop. A timer callback
	// only publishes if the generation it was scheduled with is still
	// the latest one.
	generation uint64
	stopped    bool

	updates chan T
}

// New creates a Value whose source and output both start at initial.
// Negative delays are treated as zero.
func New[T comparable](initial T, delay time.Duration, opts ...Option) *Value[T] {
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}
	if delay < 0 {
		delay = 0
	}
	return &Value[T]{
		clock:   o.clock,
		delay:   delay,
		source:  initial,
		current: initial,
		updates: make(chan T, 1),
	}
}

// Delay returns the quiet period.
func (v *Value[T]) Delay() time.Duration {
	return v.delay
}

// Set records a new source value. Setting the current source value again
// is a no-op and does not restart the quiet period.
func (v *Value[T]) Set(value T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.stopped || value == v.source {
		return
	}
	v.source = value
	v.generation++
	v.cancelLocked()

	if v.delay == 0 {
		v.settleLocked(value)
		return
	}

	generation := v.generation
	v.timer = v.clock.AfterFunc(v.delay, func() {
		v.fire(generation, value)
	})
}

// Get returns the settled value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Source returns the most recent value passed to Set.
func (v *Value[T]) Source() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.source
}

// Pending reports whether an update is scheduled but has not fired yet.
func (v *Value[T]) Pending() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.timer != nil
}

// Updates delivers settled values. The channel holds at most one value;
// an unread value is replaced by a newer one. It is never closed.
func (v *Value[T]) Updates() <-chan T {
	return v.updates
}

// Stop cancels any pending update and disables the holder. Set calls
// after Stop are ignored. Stop is idempotent.
func (v *Value[T]) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.stopped = true
	v.generation++
	v.cancelLocked()
}

func (v *Value[T]) fire(generation uint64, value T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.stopped || generation != v.generation {
		return
	}
	v.timer = nil
	v.settleLocked(value)
}

func (v *Value[T]) cancelLocked() {
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}

// settleLocked adopts value as the output and publishes it, dropping an
// unread older value. Must be called with v.mu held.
func (v *Value[T]) settleLocked(value T) {
	if value == v.current {
		return
	}
	v.current = value

	for {
		select {
		case v.updates <- value:
			return
		default:
		}
		select {
		case <-v.updates:
		default:
		}
	}
}
