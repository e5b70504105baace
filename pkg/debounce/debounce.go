// Package debounce coalesces bursts of input into one call after a pause.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiescence delay used for form input.
const DefaultDelay = 150 * time.Millisecond

// Debouncer calls fn with the last triggered value once no new value has
// arrived for delay. Safe for concurrent use.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(T)
	timer   *time.Timer
	gen     uint64
	pending bool
	last    T
	stopped bool
}

// New returns a Debouncer. A non-positive delay uses DefaultDelay.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Trigger records v and restarts the quiescence timer.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.last = v
	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	// A timer that already fired may still be waiting on mu; the generation
	// tells it that it has been superseded.
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.pending || d.stopped {
		d.mu.Unlock()
		return
	}
	v := d.last
	d.pending = false
	d.mu.Unlock()

	d.fn(v)
}

// Flush runs a pending call immediately.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.mu.Unlock()
	d.fire(gen)
}

// Stop drops any pending call; later triggers are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
}
